package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDocument = "blockscan/document/v1"
	DomainRun      = "blockscan/run/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash identifies a document by its exact text.
func DocumentHash(doc string) string {
	return hashWithDomain(DomainDocument, []byte(doc))
}

// RunID computes the content-addressed ID of a completed scan.
//
// Scanning is deterministic, so two scans of the same document produce the
// same verdict and records and therefore the same RunID. Batch tokens and
// source names are deliberately left out: they describe where a run was
// requested, not what it observed.
func RunID(documentHash string, verdict Verdict, records []TraceRecord) (string, error) {
	recs := make([]any, len(records))
	for i, r := range records {
		recs[i] = r.CanonicalMap()
	}
	obj := map[string]any{
		"document_hash":  documentHash,
		"verdict":        verdict.CanonicalMap(),
		"records":        recs,
		"record_version": RecordVersion,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// MustRunID is like RunID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRunID(documentHash string, verdict Verdict, records []TraceRecord) string {
	id, err := RunID(documentHash, verdict, records)
	if err != nil {
		panic(err)
	}
	return id
}
