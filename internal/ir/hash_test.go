package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecords() []TraceRecord {
	return []TraceRecord{
		{Kind: KindKeyValue, Stack: []ContextFrame{{Origin: "a: 1"}}, Line: 1, Content: "a: 1"},
		{Kind: KindStart, Stack: []ContextFrame{{Origin: "b: 2"}}, Line: 2, Content: "b: 2"},
		{Kind: KindKeyValue, Stack: []ContextFrame{{Origin: "b: 2"}}, Line: 2, Content: "b: 2"},
	}
}

func TestDocumentHash(t *testing.T) {
	h1 := DocumentHash("a: 1\n")
	h2 := DocumentHash("a: 1\n")
	h3 := DocumentHash("a: 1")

	assert.Equal(t, h1, h2, "DocumentHash must be deterministic")
	assert.NotEqual(t, h1, h3, "trailing newline is part of the document")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestRunIDDeterminism(t *testing.T) {
	doc := DocumentHash("a: 1\nb: 2\n")
	verdict := Verdict{Valid: true}

	id1 := MustRunID(doc, verdict, sampleRecords())
	id2 := MustRunID(doc, verdict, sampleRecords())

	assert.Equal(t, id1, id2, "RunID must be deterministic")
	assert.Len(t, id1, 64)
}

func TestRunIDChangesWithInput(t *testing.T) {
	doc := DocumentHash("a: 1\nb: 2\n")
	base := MustRunID(doc, Verdict{Valid: true}, sampleRecords())

	otherDoc := MustRunID(DocumentHash("a: 1\n"), Verdict{Valid: true}, sampleRecords())
	otherVerdict := MustRunID(doc, Verdict{Valid: false, Message: "Error at line 1: x"}, sampleRecords())

	recs := sampleRecords()
	recs[0].Stack[0].Depth = DepthOf(1)
	otherDepth := MustRunID(doc, Verdict{Valid: true}, recs)

	assert.NotEqual(t, base, otherDoc, "different documents should produce different IDs")
	assert.NotEqual(t, base, otherVerdict, "different verdicts should produce different IDs")
	assert.NotEqual(t, base, otherDepth, "different depths should produce different IDs")
}

func TestRunIDEmptyTrace(t *testing.T) {
	id, err := RunID(DocumentHash(""), Verdict{Valid: true}, nil)
	assert.NoError(t, err)
	assert.Len(t, id, 64)
}
