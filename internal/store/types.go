package store

import "github.com/roach88/blockscan/internal/ir"

// RunInput is everything needed to record one scan.
type RunInput struct {
	Batch    string
	Source   string
	Document string
	Verdict  ir.Verdict
	Records  []ir.TraceRecord
}

// Run is a stored scan run (without its records).
type Run struct {
	ID             string
	Seq            int64
	Batch          string
	Source         string
	DocumentHash   string
	Verdict        ir.Verdict
	RecordCount    int
	ScannerVersion string
	RecordVersion  string
}
