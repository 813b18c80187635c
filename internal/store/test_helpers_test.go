package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/blockscan/internal/scan"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// scanInput scans doc and packages the result for WriteRun.
func scanInput(batch, source, doc string) RunInput {
	var c scan.Collector
	v := scan.Scan(doc, &c)
	return RunInput{
		Batch:    batch,
		Source:   source,
		Document: doc,
		Verdict:  v,
		Records:  c.Records(),
	}
}

// mustWrite writes a run and fails the test on error.
func mustWrite(t *testing.T, s *Store, in RunInput) Run {
	t.Helper()
	run, _, err := s.WriteRun(context.Background(), in)
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	return run
}
