package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blockscan/internal/ir"
)

func TestWriteRun_Inserts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := scanInput("batch-1", "doc.yaml", "a:\n  - x\n  - y\n")
	run, inserted, err := s.WriteRun(ctx, in)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.Equal(t, ir.MustRunID(ir.DocumentHash(in.Document), in.Verdict, in.Records), run.ID)
	assert.Equal(t, "batch-1", run.Batch)
	assert.Equal(t, "doc.yaml", run.Source)
	assert.Equal(t, ir.DocumentHash(in.Document), run.DocumentHash)
	assert.True(t, run.Verdict.Valid)
	assert.Equal(t, 4, run.RecordCount)
	assert.Equal(t, ir.ScannerVersion, run.ScannerVersion)
	assert.Equal(t, ir.RecordVersion, run.RecordVersion)

	var n int
	require.NoError(t, s.db.QueryRow(
		"SELECT COUNT(*) FROM trace_records WHERE run_id = ?", run.ID).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := scanInput("batch-1", "doc.yaml", "a: 1\nb: 2\n")
	first, inserted, err := s.WriteRun(ctx, in)
	require.NoError(t, err)
	require.True(t, inserted)

	// Same content under another batch and source is still the same run.
	in.Batch = "batch-2"
	in.Source = "copy.yaml"
	second, inserted, err := s.WriteRun(ctx, in)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first, second)

	var runs, records int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs))
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM trace_records").Scan(&records))
	assert.Equal(t, 1, runs)
	assert.Equal(t, 3, records)
}

func TestWriteRun_InvalidVerdict(t *testing.T) {
	s := createTestStore(t)

	run := mustWrite(t, s, scanInput("b", "bad.yaml", "a: -notallowed\n"))
	assert.False(t, run.Verdict.Valid)
	assert.Equal(t, "Error at line 1: Inline sequences are not allowed", run.Verdict.Message)

	got, err := s.ReadRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestWriteRun_EmptyDocument(t *testing.T) {
	s := createTestStore(t)

	run := mustWrite(t, s, scanInput("b", "empty.yaml", ""))
	assert.True(t, run.Verdict.Valid)
	assert.Zero(t, run.RecordCount)
}

func TestWriteRun_SeqIncreases(t *testing.T) {
	s := createTestStore(t)

	r1 := mustWrite(t, s, scanInput("b", "1", "a: 1\n"))
	r2 := mustWrite(t, s, scanInput("b", "2", "a: 2\n"))
	r3 := mustWrite(t, s, scanInput("b", "3", "a: 3\n"))

	assert.Less(t, r1.Seq, r2.Seq)
	assert.Less(t, r2.Seq, r3.Seq)
}

func TestWriteRun_Cancelled(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.WriteRun(ctx, scanInput("b", "x", "a: 1\n"))
	assert.Error(t, err)
}
