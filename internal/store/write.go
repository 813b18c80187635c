package store

import (
	"context"
	"fmt"

	"github.com/roach88/blockscan/internal/ir"
)

// WriteRun records a scan run and its trace records.
// Returns the stored run and whether a new row was inserted.
//
// The run ID is content-addressed, so writing the same document, verdict and
// records twice is a no-op: ON CONFLICT(id) DO NOTHING, and the existing run
// is returned with inserted=false. The run and its records are written in a
// single transaction.
func (s *Store) WriteRun(ctx context.Context, in RunInput) (run Run, inserted bool, err error) {
	docHash := ir.DocumentHash(in.Document)
	id, err := ir.RunID(docHash, in.Verdict, in.Records)
	if err != nil {
		return Run{}, false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	run = Run{
		ID:             id,
		Seq:            s.clock.tick(),
		Batch:          in.Batch,
		Source:         in.Source,
		DocumentHash:   docHash,
		Verdict:        in.Verdict,
		RecordCount:    len(in.Records),
		ScannerVersion: ir.ScannerVersion,
		RecordVersion:  ir.RecordVersion,
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, batch, source, document_hash, valid, message, record_count, scanner_version, record_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.Batch,
		run.Source,
		run.DocumentHash,
		boolToInt(run.Verdict.Valid),
		run.Verdict.Message,
		run.RecordCount,
		run.ScannerVersion,
		run.RecordVersion,
	)
	if err != nil {
		return Run{}, false, fmt.Errorf("write run: insert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Run{}, false, fmt.Errorf("write run: rows affected: %w", err)
	}

	if affected == 0 {
		// Already recorded. The seq we drew is simply skipped.
		existing, err := scanRun(tx.QueryRowContext(ctx, selectRunSQL+" WHERE id = ?", id))
		if err != nil {
			return Run{}, false, fmt.Errorf("write run: select existing: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return Run{}, false, fmt.Errorf("write run: commit: %w", err)
		}
		return existing, false, nil
	}

	for i, rec := range in.Records {
		stack, err := marshalStack(rec.Stack)
		if err != nil {
			return Run{}, false, fmt.Errorf("write run: record %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trace_records
			(run_id, seq, kind, line, content, stack)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			id,
			i,
			rec.Kind.String(),
			rec.Line,
			rec.Content,
			stack,
		)
		if err != nil {
			return Run{}, false, fmt.Errorf("write run: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, false, fmt.Errorf("write run: commit: %w", err)
	}

	return run, true, nil
}
