package store

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"github.com/roach88/blockscan/internal/ir"
)

// ReplayRun returns the trace records of a run in emission order.
// Returns ErrRunNotFound if the run does not exist.
//
// The result is byte-for-byte equal (after canonical encoding) to what the
// scanner emitted when the run was written.
func (s *Store) ReplayRun(ctx context.Context, id string) (Run, []ir.TraceRecord, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, line, content, stack
		FROM trace_records
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("replay run %s: %w", id, err)
	}
	defer rows.Close()

	records := make([]ir.TraceRecord, 0, run.RecordCount)
	for rows.Next() {
		var (
			kind, content, stack string
			line                 int64
		)
		if err := rows.Scan(&kind, &line, &content, &stack); err != nil {
			return Run{}, nil, fmt.Errorf("replay run %s: scan: %w", id, err)
		}

		rec := ir.TraceRecord{Content: content}
		if rec.Kind, err = ir.ParseConstructKind(kind); err != nil {
			return Run{}, nil, fmt.Errorf("replay run %s: %w", id, err)
		}
		if rec.Line, err = safecast.Conv[int](line); err != nil {
			return Run{}, nil, fmt.Errorf("replay run %s: line: %w", id, err)
		}
		if rec.Stack, err = unmarshalStack(stack); err != nil {
			return Run{}, nil, fmt.Errorf("replay run %s: %w", id, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("replay run %s: iterate: %w", id, err)
	}

	if len(records) != run.RecordCount {
		return Run{}, nil, fmt.Errorf("replay run %s: expected %d records, found %d",
			id, run.RecordCount, len(records))
	}
	return run, records, nil
}
