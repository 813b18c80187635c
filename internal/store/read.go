package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

const selectRunSQL = `
	SELECT id, seq, batch, source, document_hash, valid, message, record_count, scanner_version, record_version
	FROM runs`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run   Run
		valid int
		count int64
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Batch,
		&run.Source,
		&run.DocumentHash,
		&valid,
		&run.Verdict.Message,
		&count,
		&run.ScannerVersion,
		&run.RecordVersion,
	)
	if err != nil {
		return Run{}, err
	}
	run.Verdict.Valid = valid == 1

	run.RecordCount, err = safecast.Conv[int](count)
	if err != nil {
		return Run{}, fmt.Errorf("record count for run %s: %w", run.ID, err)
	}
	return run, nil
}

// ReadRun returns the run with the given ID.
// Returns ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRunSQL+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListOptions filters ListRuns.
type ListOptions struct {
	// Batch restricts results to one batch token when non-empty.
	Batch string
	// Limit caps the number of runs returned; zero means no limit.
	Limit int
}

// ListRuns returns stored runs ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := selectRunSQL
	var args []any
	if opts.Batch != "" {
		query += " WHERE batch = ?"
		args = append(args, opts.Batch)
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// FindRunsByDocument returns every run recorded for a document hash.
func (s *Store) FindRunsByDocument(ctx context.Context, documentHash string) ([]Run, error) {
	return s.queryRuns(ctx,
		selectRunSQL+" WHERE document_hash = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
		documentHash)
}

// ResolveRunID expands a unique ID prefix to the full run ID.
func (s *Store) ResolveRunID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("resolve run: empty id: %w", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs
		WHERE substr(id, 1, ?) = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT 2
	`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("resolve run %s: %w", prefix, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve run %s: %w", prefix, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run %s: %w", prefix, err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("resolve run %s: %w", prefix, ErrRunNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("resolve run %s: prefix is ambiguous", prefix)
	}
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
