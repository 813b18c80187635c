package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/blockscan/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Batch    string
	Document string
	Limit    int
}

// RunSummary is one stored run as listed by the runs command.
type RunSummary struct {
	ID           string `json:"id"`
	Seq          int64  `json:"seq"`
	Batch        string `json:"batch"`
	Source       string `json:"source"`
	DocumentHash string `json:"document_hash"`
	Valid        bool   `json:"valid"`
	Message      string `json:"message,omitempty"`
	Records      int    `json:"records"`
}

// RunsResult holds the runs command output.
type RunsResult struct {
	Runs []RunSummary `json:"runs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List the scan runs stored in a database, oldest first.

Examples:
  blockscan runs --db runs.db
  blockscan runs --db runs.db --batch 01926f3e-... --format json
  blockscan runs --db runs.db --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Batch, "batch", "", "only runs from this batch")
	cmd.Flags().StringVar(&opts.Document, "document", "", "only runs of this document hash")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum runs to list (0 = all)")

	return cmd
}

func runRuns(ctx context.Context, opts *RunsOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	dbPath := opts.dbPath(opts.Database)
	if dbPath == "" {
		_ = formatter.Error(ErrCodeStore, "--db is required", nil)
		return NewExitError(ExitCommandError, "--db is required")
	}
	if _, err := os.Stat(dbPath); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", dbPath), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Document != "" {
		runs, err = st.FindRunsByDocument(ctx, opts.Document)
	} else {
		runs, err = st.ListRuns(ctx, store.ListOptions{Batch: opts.Batch, Limit: opts.Limit})
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	result := RunsResult{Runs: make([]RunSummary, len(runs))}
	for i, r := range runs {
		result.Runs[i] = RunSummary{
			ID:           r.ID,
			Seq:          r.Seq,
			Batch:        r.Batch,
			Source:       r.Source,
			DocumentHash: r.DocumentHash,
			Valid:        r.Verdict.Valid,
			Message:      r.Verdict.Message,
			Records:      r.RecordCount,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range result.Runs {
		mark := formatter.OK("✓")
		if !r.Valid {
			mark = formatter.Fail("✗")
		}
		fmt.Fprintf(w, "%s %s  %4d  %3d record(s)  %s\n", mark, shortID(r.ID), r.Seq, r.Records, r.Source)
		if !r.Valid {
			fmt.Fprintf(w, "    %s\n", formatter.Dim(r.Message))
		}
	}
	return nil
}

// shortID abbreviates a run id for text output.
func shortID(id string) string {
	const n = 12
	if len(id) <= n {
		return id
	}
	return id[:n]
}
