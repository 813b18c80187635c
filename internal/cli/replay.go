package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/blockscan/internal/ir"
	"github.com/roach88/blockscan/internal/store"
	"github.com/roach88/blockscan/internal/stream"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database    string
	RunID       string
	From        string // stream file to replay instead of a stored run
	InputFormat string
	Emit        string
	Diagram     string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-emit a recorded trace",
		Long: `Replay the records of a stored run, or of a recorded stream file,
walking them across the diagram again.

A run is selected by its id or any unique prefix of it.

Exit codes:
  0 - Replay succeeded
  2 - Command error (database or run not found, etc.)

Examples:
  blockscan replay --db runs.db --run 3f2a9c
  blockscan replay --db runs.db --run 3f2a9c --emit jsonl
  blockscan replay --from trace.jsonl
  blockscan replay --from trace.bin --input-format msgpack --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (or unique prefix) to replay")
	cmd.Flags().StringVar(&opts.From, "from", "", "replay a stream file written by trace --emit")
	cmd.Flags().StringVar(&opts.InputFormat, "input-format", string(stream.FormatJSONL), "encoding of --from (jsonl|msgpack)")
	cmd.Flags().StringVar(&opts.Emit, "emit", "", "stream raw records (jsonl|msgpack)")
	cmd.Flags().StringVar(&opts.Diagram, "diagram", "", "CUE diagram file (default built-in)")
	cmd.MarkFlagsMutuallyExclusive("run", "from")
	cmd.MarkFlagsOneRequired("run", "from")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var (
		records []ir.TraceRecord
		verdict *ir.Verdict
		runID   string
		source  string
		err     error
	)

	if opts.From != "" {
		records, err = decodeStreamFile(opts.From, opts.InputFormat)
		if err != nil {
			return reportLoadError(formatter, err)
		}
		source = opts.From
	} else {
		dbPath := opts.dbPath(opts.Database)
		if dbPath == "" {
			_ = formatter.Error(ErrCodeStore, "--db is required with --run", nil)
			return NewExitError(ExitCommandError, "--db is required with --run")
		}
		if _, err := os.Stat(dbPath); err != nil {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", dbPath), nil)
			return WrapExitError(ExitCommandError, "database not found", err)
		}
		run, recs, err := replayStored(ctx, dbPath, opts.RunID)
		if err != nil {
			code := ErrCodeStore
			if errors.Is(err, store.ErrRunNotFound) {
				code = ErrCodeNotFound
			}
			_ = formatter.Error(code, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to replay run", err)
		}
		records, runID, source = recs, run.ID, run.Source
		verdict = &run.Verdict
	}
	opts.logger().Debug("replaying", "source", source, "records", len(records))

	if opts.Emit != "" {
		if err := emitRecords(cmd.OutOrStdout(), opts.Emit, records); err != nil {
			return WrapExitError(ExitCommandError, "failed to stream records", err)
		}
		return nil
	}

	d, err := loadDiagram(opts.diagramPath(opts.Diagram))
	if err != nil {
		return reportLoadError(formatter, err)
	}

	result := newTraceResult(d.Path(records))
	result.Source = source
	result.RunID = runID
	result.Verdict = verdict
	return outputTrace(formatter, result)
}

func replayStored(ctx context.Context, dbPath, prefix string) (store.Run, []ir.TraceRecord, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return store.Run{}, nil, err
	}
	defer st.Close()

	id, err := st.ResolveRunID(ctx, prefix)
	if err != nil {
		return store.Run{}, nil, err
	}
	return st.ReplayRun(ctx, id)
}

func decodeStreamFile(path, format string) ([]ir.TraceRecord, error) {
	f, err := stream.ParseFormat(format)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	defer file.Close()

	records, err := stream.Decode(file, f)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("decoding %s: %v", path, err), Err: err}
	}
	return records, nil
}
