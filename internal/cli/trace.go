package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blockscan/internal/diagram"
	"github.com/roach88/blockscan/internal/ir"
	"github.com/roach88/blockscan/internal/scan"
	"github.com/roach88/blockscan/internal/store"
	"github.com/roach88/blockscan/internal/stream"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Emit     string // "" | "jsonl" | "msgpack"
	Diagram  string
	Database string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Show the per-line trace of a document",
		Long: `Scan a document and show every trace record together with the
diagram edge it lights up.

With --emit, raw records are streamed to stdout as they are produced
(JSON Lines or MessagePack) for an external visualizer, and nothing
else is written to stdout.

Exit codes:
  0 - Document scanned (whatever its verdict)
  2 - Command error (missing file, bad diagram, etc.)

Examples:
  blockscan trace doc.yaml
  blockscan trace --emit jsonl doc.yaml | visualizer
  blockscan trace --diagram my.cue --format json doc.yaml
  blockscan trace --db runs.db doc.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Emit, "emit", "", "stream raw records (jsonl|msgpack)")
	cmd.Flags().StringVar(&opts.Diagram, "diagram", "", "CUE diagram file (default built-in)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, file string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	doc, err := readDocument(file, cmd.InOrStdin())
	if err != nil {
		return reportLoadError(formatter, err)
	}

	var collected scan.Collector
	var steps []diagram.Step
	var encoder *stream.Encoder

	sinks := []scan.Sink{&collected}
	if opts.Emit != "" {
		format, err := stream.ParseFormat(opts.Emit)
		if err != nil {
			return NewExitError(ExitCommandError, err.Error())
		}
		if encoder, err = stream.NewEncoder(cmd.OutOrStdout(), format); err != nil {
			return WrapExitError(ExitCommandError, "failed to create encoder", err)
		}
		sinks = append(sinks, encoder)
	} else {
		d, err := loadDiagram(opts.diagramPath(opts.Diagram))
		if err != nil {
			return reportLoadError(formatter, err)
		}
		sinks = append(sinks, diagram.NewWalker(d, func(s diagram.Step) {
			steps = append(steps, s)
		}))
	}

	verdict := scan.New(scan.Tee(sinks...), scan.WithLogger(logger.With("source", file))).Scan(doc)
	logger.Info("scan complete", "source", file, "valid", verdict.Valid, "records", collected.Len())

	runID := ""
	if dbPath := opts.dbPath(opts.Database); dbPath != "" {
		runID, err = recordTrace(ctx, opts.RootOptions, dbPath, file, doc, verdict, collected.Records())
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	if encoder != nil {
		if err := encoder.Err(); err != nil {
			return WrapExitError(ExitCommandError, "failed to stream records", err)
		}
		if !verdict.Valid {
			logger.Warn("document invalid", "source", file, "message", verdict.Message)
		}
		return nil
	}

	result := newTraceResult(steps)
	result.Source = file
	result.RunID = runID
	result.Verdict = &verdict
	return outputTrace(formatter, result)
}

func recordTrace(ctx context.Context, opts *RootOptions, dbPath, source, doc string, verdict ir.Verdict, records []ir.TraceRecord) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run, inserted, err := st.WriteRun(ctx, store.RunInput{
		Batch:    opts.batches().Generate(),
		Source:   source,
		Document: doc,
		Verdict:  verdict,
		Records:  records,
	})
	if err != nil {
		return "", fmt.Errorf("record %s: %w", source, err)
	}
	opts.logger().Debug("run recorded", "run_id", run.ID, "inserted", inserted)
	return run.ID, nil
}
