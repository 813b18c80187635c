package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/blockscan/internal/ir"
	"github.com/roach88/blockscan/internal/scan"
	"github.com/roach88/blockscan/internal/store"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Jobs     int
	Database string
}

// FileVerdict is the verdict for one input file.
type FileVerdict struct {
	Source  string `json:"source"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Records int    `json:"records"`
	RunID   string `json:"run_id,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool          `json:"valid"`
	Files   []FileVerdict `json:"files"`
	Invalid int           `json:"invalid"`
	Batch   string        `json:"batch,omitempty"`
}

// scanned is one file's scan, kept until runs are recorded.
type scanned struct {
	source   string
	document string
	verdict  ir.Verdict
	records  []ir.TraceRecord
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check documents for structural well-formedness",
		Long: `Scan each document and report whether it is well-formed.

Files are scanned in parallel; results are reported in argument order.
Use "-" to read a document from standard input.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (missing file, database error, etc.)

Examples:
  blockscan validate config.yaml
  blockscan validate --jobs 8 docs/*.yaml
  cat doc.yaml | blockscan validate -
  blockscan validate --db runs.db --format json a.yaml b.yaml`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "files scanned in parallel (default from config, else GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")

	return cmd
}

func (o *ValidateOptions) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	if o.Settings.Jobs > 0 {
		return o.Settings.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func runValidate(ctx context.Context, opts *ValidateOptions, files []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	if len(files) == 0 {
		_ = formatter.Error(ErrCodeNoFiles, "no input files", nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: no input files", ErrCodeNoFiles))
	}

	results := make([]scanned, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	stdin := cmd.InOrStdin()

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := readDocument(file, stdin)
			if err != nil {
				return err
			}

			var collected scan.Collector
			verdict := scan.New(&collected, scan.WithLogger(logger.With("source", file))).Scan(doc)

			results[i] = scanned{
				source:   file,
				document: doc,
				verdict:  verdict,
				records:  collected.Records(),
			}
			logger.Debug("validated", "source", file, "valid", verdict.Valid)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reportLoadError(formatter, err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileVerdict, len(results))}
	for i, r := range results {
		result.Files[i] = FileVerdict{
			Source:  r.source,
			Valid:   r.verdict.Valid,
			Message: r.verdict.Message,
			Records: len(r.records),
		}
		if !r.verdict.Valid {
			result.Valid = false
			result.Invalid++
		}
	}

	if dbPath := opts.dbPath(opts.Database); dbPath != "" {
		if err := recordRuns(ctx, opts.RootOptions, dbPath, results, &result); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record runs", err)
		}
	}

	return outputValidation(formatter, result)
}

// recordRuns writes every scan to the store in argument order, so seq
// follows the command line.
func recordRuns(ctx context.Context, opts *RootOptions, dbPath string, results []scanned, out *ValidationResult) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	out.Batch = opts.batches().Generate()
	for i, r := range results {
		run, inserted, err := st.WriteRun(ctx, store.RunInput{
			Batch:    out.Batch,
			Source:   r.source,
			Document: r.document,
			Verdict:  r.verdict,
			Records:  r.records,
		})
		if err != nil {
			return fmt.Errorf("record %s: %w", r.source, err)
		}
		out.Files[i].RunID = run.ID
		opts.logger().Debug("run recorded", "source", r.source, "run_id", run.ID, "inserted", inserted)
	}
	return nil
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		if result.Valid {
			return formatter.Success(result)
		}
		if err := formatter.Failure(ErrCodeInvalid,
			fmt.Sprintf("%d of %d document(s) invalid", result.Invalid, len(result.Files)), result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d document(s)", result.Invalid))
	}

	w := formatter.Writer
	for _, f := range result.Files {
		if f.Valid {
			fmt.Fprintf(w, "%s %s\n", formatter.OK("✓"), f.Source)
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", formatter.Fail("✗"), f.Source, f.Message)
		}
		if formatter.Verbose && f.RunID != "" {
			fmt.Fprintf(w, "  %s\n", formatter.Dim("run "+f.RunID))
		}
	}

	if result.Valid {
		fmt.Fprintf(w, "%s All %d document(s) valid\n", formatter.OK("✓"), len(result.Files))
		return nil
	}
	fmt.Fprintf(w, "%s %d of %d document(s) invalid\n", formatter.Fail("✗"), result.Invalid, len(result.Files))
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d document(s)", result.Invalid))
}
