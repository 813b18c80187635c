package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/blockscan/internal/batch"
	"github.com/roach88/blockscan/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	LogLevel   string
	ConfigPath string

	// Settings is the resolved configuration; flags win over it.
	Settings config.Config
	// Logger is built from LogLevel and Verbose before any command runs.
	Logger *slog.Logger
	// Batches issues the batch token for runs written by one invocation.
	Batches batch.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the blockscan CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "blockscan",
		Short: "blockscan - structural scanner for block-style documents",
		Long: `Check indentation-structured documents (mappings, sequences and
block scalars) line by line, and trace each line's classification for
the automaton visualizer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default .blockscan.yaml)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads configuration, lets explicitly set flags override it and
// builds the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, path, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.Settings = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("log-level") {
		o.LogLevel = cfg.LogLevel
	}
	if !flags.Changed("verbose") {
		o.Verbose = cfg.Verbose
	}

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	logger, err := NewLogger(cmd.ErrOrStderr(), o.LogLevel, o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	o.Logger = logger
	if path != "" {
		o.Logger.Debug("config loaded", "path", path)
	}
	return nil
}

// logger returns the configured logger, or a discarding one when a
// command runs without the root command (tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return discardLogger()
	}
	return o.Logger
}

// batches returns the batch generator, defaulting to UUIDv7 tokens.
func (o *RootOptions) batches() batch.Generator {
	if o.Batches == nil {
		return batch.UUIDv7Generator{}
	}
	return o.Batches
}

// dbPath picks the --db flag, falling back to configuration.
func (o *RootOptions) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	return o.Settings.DB
}

// diagramPath picks the --diagram flag, falling back to configuration.
func (o *RootOptions) diagramPath(flag string) string {
	if flag != "" {
		return flag
	}
	return o.Settings.Diagram
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
