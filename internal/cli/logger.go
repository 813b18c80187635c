package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger returns a slog.Logger writing human-readable lines to w.
// verbose forces debug level.
func NewLogger(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "blockscan",
	})
	return slog.New(handler), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
