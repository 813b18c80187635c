package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/blockscan/internal/diagram"
	"github.com/roach88/blockscan/internal/ir"
	"github.com/roach88/blockscan/internal/stream"
)

// TraceResult holds a trace with the diagram edges it traverses.
type TraceResult struct {
	Source  string         `json:"source,omitempty"`
	RunID   string         `json:"run_id,omitempty"`
	Verdict *ir.Verdict    `json:"verdict,omitempty"` // nil when replaying a bare stream
	Steps   []diagram.Step `json:"steps"`
	Stats   TraceStats     `json:"stats"`
}

// TraceStats holds summary statistics for a trace.
type TraceStats struct {
	Records  int            `json:"records"`
	ByKind   map[string]int `json:"by_kind"`
	Gaps     int            `json:"gaps"` // records with no diagram edge
	MaxDepth int            `json:"max_depth"`
}

func newTraceResult(steps []diagram.Step) TraceResult {
	stats := TraceStats{Records: len(steps), ByKind: make(map[string]int)}
	for _, s := range steps {
		stats.ByKind[s.Record.Kind.String()]++
		if s.Edge == nil {
			stats.Gaps++
		}
		stats.MaxDepth = max(stats.MaxDepth, len(s.Record.Stack))
	}
	if steps == nil {
		steps = []diagram.Step{}
	}
	return TraceResult{Steps: steps, Stats: stats}
}

// emitRecords streams records in the given encoding.
func emitRecords(w io.Writer, format string, records []ir.TraceRecord) error {
	f, err := stream.ParseFormat(format)
	if err != nil {
		return err
	}
	enc, err := stream.NewEncoder(w, f)
	if err != nil {
		return err
	}
	for _, r := range records {
		enc.Emit(r)
	}
	return enc.Err()
}

// outputTrace renders a trace result.
func outputTrace(formatter *OutputFormatter, result TraceResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if result.Source != "" {
		fmt.Fprintf(w, "Trace: %s\n", result.Source)
	}
	if result.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", result.RunID)
	}
	fmt.Fprintln(w)

	if len(result.Steps) == 0 {
		fmt.Fprintln(w, "(no records)")
	}
	for _, s := range result.Steps {
		fmt.Fprintf(w, "%4d  %s  %s  %s  %s\n",
			s.Record.Line,
			formatter.Kind(fmt.Sprintf("%-15s", s.Record.Kind)),
			formatDepth(s.Record.Stack),
			formatEdge(formatter, s.Edge),
			strings.TrimSpace(s.Record.Content))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d record(s), %d without edge, max depth %d\n",
		result.Stats.Records, result.Stats.Gaps, result.Stats.MaxDepth)

	if result.Verdict != nil {
		if result.Verdict.Valid {
			fmt.Fprintf(w, "%s valid\n", formatter.OK("✓"))
		} else {
			fmt.Fprintf(w, "%s %s\n", formatter.Fail("✗"), result.Verdict.Message)
		}
	}
	return nil
}

// formatDepth renders the innermost frame's depth, e.g. "d=1.5".
func formatDepth(stack []ir.ContextFrame) string {
	if len(stack) == 0 {
		return fmt.Sprintf("%-6s", "d=-")
	}
	return fmt.Sprintf("%-6s", "d="+stack[len(stack)-1].Depth.String())
}

func formatEdge(formatter *OutputFormatter, e *diagram.Edge) string {
	if e == nil {
		return formatter.Dim(fmt.Sprintf("%-24s", "-"))
	}
	return fmt.Sprintf("%-24s", e.ID+" "+e.Label)
}
