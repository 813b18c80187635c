package harness

import "github.com/roach88/blockscan/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: expectations and assertions all held.
	Pass bool `json:"pass"`

	// Verdict is what the scanner decided about the document.
	Verdict ir.Verdict `json:"verdict"`

	// Trace contains every emitted record in order.
	Trace []ir.TraceRecord `json:"trace"`

	// Edges holds the diagram edge id traversed by each record, or
	// NoEdge when the diagram draws none. Same length as Trace.
	Edges []string `json:"edges"`

	// RunID is the content-addressed id the run was stored under.
	RunID string `json:"run_id"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NoEdge marks a record that traverses no diagram edge.
const NoEdge = "-"

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []ir.TraceRecord{},
		Edges:  []string{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
