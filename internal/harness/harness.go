package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/blockscan/internal/batch"
	"github.com/roach88/blockscan/internal/diagram"
	"github.com/roach88/blockscan/internal/ir"
	"github.com/roach88/blockscan/internal/scan"
	"github.com/roach88/blockscan/internal/store"
)

// Harness holds the collaborators of one scenario execution.
type Harness struct {
	store    *store.Store
	diagram  *diagram.Diagram
	batchGen batch.Generator
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithDiagram runs edge_path assertions against d instead of the built-in
// diagram.
func WithDiagram(d *diagram.Diagram) Option {
	return func(h *Harness) { h.diagram = d }
}

// WithLogger routes scanner debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Scan the document, collecting records and diagram steps
//  2. Check the expectation and evaluate assertions
//  3. Write the run to the store and replay it
//  4. Fail if the replayed trace differs from the live one
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	var tokens []string
	if scenario.Batch != "" {
		tokens = append(tokens, scenario.Batch)
	}

	h := &Harness{
		store:    st,
		diagram:  diagram.Default(),
		batchGen: batch.NewFixedGenerator(tokens...),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}

	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	var collected scan.Collector
	walker := diagram.NewWalker(h.diagram, func(step diagram.Step) {
		if step.Edge == nil {
			result.Edges = append(result.Edges, NoEdge)
			return
		}
		result.Edges = append(result.Edges, step.Edge.ID)
	})

	result.Verdict = scan.Scan(scenario.Document, scan.Tee(&collected, walker), scan.WithLogger(h.logger))
	result.Trace = collected.Records()

	if scenario.Expect != nil {
		for _, msg := range checkExpectation(result, scenario.Expect) {
			result.AddError(msg)
		}
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	run, _, err := h.store.WriteRun(ctx, store.RunInput{
		Batch:    h.batchGen.Generate(),
		Source:   scenario.Name,
		Document: scenario.Document,
		Verdict:  result.Verdict,
		Records:  result.Trace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	result.RunID = run.ID

	_, replayed, err := h.store.ReplayRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to replay run: %w", err)
	}
	if replayedID := ir.MustRunID(run.DocumentHash, run.Verdict, replayed); replayedID != run.ID {
		result.AddError(fmt.Sprintf("replay mismatch: stored run %s replays as %s", run.ID, replayedID))
	}

	h.logger.Debug("scenario complete",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"records", len(result.Trace),
		"run_id", result.RunID)
	return result, nil
}

// checkExpectation compares the verdict and kind sequence with exp.
func checkExpectation(result *Result, exp *Expectation) []string {
	var errs []string

	if result.Verdict.Valid != *exp.Valid {
		errs = append(errs, fmt.Sprintf("expected valid=%t, got valid=%t (message %q)",
			*exp.Valid, result.Verdict.Valid, result.Verdict.Message))
	}
	if *exp.Valid && result.Verdict.Message != "" {
		errs = append(errs, fmt.Sprintf("expected empty message, got %q", result.Verdict.Message))
	}
	if exp.MessageContains != "" && !strings.Contains(result.Verdict.Message, exp.MessageContains) {
		errs = append(errs, fmt.Sprintf("expected message containing %q, got %q",
			exp.MessageContains, result.Verdict.Message))
	}

	if exp.Kinds != nil {
		got := kindNames(result.Trace)
		if strings.Join(got, ",") != strings.Join(exp.Kinds, ",") {
			errs = append(errs, fmt.Sprintf("expected kinds %v, got %v", exp.Kinds, got))
		}
	}
	return errs
}

func kindNames(trace []ir.TraceRecord) []string {
	names := make([]string, len(trace))
	for i, r := range trace {
		names[i] = r.Kind.String()
	}
	return names
}
