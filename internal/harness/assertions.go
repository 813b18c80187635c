package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/blockscan/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string           // Assertion type for categorization
	Expected string           // Human-readable expected outcome
	Actual   string           // Human-readable actual outcome
	Trace    []ir.TraceRecord // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, rec := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] line %d %s depth=%d %q\n", i+1, rec.Line, rec.Kind, len(rec.Stack), rec.Content)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure. Evaluation continues past failures.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertMaxStackDepth:
		return assertMaxStackDepth(result.Trace, a)
	case AssertEdgePath:
		return assertEdgePath(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks for a record of the given kind, optionally
// pinned to a line number and exact content.
func assertTraceContains(trace []ir.TraceRecord, a Assertion) error {
	for _, rec := range trace {
		if rec.Kind.String() != a.Kind {
			continue
		}
		if a.Line != 0 && rec.Line != a.Line {
			continue
		}
		if a.Content != "" && rec.Content != a.Content {
			continue
		}
		return nil
	}

	expected := a.Kind
	if a.Line != 0 {
		expected += fmt.Sprintf(" at line %d", a.Line)
	}
	if a.Content != "" {
		expected += fmt.Sprintf(" with content %q", a.Content)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that kinds occur in the given order.
// Records don't need to be consecutive (intervening records are allowed);
// a kind listed twice must occur twice.
func assertTraceOrder(trace []ir.TraceRecord, a Assertion) error {
	next := 0
	for _, rec := range trace {
		if next < len(a.Kinds) && rec.Kind.String() == a.Kinds[next] {
			next++
		}
	}
	if next == len(a.Kinds) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
		Actual:   fmt.Sprintf("matched %d of %d, missing %s after that", next, len(a.Kinds), a.Kinds[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks that the kind appears exactly the specified
// number of times.
func assertTraceCount(trace []ir.TraceRecord, a Assertion) error {
	count := 0
	for _, rec := range trace {
		if rec.Kind.String() == a.Kind {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertMaxStackDepth checks that no record carries more than Max frames.
func assertMaxStackDepth(trace []ir.TraceRecord, a Assertion) error {
	for _, rec := range trace {
		if len(rec.Stack) > a.Max {
			return &AssertionError{
				Type:     AssertMaxStackDepth,
				Expected: fmt.Sprintf("at most %d frames", a.Max),
				Actual:   fmt.Sprintf("%d frames at line %d", len(rec.Stack), rec.Line),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertEdgePath compares the traversed edges with the expected sequence.
func assertEdgePath(result *Result, a Assertion) error {
	if strings.Join(result.Edges, ",") == strings.Join(a.Edges, ",") && len(result.Edges) == len(a.Edges) {
		return nil
	}
	return &AssertionError{
		Type:     AssertEdgePath,
		Expected: fmt.Sprintf("%v", a.Edges),
		Actual:   fmt.Sprintf("%v", result.Edges),
		Trace:    result.Trace,
	}
}
