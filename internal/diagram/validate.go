package diagram

import (
	"fmt"
	"strings"

	"github.com/roach88/blockscan/internal/ir"
)

// Validation error codes (E200-E209)
const (
	ErrMissingNode         = "E201" // a construct kind has no node
	ErrDuplicateNode       = "E202" // a construct kind has two nodes
	ErrDuplicateEdgeID     = "E203" // two edges share an id
	ErrUnknownEndpoint     = "E204" // edge source or target has no node
	ErrDuplicateTransition = "E205" // two edges draw the same transition
)

// ValidationError describes one problem with a compiled diagram.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is every problem found in a diagram.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a diagram for structural consistency.
// Returns all errors found (does not fail-fast).
func Validate(d *Diagram) ValidationErrors {
	var errs ValidationErrors

	seenNodes := make(map[ir.ConstructKind]bool)
	for i, n := range d.nodes {
		if seenNodes[n.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("nodes[%d]", i),
				Message: fmt.Sprintf("duplicate node for %s", n.ID),
				Code:    ErrDuplicateNode,
			})
		}
		seenNodes[n.ID] = true
	}
	for _, k := range ir.AllKinds {
		if !seenNodes[k] {
			errs = append(errs, ValidationError{
				Field:   "nodes",
				Message: fmt.Sprintf("no node for %s", k),
				Code:    ErrMissingNode,
			})
		}
	}

	seenIDs := make(map[string]bool)
	seenTransitions := make(map[transition]string)
	for i, e := range d.edges {
		field := fmt.Sprintf("edges[%d]", i)
		if seenIDs[e.ID] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate edge id %q", e.ID),
				Code:    ErrDuplicateEdgeID,
			})
		}
		seenIDs[e.ID] = true

		for _, end := range []ir.ConstructKind{e.Source, e.Target} {
			if !seenNodes[end] {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("edge %q references %s, which has no node", e.ID, end),
					Code:    ErrUnknownEndpoint,
				})
			}
		}

		t := transition{e.Source, e.Target}
		if prev, ok := seenTransitions[t]; ok {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("edge %q repeats transition %s -> %s of edge %q", e.ID, e.Source, e.Target, prev),
				Code:    ErrDuplicateTransition,
			})
			continue
		}
		seenTransitions[t] = e.ID
	}

	return errs
}
