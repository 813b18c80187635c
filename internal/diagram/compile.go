package diagram

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/blockscan/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

//go:embed default.cue
var defaultCUE []byte

// CompileError reports a diagram that could not be compiled.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// rawDiagram mirrors #Diagram for decoding; kinds arrive as strings.
type rawDiagram struct {
	Nodes []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		X     int    `json:"x"`
		Y     int    `json:"y"`
	} `json:"nodes"`
	Edges []struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Target string `json:"target"`
		Label  string `json:"label"`
	} `json:"edges"`
}

var defaultDiagram = sync.OnceValues(func() (*Diagram, error) {
	return Compile(defaultCUE, "default.cue")
})

// Default returns the built-in diagram.
func Default() *Diagram {
	d, err := defaultDiagram()
	if err != nil {
		panic(fmt.Sprintf("diagram: built-in diagram is invalid: %v", err))
	}
	return d
}

// Load compiles the diagram in the CUE file at path.
func Load(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagram: %w", err)
	}
	return Compile(data, path)
}

// Compile parses CUE source, checks it against the diagram schema and
// validates the result. filename is used in error positions.
func Compile(src []byte, filename string) (*Diagram, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile diagram schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	dv := v.LookupPath(cue.ParsePath("diagram"))
	if !dv.Exists() {
		return nil, &CompileError{
			Field:   "diagram",
			Message: "diagram is required",
			Pos:     v.Pos(),
		}
	}

	unified := schema.LookupPath(cue.ParsePath("#Diagram")).Unify(dv)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var raw rawDiagram
	if err := unified.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}

	d, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if errs := Validate(d); len(errs) > 0 {
		return nil, errs
	}
	return d, nil
}

func fromRaw(raw rawDiagram) (*Diagram, error) {
	nodes := make([]Node, len(raw.Nodes))
	for i, n := range raw.Nodes {
		kind, err := ir.ParseConstructKind(n.ID)
		if err != nil {
			return nil, &CompileError{Field: fmt.Sprintf("nodes[%d].id", i), Message: err.Error()}
		}
		nodes[i] = Node{ID: kind, Label: n.Label, X: n.X, Y: n.Y}
	}

	edges := make([]Edge, len(raw.Edges))
	for i, e := range raw.Edges {
		source, err := ir.ParseConstructKind(e.Source)
		if err != nil {
			return nil, &CompileError{Field: fmt.Sprintf("edges[%d].source", i), Message: err.Error()}
		}
		target, err := ir.ParseConstructKind(e.Target)
		if err != nil {
			return nil, &CompileError{Field: fmt.Sprintf("edges[%d].target", i), Message: err.Error()}
		}
		edges[i] = Edge{ID: e.ID, Source: source, Target: target, Label: e.Label}
	}

	return newDiagram(nodes, edges), nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
