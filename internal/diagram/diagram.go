package diagram

import (
	"github.com/roach88/blockscan/internal/ir"
)

// Node is one construct kind drawn on the diagram.
type Node struct {
	ID    ir.ConstructKind `json:"id"`
	Label string           `json:"label"`
	X     int              `json:"x"`
	Y     int              `json:"y"`
}

// Edge is a drawn transition between two construct kinds.
type Edge struct {
	ID     string           `json:"id"`
	Source ir.ConstructKind `json:"source"`
	Target ir.ConstructKind `json:"target"`
	Label  string           `json:"label"`
}

type transition struct {
	from, to ir.ConstructKind
}

// Diagram is a compiled, validated diagram.
type Diagram struct {
	nodes []Node
	edges []Edge
	index map[transition]int
}

func newDiagram(nodes []Node, edges []Edge) *Diagram {
	d := &Diagram{
		nodes: nodes,
		edges: edges,
		index: make(map[transition]int, len(edges)),
	}
	for i, e := range edges {
		d.index[transition{e.Source, e.Target}] = i
	}
	return d
}

// Lookup returns the edge drawn for a record of kind cur following a record
// of kind prev. ok is false when the diagram has no such edge.
func (d *Diagram) Lookup(prev, cur ir.ConstructKind) (Edge, bool) {
	i, ok := d.index[transition{prev, cur}]
	if !ok {
		return Edge{}, false
	}
	return d.edges[i], true
}

// Node returns the node drawn for kind.
func (d *Diagram) Node(kind ir.ConstructKind) (Node, bool) {
	for _, n := range d.nodes {
		if n.ID == kind {
			return n, true
		}
	}
	return Node{}, false
}

// Nodes returns the diagram's nodes in declaration order.
func (d *Diagram) Nodes() []Node {
	return append([]Node(nil), d.nodes...)
}

// Edges returns the diagram's edges in declaration order.
func (d *Diagram) Edges() []Edge {
	return append([]Edge(nil), d.edges...)
}

// Step is a trace record together with the edge it traverses.
type Step struct {
	From   ir.ConstructKind `json:"from"`
	Record ir.TraceRecord   `json:"record"`
	Edge   *Edge            `json:"edge,omitempty"` // nil when the diagram draws no edge
}

// Walker follows a record stream across a diagram. The first record is
// treated as leaving START.
type Walker struct {
	diagram *Diagram
	prev    ir.ConstructKind
	onStep  func(Step)
}

// NewWalker creates a Walker over d. onStep may be nil when the walker is
// only driven through Next.
func NewWalker(d *Diagram, onStep func(Step)) *Walker {
	return &Walker{diagram: d, prev: ir.KindStart, onStep: onStep}
}

// Next advances the walker by one record.
func (w *Walker) Next(rec ir.TraceRecord) Step {
	step := Step{From: w.prev, Record: rec}
	if e, ok := w.diagram.Lookup(w.prev, rec.Kind); ok {
		step.Edge = &e
	}
	w.prev = rec.Kind
	return step
}

// Emit lets a Walker act as a scan sink; each step goes to onStep.
func (w *Walker) Emit(rec ir.TraceRecord) {
	step := w.Next(rec)
	if w.onStep != nil {
		w.onStep(step)
	}
}

// Reset returns the walker to START.
func (w *Walker) Reset() {
	w.prev = ir.KindStart
}

// Path maps a complete record sequence to its steps.
func (d *Diagram) Path(records []ir.TraceRecord) []Step {
	w := NewWalker(d, nil)
	steps := make([]Step, len(records))
	for i, r := range records {
		steps[i] = w.Next(r)
	}
	return steps
}
