// Package diagram maps trace record transitions onto the edges of the
// construct-kind automaton drawn by a trace visualizer.
//
// A diagram is a CUE document with a top-level "diagram" struct:
//
//	diagram: {
//	    nodes: [{id: "START", label: "Start", x: 200, y: 50}, ...]
//	    edges: [{id: "e1", source: "START", target: "SEQUENCE", label: "Process Sequence"}, ...]
//	}
//
// Node ids are construct kind names. The built-in diagram (Default) is the
// five-node automaton with edges e1 to e17; Load and Compile accept custom
// diagrams, which are checked against the same CUE schema.
//
// The mapping is presentational only. Pairs the scanner can produce but the
// diagram does not draw (INVALID to anything, START to START, SEQUENCE to
// MULTILINE_START) have no edge, and a Walker reports them with a nil Edge.
package diagram
