// Package scan checks block-style markup documents line by line.
//
// A Scanner makes a single forward pass over a document with no lookahead
// and no backtracking. Each physical line is handled in four steps:
//
//  1. Blank and comment lines are dropped.
//  2. The BlockTracker swallows lines that belong to an open block scalar
//     (a key followed by "|" or ">").
//  3. Classify sorts the line into one of four shapes by priority:
//     block-scalar header, sequence item, key-value pair, unrecognized.
//  4. The shape's handler updates the indentation Stack and runs its own
//     checks. A StructuralError marks the line INVALID and fails the
//     Verdict, but scanning always continues with the next line.
//
// Every handled line produces one TraceRecord on the caller's Sink. A line
// that unwinds the stack produces an extra START record first, so that a
// visualizer can draw the return to an outer scope.
//
// # Indentation
//
// Depth is the indent width divided by two, kept exact (see ir.Depth).
// A line enters a deeper context when its width is greater than the top
// frame's depth × 2; otherwise every frame at or deeper than the width is
// popped before the new frame is pushed.
//
// # Usage
//
//	var trace scan.Collector
//	verdict := scan.New(&trace).Scan(doc)
//	if !verdict.Valid {
//	    fmt.Println(verdict.Message)
//	}
package scan
