package scan

import "github.com/roach88/blockscan/internal/ir"

// Stack is the indentation context stack of one scan.
// Frames are owned by the stack; snapshots are copies.
type Stack struct {
	frames []ir.ContextFrame
}

// Enter places a frame for a line of the given indent width.
//
// If the stack is empty or width is greater than the top frame's depth × 2,
// the frame is pushed on top. Otherwise every frame whose depth × 2 is at
// least width is popped first, and Enter reports unwound = true.
func (s *Stack) Enter(origin string, width int) (unwound bool) {
	if top, ok := s.Top(); !ok || width > top.Depth.Columns() {
		s.push(origin, width)
		return false
	}
	for {
		top, ok := s.Top()
		if !ok || width > top.Depth.Columns() {
			break
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
	s.push(origin, width)
	return true
}

func (s *Stack) push(origin string, width int) {
	s.frames = append(s.frames, ir.ContextFrame{Origin: origin, Depth: ir.DepthOf(width)})
}

// Top returns the innermost frame.
func (s *Stack) Top() (ir.ContextFrame, bool) {
	if len(s.frames) == 0 {
		return ir.ContextFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Len returns the number of open contexts.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Snapshot returns an independent copy of the frames, outermost first.
func (s *Stack) Snapshot() []ir.ContextFrame {
	return ir.CloneFrames(s.frames)
}

// Reset discards all frames.
func (s *Stack) Reset() {
	s.frames = s.frames[:0]
}
