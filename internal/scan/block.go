package scan

// BlockTracker follows an open literal or folded block scalar.
//
// The threshold is the indent width of the header line itself, so any later
// line indented at least as far as the header belongs to the block body.
type BlockTracker struct {
	active    bool
	threshold int
}

// Open starts a block whose header is indented by width.
func (b *BlockTracker) Open(width int) {
	b.active = true
	b.threshold = width
}

// Swallow reports whether a line of the given indent width is block body.
// A shallower line closes the block and is not swallowed.
func (b *BlockTracker) Swallow(width int) bool {
	if !b.active {
		return false
	}
	if width >= b.threshold {
		return true
	}
	b.active = false
	return false
}

// Active reports whether a block is open.
func (b *BlockTracker) Active() bool { return b.active }

// Threshold returns the header indent of the open block.
func (b *BlockTracker) Threshold() int { return b.threshold }

// Reset closes any open block.
func (b *BlockTracker) Reset() {
	*b = BlockTracker{}
}
