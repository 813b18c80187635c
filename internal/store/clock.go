package store

import "sync/atomic"

// seqClock numbers runs in write order.
//
// It is a logical clock: seq values only order runs relative to each
// other and carry no wall time. Safe for concurrent use.
type seqClock struct {
	n atomic.Int64
}

// resumeClock returns a clock whose first tick is after last.
func resumeClock(last int64) *seqClock {
	c := &seqClock{}
	c.n.Store(last)
	return c
}

// tick advances the clock and returns the new seq.
func (c *seqClock) tick() int64 {
	return c.n.Add(1)
}

// peek returns the most recently issued seq.
func (c *seqClock) peek() int64 {
	return c.n.Load()
}
