package scan

import (
	"sync"

	"github.com/roach88/blockscan/internal/ir"
)

// Sink receives trace records synchronously, in line order.
// Records are copies; a sink may keep them but must not rely on the
// scanner's internal state.
type Sink interface {
	Emit(rec ir.TraceRecord)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(rec ir.TraceRecord)

// Emit calls f(rec).
func (f SinkFunc) Emit(rec ir.TraceRecord) { f(rec) }

// Discard is a Sink that drops every record.
var Discard Sink = SinkFunc(func(ir.TraceRecord) {})

// Collector is a Sink that keeps every record in memory.
type Collector struct {
	mu      sync.Mutex
	records []ir.TraceRecord
}

// Emit appends rec.
func (c *Collector) Emit(rec ir.TraceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

// Records returns a copy of the collected records.
func (c *Collector) Records() []ir.TraceRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ir.TraceRecord, len(c.records))
	for i, r := range c.records {
		out[i] = r.Clone()
	}
	return out
}

// Len returns the number of collected records.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Tee returns a Sink that forwards each record to every sink in order.
// Each sink gets its own copy of the stack.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(rec ir.TraceRecord) {
		for _, s := range sinks {
			s.Emit(rec.Clone())
		}
	})
}
