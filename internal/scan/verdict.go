package scan

import (
	"fmt"

	"github.com/roach88/blockscan/internal/ir"
)

// Aggregator accumulates the verdict of one scan.
// Validity only ever goes from true to false; the message keeps the most
// recent error.
type Aggregator struct {
	failed  bool
	message string
}

// Fail records a structural error raised while handling line.
func (a *Aggregator) Fail(line int, err error) {
	a.failed = true
	a.message = fmt.Sprintf("Error at line %d: %s", line, err)
}

// Verdict returns the current verdict.
func (a *Aggregator) Verdict() ir.Verdict {
	return ir.Verdict{Valid: !a.failed, Message: a.message}
}

// Reset restores the initial valid verdict.
func (a *Aggregator) Reset() {
	*a = Aggregator{}
}
