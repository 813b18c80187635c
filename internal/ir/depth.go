package ir

import (
	"fmt"
	"math"
	"strconv"
)

// Depth is a nesting depth measured in two-column units.
//
// The value is stored as the indentation column count so that an odd
// indentation yields an exact half-unit depth (3 columns = depth 1.5).
// Comparisons against an indentation width use Columns, which equals
// depth × 2 without rounding.
type Depth struct {
	cols int
}

// DepthOf returns the depth of a line indented by width columns.
func DepthOf(width int) Depth {
	return Depth{cols: width}
}

// Columns returns depth × 2, the indentation width the depth was taken from.
func (d Depth) Columns() int {
	return d.cols
}

// Float64 returns the depth as width ÷ 2.
func (d Depth) Float64() float64 {
	return float64(d.cols) / 2
}

// String renders the depth as a decimal, e.g. "1" or "1.5".
func (d Depth) String() string {
	return strconv.FormatFloat(d.Float64(), 'f', -1, 64)
}

// MarshalJSON renders the depth as a JSON number.
func (d Depth) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts any JSON number that is a multiple of 0.5.
func (d *Depth) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("depth: %w", err)
	}
	cols := f * 2
	if cols < 0 || cols != math.Trunc(cols) {
		return fmt.Errorf("depth %s is not a non-negative multiple of 0.5", data)
	}
	d.cols = int(cols)
	return nil
}
