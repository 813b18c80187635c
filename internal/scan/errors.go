package scan

import "fmt"

// StructuralError reports a line that breaks the accepted block structure.
// It never escapes the processing of a single line.
type StructuralError struct {
	Detail string
}

func (e *StructuralError) Error() string {
	return e.Detail
}

func structuralf(format string, args ...any) error {
	return &StructuralError{Detail: fmt.Sprintf(format, args...)}
}
