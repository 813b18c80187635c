package store

import (
	"fmt"

	"github.com/roach88/blockscan/internal/ir"
)

// marshalStack converts a stack snapshot to canonical JSON TEXT for storage.
func marshalStack(frames []ir.ContextFrame) (string, error) {
	data, err := ir.MarshalFrames(frames)
	if err != nil {
		return "", fmt.Errorf("marshal stack: %w", err)
	}
	return string(data), nil
}

// unmarshalStack parses a stack snapshot written by marshalStack.
// Always returns a non-nil slice.
func unmarshalStack(data string) ([]ir.ContextFrame, error) {
	if data == "" || data == "[]" {
		return []ir.ContextFrame{}, nil
	}
	frames, err := ir.UnmarshalFrames([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal stack: %w", err)
	}
	return frames, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
