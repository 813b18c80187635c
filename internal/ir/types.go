package ir

import (
	"encoding/json"
	"fmt"
)

// ContextFrame is one entry of the indentation context stack.
type ContextFrame struct {
	Origin string `json:"origin"` // raw text of the line that opened the context
	Depth  Depth  `json:"depth"`
}

// TraceRecord is the per-line observation handed to a trace sink.
// Stack is a snapshot; the live stack keeps changing after emission.
type TraceRecord struct {
	Kind    ConstructKind  `json:"state"`
	Stack   []ContextFrame `json:"stack"`
	Line    int            `json:"line"`
	Content string         `json:"content"`
}

// Verdict is the final result of scanning one document.
type Verdict struct {
	Valid   bool   `json:"is_valid"`
	Message string `json:"error_message"`
}

// CloneFrames returns an independent copy of frames.
// The result is never nil so that empty stacks encode as [].
func CloneFrames(frames []ContextFrame) []ContextFrame {
	out := make([]ContextFrame, len(frames))
	copy(out, frames)
	return out
}

// Clone returns a deep copy of the record.
func (r TraceRecord) Clone() TraceRecord {
	r.Stack = CloneFrames(r.Stack)
	return r
}

// canonicalFrames converts frames to their canonical form.
// Depth is written as its column count to keep floats out of hashes.
func canonicalFrames(frames []ContextFrame) []any {
	out := make([]any, len(frames))
	for i, f := range frames {
		out[i] = map[string]any{
			"origin":  f.Origin,
			"columns": f.Depth.Columns(),
		}
	}
	return out
}

// CanonicalMap returns the record in a form accepted by MarshalCanonical.
func (r TraceRecord) CanonicalMap() map[string]any {
	return map[string]any{
		"kind":    r.Kind.String(),
		"stack":   canonicalFrames(r.Stack),
		"line":    r.Line,
		"content": r.Content,
	}
}

// CanonicalMap returns the verdict in a form accepted by MarshalCanonical.
func (v Verdict) CanonicalMap() map[string]any {
	return map[string]any{
		"valid":   v.Valid,
		"message": v.Message,
	}
}

// MarshalFrames encodes a stack snapshot as canonical JSON.
func MarshalFrames(frames []ContextFrame) ([]byte, error) {
	return MarshalCanonical(canonicalFrames(frames))
}

// UnmarshalFrames decodes a stack snapshot written by MarshalFrames.
func UnmarshalFrames(data []byte) ([]ContextFrame, error) {
	var raw []struct {
		Origin  string `json:"origin"`
		Columns int    `json:"columns"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal frames: %w", err)
	}
	frames := make([]ContextFrame, len(raw))
	for i, f := range raw {
		frames[i] = ContextFrame{Origin: f.Origin, Depth: DepthOf(f.Columns)}
	}
	return frames, nil
}
