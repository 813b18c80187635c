// Package stream serializes trace records for a visualizer running in
// another process.
//
// Two encodings are supported: JSON Lines (one record object per line) and
// MessagePack (a sequence of record maps). Both write each record as soon as
// it is emitted, so a consumer can animate a scan while it runs.
package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/blockscan/internal/ir"
)

// Format names a stream encoding.
type Format string

const (
	FormatJSONL   Format = "jsonl"
	FormatMsgpack Format = "msgpack"
)

// ValidFormats lists the accepted --emit values.
var ValidFormats = []Format{FormatJSONL, FormatMsgpack}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid stream format %q: must be one of %v", s, ValidFormats)
}

// wireFrame and wireRecord are the MessagePack layout. Depth travels as its
// column count so decoding is exact.
type wireFrame struct {
	Origin  string `msgpack:"origin"`
	Columns int    `msgpack:"columns"`
}

type wireRecord struct {
	State   string      `msgpack:"state"`
	Stack   []wireFrame `msgpack:"stack"`
	Line    int         `msgpack:"line"`
	Content string      `msgpack:"content"`
}

func toWire(rec ir.TraceRecord) wireRecord {
	frames := make([]wireFrame, len(rec.Stack))
	for i, f := range rec.Stack {
		frames[i] = wireFrame{Origin: f.Origin, Columns: f.Depth.Columns()}
	}
	return wireRecord{State: rec.Kind.String(), Stack: frames, Line: rec.Line, Content: rec.Content}
}

func fromWire(w wireRecord) (ir.TraceRecord, error) {
	kind, err := ir.ParseConstructKind(w.State)
	if err != nil {
		return ir.TraceRecord{}, err
	}
	frames := make([]ir.ContextFrame, len(w.Stack))
	for i, f := range w.Stack {
		frames[i] = ir.ContextFrame{Origin: f.Origin, Depth: ir.DepthOf(f.Columns)}
	}
	return ir.TraceRecord{Kind: kind, Stack: frames, Line: w.Line, Content: w.Content}, nil
}

// Encoder writes records in one format. It implements the scan sink
// interface; the first write error is kept and later records are dropped.
type Encoder struct {
	mu     sync.Mutex
	format Format
	w      *bufio.Writer
	json   *json.Encoder
	mp     *msgpack.Encoder
	err    error
}

// NewEncoder creates an Encoder writing format to w.
func NewEncoder(w io.Writer, format Format) (*Encoder, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(w)
	e := &Encoder{format: format, w: bw}
	switch format {
	case FormatJSONL:
		e.json = json.NewEncoder(bw)
		e.json.SetEscapeHTML(false)
	case FormatMsgpack:
		e.mp = msgpack.NewEncoder(bw)
	}
	return e, nil
}

// Emit encodes rec and flushes it so that readers see it immediately.
func (e *Encoder) Emit(rec ir.TraceRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return
	}
	if e.json != nil {
		e.err = e.json.Encode(rec)
	} else {
		e.err = e.mp.Encode(toWire(rec))
	}
	if e.err == nil {
		e.err = e.w.Flush()
	}
}

// Err returns the first error met while writing.
func (e *Encoder) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Decode reads every record from r.
func Decode(r io.Reader, format Format) ([]ir.TraceRecord, error) {
	var records []ir.TraceRecord
	switch format {
	case FormatJSONL:
		dec := json.NewDecoder(r)
		for {
			var rec ir.TraceRecord
			if err := dec.Decode(&rec); err != nil {
				if errors.Is(err, io.EOF) {
					return records, nil
				}
				return nil, fmt.Errorf("decode record %d: %w", len(records)+1, err)
			}
			records = append(records, rec)
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		for {
			var w wireRecord
			if err := dec.Decode(&w); err != nil {
				if errors.Is(err, io.EOF) {
					return records, nil
				}
				return nil, fmt.Errorf("decode record %d: %w", len(records)+1, err)
			}
			rec, err := fromWire(w)
			if err != nil {
				return nil, fmt.Errorf("decode record %d: %w", len(records)+1, err)
			}
			records = append(records, rec)
		}
	default:
		return nil, fmt.Errorf("invalid stream format %q", format)
	}
}
