package scan

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/roach88/blockscan/internal/ir"
)

var (
	multilineHeaderPattern = regexp.MustCompile(`^\s*\w+:\s*[|>]\s*$`)
	sequenceItemPattern    = regexp.MustCompile(`^\s*-\s+(.*)$`)
	keyValuePattern        = regexp.MustCompile(`^\s*(\w+):\s*(.*)$`)
	nestedKeyValuePattern  = regexp.MustCompile(`^\s*\w+:\s*.*$`)
)

// Shape is the classified form of a line.
//
// The set of shapes is closed: the unexported handle method keeps other
// packages from adding variants, and every variant carries its own handler.
type Shape interface {
	Kind() ir.ConstructKind
	handle(s *Scanner, l Line) error
}

// MultilineHeader is a key whose value is a literal ("|") or folded (">")
// block scalar, with nothing after the indicator.
type MultilineHeader struct {
	Key string // text before the first colon, trimmed
}

// SequenceItem is a dash followed by whitespace and content.
type SequenceItem struct {
	Content string // text after the dash, trimmed
}

// KeyValue is a word key, a colon and an optional value.
type KeyValue struct {
	Key   string
	Value string // trimmed; empty when the key opens a nested block
}

// Unrecognized is any line that matches none of the other shapes.
type Unrecognized struct{}

func (MultilineHeader) Kind() ir.ConstructKind { return ir.KindMultilineStart }
func (SequenceItem) Kind() ir.ConstructKind    { return ir.KindSequence }
func (KeyValue) Kind() ir.ConstructKind        { return ir.KindKeyValue }
func (Unrecognized) Kind() ir.ConstructKind    { return ir.KindInvalid }

// Classify matches text against the line shapes in priority order:
// block-scalar header, sequence item, key-value pair. The first match wins.
func Classify(text string) Shape {
	if multilineHeaderPattern.MatchString(text) {
		key, _, _ := strings.Cut(text, ":")
		return MultilineHeader{Key: strings.TrimSpace(key)}
	}
	if sequenceItemPattern.MatchString(text) {
		body := strings.TrimLeftFunc(text, unicode.IsSpace)
		return SequenceItem{Content: strings.TrimSpace(body[1:])}
	}
	if m := keyValuePattern.FindStringSubmatch(text); m != nil {
		return KeyValue{Key: strings.TrimSpace(m[1]), Value: strings.TrimSpace(m[2])}
	}
	return Unrecognized{}
}
