package scan

import "strings"

func (h MultilineHeader) handle(s *Scanner, l Line) error {
	// The block opens even when the header itself is rejected.
	s.block.Open(l.Indent)
	if h.Key == "" {
		return structuralf("Invalid multiline string at line %d: Missing key", l.Number)
	}
	s.enter(l)
	return nil
}

func (h SequenceItem) handle(s *Scanner, l Line) error {
	s.enter(l)
	if strings.Contains(h.Content, ":") && !nestedKeyValuePattern.MatchString(h.Content) {
		return structuralf("Invalid sequence item: Incorrect nested key-value format")
	}
	return nil
}

func (h KeyValue) handle(s *Scanner, l Line) error {
	s.enter(l)
	if h.Key == "" {
		return structuralf("Missing key")
	}
	if strings.HasPrefix(h.Value, "-") {
		return structuralf("Inline sequences are not allowed")
	}
	return nil
}

func (Unrecognized) handle(*Scanner, Line) error {
	return structuralf("Unexpected line content")
}
