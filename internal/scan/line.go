package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is one physical line of a document.
type Line struct {
	Text   string // trailing whitespace removed
	Number int    // 1-based
	Indent int    // leading whitespace characters
}

// NewLine trims trailing whitespace from raw and measures its indentation.
func NewLine(raw string, number int) Line {
	text := strings.TrimRightFunc(raw, unicode.IsSpace)
	body := strings.TrimLeftFunc(text, unicode.IsSpace)
	return Line{
		Text:   text,
		Number: number,
		Indent: utf8.RuneCountInString(text[:len(text)-len(body)]),
	}
}

// Ignorable reports whether the line is blank or a comment.
func (l Line) Ignorable() bool {
	body := strings.TrimLeftFunc(l.Text, unicode.IsSpace)
	return body == "" || strings.HasPrefix(body, "#")
}

// SplitLines splits a document on line feeds. A trailing line feed yields a
// final empty line, which is ignorable.
func SplitLines(doc string) []string {
	return strings.Split(doc, "\n")
}
