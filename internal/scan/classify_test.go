package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/blockscan/internal/ir"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Shape
	}{
		{"literal header", "a: |", MultilineHeader{Key: "a"}},
		{"folded header", "  text: >", MultilineHeader{Key: "text"}},
		{"header without space", "a:|", MultilineHeader{Key: "a"}},
		{"header with trailing space", "a: >   ", MultilineHeader{Key: "a"}},
		{"indicator with content is a key-value", "a: | x", KeyValue{Key: "a", Value: "| x"}},
		{"chomping indicator is a key-value", "a: |-", KeyValue{Key: "a", Value: "|-"}},
		{"sequence item", "- x", SequenceItem{Content: "x"}},
		{"indented sequence item", "    -   spaced  ", SequenceItem{Content: "spaced"}},
		{"sequence item with mapping", "- name: x", SequenceItem{Content: "name: x"}},
		{"sequence beats key-value", "- a: |", SequenceItem{Content: "a: |"}},
		{"key-value", "a: 1", KeyValue{Key: "a", Value: "1"}},
		{"key with empty value", "parent:", KeyValue{Key: "parent"}},
		{"key-value without space", "a:1", KeyValue{Key: "a", Value: "1"}},
		{"underscored key", "  snake_case_9: v", KeyValue{Key: "snake_case_9", Value: "v"}},
		{"bare dash", "-", Unrecognized{}},
		{"dash without space", "-x", Unrecognized{}},
		{"hyphenated key", "my-key: 1", Unrecognized{}},
		{"spaced key", "a b: 1", Unrecognized{}},
		{"symbols", "@@@", Unrecognized{}},
		{"plain scalar", "just text", Unrecognized{}},
		{"flow mapping", "{a: 1}", Unrecognized{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestShapeKinds(t *testing.T) {
	assert.Equal(t, ir.KindMultilineStart, MultilineHeader{}.Kind())
	assert.Equal(t, ir.KindSequence, SequenceItem{}.Kind())
	assert.Equal(t, ir.KindKeyValue, KeyValue{}.Kind())
	assert.Equal(t, ir.KindInvalid, Unrecognized{}.Kind())
}

func TestNewLine(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		text      string
		indent    int
		ignorable bool
	}{
		{"flat", "a: 1", "a: 1", 0, false},
		{"indented", "    a: 1", "    a: 1", 4, false},
		{"odd indent", "   a: 1", "   a: 1", 3, false},
		{"trailing whitespace", "a: 1  \t\r", "a: 1", 0, false},
		{"tab indent counts as whitespace", "\ta: 1", "\ta: 1", 1, false},
		{"blank", "", "", 0, true},
		{"whitespace only", "   \t", "", 0, true},
		{"comment", "# note", "# note", 0, true},
		{"indented comment", "   # note", "   # note", 3, true},
		{"hash inside value", "a: #1", "a: #1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLine(tt.raw, 7)
			assert.Equal(t, tt.text, l.Text)
			assert.Equal(t, 7, l.Number)
			assert.Equal(t, tt.indent, l.Indent)
			assert.Equal(t, tt.ignorable, l.Ignorable())
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a: 1", "b: 2", ""}, SplitLines("a: 1\nb: 2\n"))
	assert.Equal(t, []string{""}, SplitLines(""))
}
