package stream

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blockscan/internal/ir"
	"github.com/roach88/blockscan/internal/scan"
)

const doc = "a:\n   - x\n   - y: 1\n@@@\n"

func TestStreamRoundTrip(t *testing.T) {
	for _, format := range ValidFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(&buf, format)
			require.NoError(t, err)

			var want scan.Collector
			scan.Scan(doc, scan.Tee(enc, &want))
			require.NoError(t, enc.Err())

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, want.Records(), got)
		})
	}
}

func TestJSONLOneRecordPerLine(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, FormatJSONL)
	require.NoError(t, err)

	scan.Scan("a: 1\nb: <2>\n", enc)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"state":"KEY_VALUE","stack":[{"origin":"a: 1","depth":0}],"line":1,"content":"a: 1"}`, lines[0])
	assert.Contains(t, lines[2], `"content":"b: <2>"`, "no HTML escaping")
}

func TestDecodeEmpty(t *testing.T) {
	for _, format := range ValidFormats {
		got, err := Decode(strings.NewReader(""), format)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSONL)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"state":"NOPE"}`), FormatJSONL)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("msgpack")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	_, err = NewEncoder(&bytes.Buffer{}, "xml")
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(""), "xml")
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncoderKeepsFirstError(t *testing.T) {
	enc, err := NewEncoder(failingWriter{}, FormatJSONL)
	require.NoError(t, err)

	enc.Emit(ir.TraceRecord{Kind: ir.KindKeyValue})
	enc.Emit(ir.TraceRecord{Kind: ir.KindKeyValue})

	require.Error(t, enc.Err())
	assert.Contains(t, enc.Err().Error(), "disk full")
}
