package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blockscan/internal/store"
)

func TestValidateValidDocument(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "ok.yaml", "a: 1\nb:\n  - x\n  - y\n")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{doc})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ "+doc)
	assert.Contains(t, output, "✓ All 1 document(s) valid")
}

func TestValidateInvalidDocument(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "bad.yaml", "a: -notallowed\n")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{doc})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, buf.String(), "Error at line 1: Inline sequences are not allowed")
	assert.Contains(t, buf.String(), "1 of 1 document(s) invalid")
}

func TestValidateMixedDocumentsJSON(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "one.yaml", "a: 1\n"),
		writeFile(t, dir, "two.yaml", "what is this\n"),
		writeFile(t, dir, "three.yaml", "- item\n"),
	}

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs(append([]string{"--jobs", "2"}, files...))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, buf, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)

	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.Invalid)
	require.Len(t, result.Files, 3)
	for i, f := range result.Files {
		assert.Equal(t, files[i], f.Source, "results keep argument order")
	}
	assert.True(t, result.Files[0].Valid)
	assert.False(t, result.Files[1].Valid)
	assert.Equal(t, "Error at line 1: Unexpected line content", result.Files[1].Message)
	assert.True(t, result.Files[2].Valid)
	assert.Equal(t, 1, result.Files[2].Records)
	assert.Empty(t, result.Batch, "no batch without --db")
}

func TestValidateValidDocumentJSON(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "ok.yaml", "a: 1\nb: 2\n")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{doc})

	require.NoError(t, cmd.Execute())

	var result ValidationResult
	resp := decodeResponse(t, buf, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	require.Len(t, result.Files, 1)
	// KEY_VALUE, START, KEY_VALUE
	assert.Equal(t, 3, result.Files[0].Records)
}

func TestValidateNonExistentFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/doc.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005") // ErrCodeNotFound
	assert.Contains(t, buf.String(), "not found")
}

func TestValidateNoFiles(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, buf.String(), "no input files")
}

func TestValidateStdin(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("text"))
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("a: |\n  body\nb: 2\n"))
	cmd.SetArgs([]string{"-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ -")
}

func TestValidateRecordsRuns(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	files := []string{
		writeFile(t, dir, "one.yaml", "a: 1\n"),
		writeFile(t, dir, "two.yaml", "a: -x\n"),
	}

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(testOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs(append([]string{"--db", dbPath}, files...))

	err := cmd.Execute()
	require.Error(t, err)

	var result ValidationResult
	decodeResponse(t, buf, &result)
	assert.Equal(t, "test-batch", result.Batch)
	require.Len(t, result.Files, 2)
	assert.NotEmpty(t, result.Files[0].RunID)
	assert.NotEmpty(t, result.Files[1].RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(t.Context(), store.ListOptions{Batch: "test-batch"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, files[0], runs[0].Source)
	assert.Equal(t, files[1], runs[1].Source)
	assert.True(t, runs[0].Verdict.Valid)
	assert.False(t, runs[1].Verdict.Valid)
}

func TestValidateRecordingIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	doc := writeFile(t, dir, "one.yaml", "a: 1\nb: 2\n")

	var ids []string
	for range 2 {
		buf := &bytes.Buffer{}
		cmd := NewValidateCommand(testOptions("json"))
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"--db", dbPath, doc})
		require.NoError(t, cmd.Execute())

		var result ValidationResult
		decodeResponse(t, buf, &result)
		require.Len(t, result.Files, 1)
		ids = append(ids, result.Files[0].RunID)
	}
	assert.Equal(t, ids[0], ids[1])

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(t.Context(), store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
