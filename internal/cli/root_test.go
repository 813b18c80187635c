package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "blockscan", cmd.Use)
	assert.Contains(t, cmd.Long, "block scalars")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "trace", "replay", "runs", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "warn", levelFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	validateCmd, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)

	jobsFlag := validateCmd.Flags().Lookup("jobs")
	require.NotNil(t, jobsFlag)
	assert.Equal(t, "j", jobsFlag.Shorthand)
	assert.Equal(t, "0", jobsFlag.DefValue)

	dbFlag := validateCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	for _, name := range []string{"emit", "diagram", "db"} {
		assert.NotNil(t, traceCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	replayCmd, _, err := cmd.Find([]string{"replay"})
	require.NoError(t, err)

	for _, name := range []string{"db", "run", "from", "emit", "diagram"} {
		assert.NotNil(t, replayCmd.Flags().Lookup(name), "flag %s", name)
	}

	inputFlag := replayCmd.Flags().Lookup("input-format")
	require.NotNil(t, inputFlag)
	assert.Equal(t, "jsonl", inputFlag.DefValue)
}

func TestRunsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runsCmd, _, err := cmd.Find([]string{"runs"})
	require.NoError(t, err)

	limitFlag := runsCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "0", limitFlag.DefValue)
	assert.NotNil(t, runsCmd.Flags().Lookup("batch"))
	assert.NotNil(t, runsCmd.Flags().Lookup("document"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	doc := writeFile(t, t.TempDir(), "doc.yaml", "a: 1\n")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "validate", doc})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootRejectsUnknownLogLevel(t *testing.T) {
	t.Chdir(t.TempDir())

	doc := writeFile(t, t.TempDir(), "doc.yaml", "a: 1\n")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "chatty", "validate", doc})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootConfigFileSetsFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".blockscan.yaml", "format: json\n")
	doc := writeFile(t, dir, "doc.yaml", "a: 1\n")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", doc})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"status": "ok"`)
}

func TestRootFlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".blockscan.yaml", "format: json\n")
	doc := writeFile(t, dir, "doc.yaml", "a: 1\n")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "text", "validate", doc})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "All 1 document(s) valid")
}

func TestRootVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	doc := writeFile(t, dir, "doc.yaml", "a: 1\n")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--verbose", "validate", doc})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "validated")
	assert.NotContains(t, out.String(), "validated")
}
