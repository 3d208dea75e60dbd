package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "outlint", cmd.Use)
	assert.Contains(t, cmd.Long, "All violations are reported together")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"check"},
		{"rules"},
		{"schema"},
		{"schema", "export"},
		{"schema", "validate"},
		{"changelog"},
		{"history"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
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
}

func TestCheckCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		shorthand string
	}{
		{"result", "r"},
		{"app", "a"},
		{"bundle", "b"},
		{"skip", ""},
		{"db", ""},
	}
	for _, tt := range tests {
		flag := checkCmd.Flags().Lookup(tt.name)
		require.NotNil(t, flag, tt.name)
		assert.Equal(t, tt.shorthand, flag.Shorthand, tt.name)
	}
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	for _, name := range []string{"db", "method", "failed", "limit", "id"} {
		assert.NotNil(t, historyCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "20", historyCmd.Flags().Lookup("limit").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	_, _, err := execute(cmd, "--format", "xml", "rules")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootDispatchesFormat(t *testing.T) {
	cmd := NewRootCommand()
	out, _, err := execute(cmd, "--format", "json", "rules", "--kind", "create")
	require.NoError(t, err)

	var infos []RuleInfo
	resp := decodeResponse(t, out, &infos)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, infos, 1)
	assert.Equal(t, "createIsObject", infos[0].Name)
}

func TestVerboseLogsToStderr(t *testing.T) {
	cmd := NewRootCommand()
	out, stderr, err := execute(cmd, "-v", "check", "triggers.contact.operation.perform",
		"--result", "testdata/trigger_duplicates.json", "--skip", "has-id")

	require.Error(t, err)
	assert.NotContains(t, out, "level=")
	assert.Contains(t, stderr, `msg="check skipped" rule=triggerHasId`)
	assert.Contains(t, stderr, `msg="check failed" rule=triggerHasUniquePrimary`)
	assert.Contains(t, stderr, "Loaded result from testdata/trigger_duplicates.json")
}
