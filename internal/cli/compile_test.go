package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addSpec = `
computation: {
	type: {result: "int32"}
	graph: {
		node: [
			{name: "a", op: "Const"},
			{name: "b", op: "Const"},
			{name: "add", op: "AddV2", input: ["a", "b"]},
			{name: "result", op: "Identity", input: ["add"]},
		]
	}
	result: "result:0"
}
`

// execute runs the CLI with the given args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeSpec writes the add computation spec to a temp file.
func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "add.cue")
	require.NoError(t, os.WriteFile(path, []byte(addSpec), 0644))
	return path
}

// compilePacked compiles the add spec and returns the packed output path.
func compilePacked(t *testing.T) string {
	t.Helper()
	packed := filepath.Join(t.TempDir(), "add.pack")
	_, err := execute(t, "compile", writeSpec(t), "-o", packed)
	require.NoError(t, err)
	return packed
}

func TestCompileText(t *testing.T) {
	out, err := execute(t, "compile", writeSpec(t))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled")
	assert.Contains(t, out, "kind: compiled computation")
	assert.Contains(t, out, "type: ( -> int32)")
}

func TestCompileJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "compile", writeSpec(t))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "compiled computation", data["kind"])
	assert.Equal(t, "( -> int32)", data["type"])
	assert.NotEmpty(t, data["id"])
}

func TestCompileWritesOutput(t *testing.T) {
	packed := compilePacked(t)
	data, err := os.ReadFile(packed)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCompileMissingFile(t *testing.T) {
	out, err := execute(t, "compile", filepath.Join(t.TempDir(), "no_such.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E001")
}

func TestCompileBadSpecReportsPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
computation: {
	type: {result: "int32"}
	graph: {node: [{op: "Const"}]}
	result: "a:0"
}
`), 0644))

	out, err := execute(t, "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "bad.cue:")
	assert.Contains(t, out, "node[0].name")
}
