package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPutGetList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "registry.db")
	packed := compilePacked(t)

	out, err := execute(t, "registry", "put", packed, "--db", db)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = execute(t, "registry", "get", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "id:   "+id)
	assert.Contains(t, out, "type: ( -> int32)")

	out, err = execute(t, "registry", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "compiled computation")
}

func TestRegistryPutIsIdempotent(t *testing.T) {
	db := filepath.Join(t.TempDir(), "registry.db")
	packed := compilePacked(t)

	first, err := execute(t, "registry", "put", packed, "--db", db)
	require.NoError(t, err)
	second, err := execute(t, "registry", "put", packed, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRegistryGetWritesOutput(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "registry.db")
	packed := compilePacked(t)

	out, err := execute(t, "registry", "put", packed, "--db", db)
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	fetched := filepath.Join(dir, "fetched.pack")
	_, err = execute(t, "registry", "get", id, "--db", db, "-o", fetched)
	require.NoError(t, err)

	want, err := os.ReadFile(packed)
	require.NoError(t, err)
	got, err := os.ReadFile(fetched)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRegistryGetNotFound(t *testing.T) {
	db := filepath.Join(t.TempDir(), "registry.db")

	out, err := execute(t, "registry", "get", "no-such-id", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E005")
}

func TestRegistryListJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "registry.db")
	packed := compilePacked(t)

	_, err := execute(t, "registry", "put", packed, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "registry", "list", "--db", db)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "compiled computation", row["kind"])
}

func TestRegistryListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "registry.db")

	out, err := execute(t, "registry", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "registry is empty")
}

func TestRegistryRequiresDB(t *testing.T) {
	_, err := execute(t, "registry", "list")
	require.Error(t, err)
}
