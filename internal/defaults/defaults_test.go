package defaults

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDirOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(DataDirEnv, tmpDir)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, tmpDir, dir)
}

func TestEnsureDataDir(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv(DataDirEnv, tmpDir)

	dir, err := EnsureDataDir()
	require.NoError(t, err)
	assert.Equal(t, tmpDir, dir)

	content, err := os.ReadFile(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "context_servers:")
}

func TestEnsureDataDirKeepsUserEdits(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(DataDirEnv, tmpDir)

	path := filepath.Join(tmpDir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("custom: true\n"), 0644))

	_, err := EnsureDataDir()
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom: true\n", string(content))

	require.NoError(t, Reset(tmpDir))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "context_servers:")
}

func TestEmbeddedDocuments(t *testing.T) {
	assert.Contains(t, DefaultSettings(), "extra_args")
	assert.Contains(t, InstallationInstructions(), "chrome-devtools-mcp")
}
