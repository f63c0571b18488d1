package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), d)
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wot.toml")
	require.NoError(t, os.WriteFile(path, []byte("verbose = true\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.True(t, d.Verbose)
	assert.Equal(t, Default().OutputSuffix, d.OutputSuffix)
	assert.Equal(t, Default().ChunkSize, d.ChunkSize)
}
