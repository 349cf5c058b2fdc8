package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifact_UniqueNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		a, err := NewArtifact(dir)
		require.NoError(t, err)
		for _, p := range a.Paths() {
			assert.False(t, seen[p], "duplicate path %s", p)
			seen[p] = true
			assert.Equal(t, dir, filepath.Dir(p))
		}
	}

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArtifact_ReleaseOnce(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArtifact(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(a.InputPath, []byte("in"), 0o644))
	require.NoError(t, os.WriteFile(a.OutputPath, []byte("out"), 0o644))

	require.NoError(t, a.ReleaseInput())
	assert.NoFileExists(t, a.InputPath)
	assert.FileExists(t, a.OutputPath)

	// a file recreated at a released path is left alone
	require.NoError(t, os.WriteFile(a.InputPath, []byte("reused"), 0o644))
	require.NoError(t, a.Release())
	assert.FileExists(t, a.InputPath)
	assert.NoFileExists(t, a.OutputPath)

	require.NoError(t, a.Release())
}

func TestArtifact_ReleaseMissingFiles(t *testing.T) {
	a, err := NewArtifact(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, a.Release())
}

func TestArtifact_ReleaseRetriesFailedRemoval(t *testing.T) {
	a, err := NewArtifact(t.TempDir())
	require.NoError(t, err)

	// a non-empty directory at the output path cannot be removed
	require.NoError(t, os.Mkdir(a.OutputPath, 0o755))
	blocker := filepath.Join(a.OutputPath, "busy")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	assert.Error(t, a.Release())
	assert.DirExists(t, a.OutputPath)

	require.NoError(t, os.Remove(blocker))
	require.NoError(t, a.Release())
	assert.NoDirExists(t, a.OutputPath)
}
