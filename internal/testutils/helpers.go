package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates a temporary directory holding files (name -> content) and returns
// its absolute path. Names may contain subdirectories.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// SetupTestRepo writes files into a temporary directory and initializes a Loam
// repository in it. It fails the test immediately on error.
func SetupTestRepo(t *testing.T, files map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir := WriteFiles(t, files)
	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return dir, repo
}
