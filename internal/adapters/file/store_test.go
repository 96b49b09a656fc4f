package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/circuitlab/internal/adapters/file"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.LayoutStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunLayoutStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_AtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", &domain.Layout{ID: "s1", Name: "first"}))
	require.NoError(t, store.Save(ctx, "s1", &domain.Layout{ID: "s1", Name: "second"}))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestFileStore_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "kept", &domain.Layout{ID: "kept"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-kept-123.json"), []byte("{}"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids)
}

func TestFileStore_Errors(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", &domain.Layout{}))
	assert.Error(t, store.Save(ctx, "../escape", &domain.Layout{}))
	_, err := store.Load(ctx, "..")
	assert.Error(t, err)
	assert.NoError(t, store.Delete(ctx, "never-saved"))

	ids, err := file.New(filepath.Join(t.TempDir(), "missing")).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, os.WriteFile(filepath.Join(store.BasePath, "broken.json"), []byte("{"), 0644))
	_, err = store.Load(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".circuitlab", "sandboxes"), file.New("").BasePath)
}
