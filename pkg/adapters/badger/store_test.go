package badger_test

import (
	"context"
	"testing"

	"github.com/aretw0/circuitlab/pkg/adapters/badger"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.LayoutStore = (*badger.Store)(nil)

func openInMemory(t *testing.T, prefix string) *badger.Store {
	t.Helper()
	store, err := badger.Open(badger.Config{InMemory: true, Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStore_Contract(t *testing.T) {
	ports.RunLayoutStoreContract(t, openInMemory(t, ""))
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := badger.Open(badger.Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "kept", &domain.Layout{ID: "kept", Name: "durable"}))
	require.NoError(t, store.Close())

	reopened, err := badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "durable", loaded.Name)
}

func TestBadgerStore_PrefixIsolation(t *testing.T) {
	store := openInMemory(t, "team-a/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "b", &domain.Layout{ID: "b"}))
	require.NoError(t, store.Save(ctx, "a", &domain.Layout{ID: "a"}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.Error(t, err)
}
