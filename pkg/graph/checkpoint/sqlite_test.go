package checkpoint_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
)

func newSQLiteStore(t *testing.T) *checkpoint.SQLiteStore {
	t.Helper()
	store, err := checkpoint.NewSQLiteStore(filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "t-1", "node-a", []byte("a")))

	data, err := store.Load(ctx, "t-1", "node-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	_, err = store.Load(ctx, "t-1", "node-b")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestSQLiteStore_OverwriteBecomesLatest(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "t-1", "node-a", []byte("a1")))
	require.NoError(t, store.Save(ctx, "t-1", "node-b", []byte("b1")))
	require.NoError(t, store.Save(ctx, "t-1", "node-a", []byte("a2")))

	data, err := store.LoadLatest(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), data)

	infos, err := store.List(ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, infos, 2)
}

func TestSQLiteStore_LoadLatestNotFound(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.LoadLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestSQLiteStore_List(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	infos, err := store.List(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, store.Save(ctx, "t-1", "node-a", []byte("aa")))
	require.NoError(t, store.Save(ctx, "t-1", "node-b", []byte("bbbb")))

	infos, err = store.List(ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "node-a", infos[0].NodeID)
	assert.Equal(t, "node-b", infos[1].NodeID)
	assert.Equal(t, int64(2), infos[0].Size)
	assert.Equal(t, int64(4), infos[1].Size)
	assert.False(t, infos[0].Timestamp.IsZero())
}

func TestSQLiteStore_DeleteThread(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "t-1", "node-a", []byte("a")))
	require.NoError(t, store.Save(ctx, "t-2", "node-a", []byte("x")))

	require.NoError(t, store.DeleteThread(ctx, "t-1"))
	require.NoError(t, store.DeleteThread(ctx, "missing"))

	_, err := store.Load(ctx, "t-1", "node-a")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)

	data, err := store.Load(ctx, "t-2", "node-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoints.db")
	ctx := context.Background()

	store, err := checkpoint.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "t-1", "node-a", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := checkpoint.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.LoadLatest(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), data)
}
