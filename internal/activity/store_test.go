package activity

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "activities.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.CreatePublic(ctx, budgetActivity())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Empty(t, rec.UserID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, budgetActivity(), got.Activity)
	assert.Empty(t, got.UserID)
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreateForUserRequiresUserID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateForUser(ctx, "", budgetActivity())
	assert.Error(t, err)

	_, err = store.CreateBatchForUser(ctx, "", []Activity{budgetActivity()})
	assert.Error(t, err)
}

func TestStore_ListsSeparatePublicAndUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pub, err := store.CreatePublic(ctx, budgetActivity())
	require.NoError(t, err)

	mine := budgetActivity()
	mine.Title = "My Budget"
	owned, err := store.CreateForUser(ctx, "user-1", mine)
	require.NoError(t, err)

	public, err := store.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, pub.ID, public[0].ID)

	forUser, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, forUser, 1)
	assert.Equal(t, owned.ID, forUser[0].ID)
	assert.Equal(t, "user-1", forUser[0].UserID)
	assert.Equal(t, "My Budget", forUser[0].Activity.Title)

	empty, err := store.ListForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_CreateBatchForUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := budgetActivity()
	b := budgetActivity()
	b.Title = "Second Activity"

	records, err := store.CreateBatchForUser(ctx, "user-1", []Activity{a, b})
	require.NoError(t, err)
	require.Len(t, records, 2)

	listed, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
