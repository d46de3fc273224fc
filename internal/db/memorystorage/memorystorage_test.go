package memorystorage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/memoapp/internal/models"
)

func TestCreateAndFindUser(t *testing.T) {
	db, err := New()
	require.NoError(t, err)

	ctx := context.Background()

	created, err := db.CreateUser(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.Username)

	found, err := db.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hash-1", found.PasswordHash)

	_, err = db.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, err := New()
	require.NoError(t, err)

	ctx := context.Background()

	_, err = db.CreateUser(ctx, "alice", "hash-1")
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, "alice", "hash-2")
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
}

func TestMemoCRUD(t *testing.T) {
	db, err := New()
	require.NoError(t, err)

	ctx := context.Background()

	memos, err := db.ListMemos(ctx)
	require.NoError(t, err)
	assert.Empty(t, memos)

	created, err := db.CreateMemo(ctx, "buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "buy milk", created.Content)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := db.UpdateMemo(ctx, created.ID, "buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "buy oat milk", updated.Content)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	deleted, err := db.DeleteMemo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", deleted.Content)

	memos, err = db.ListMemos(ctx)
	require.NoError(t, err)
	assert.Empty(t, memos)

	_, err = db.DeleteMemo(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrMemoNotFound)

	_, err = db.UpdateMemo(ctx, created.ID, "anything")
	assert.ErrorIs(t, err, models.ErrMemoNotFound)
}

func TestListMemosNewestFirst(t *testing.T) {
	db, err := New()
	require.NoError(t, err)

	ctx := context.Background()

	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		_, err := db.CreateMemo(ctx, content)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	memos, err := db.ListMemos(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 3)

	assert.Equal(t, "third", memos[0].Content)
	assert.Equal(t, "second", memos[1].Content)
	assert.Equal(t, "first", memos[2].Content)

	for i := 1; i < len(memos); i++ {
		assert.False(t, memos[i-1].CreatedAt.Before(memos[i].CreatedAt))
	}
}
