package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/memoapp/internal/auth"
	"github.com/example/memoapp/internal/db/memorystorage"
	"github.com/example/memoapp/internal/models"
)

func newTestService(t *testing.T) (*Service, *memorystorage.MemoryStorage, *auth.Auth) {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)

	theAuth := auth.New([]byte("test-signing-secret"), time.Hour)

	return New(db, theAuth), db, theAuth
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	usr, err := db.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", usr.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte("pw1")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	err := svc.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, db, theAuth := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	usr, err := db.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)

	subject, err := theAuth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, subject)
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw1"))

	token, err := svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, models.ErrPasswordMismatch)
	assert.Empty(t, token)

	token, err = svc.Login(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.Empty(t, token)
}

func TestMemoDelegation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMemo(ctx, "buy milk")
	require.NoError(t, err)

	memos, err := svc.ListMemos(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, created.ID, memos[0].ID)

	updated, err := svc.UpdateMemo(ctx, created.ID, "buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Content)

	deleted, err := svc.DeleteMemo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.UpdateMemo(ctx, created.ID, "anything")
	assert.ErrorIs(t, err, models.ErrMemoNotFound)
}
