// Package storage declares the persistence contract shared by every backend.
package storage

import (
	"context"

	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/user"
)

// Storage is the full persistence surface of the service: the credential
// collection and the memo collection, plus lifecycle helpers. Absent records
// surface as models.ErrUserNotFound / models.ErrMemoNotFound and duplicate
// registrations as models.ErrDuplicateUsername.
type Storage interface {
	FindUserByUsername(ctx context.Context, username string) (*user.User, error)

	CreateUser(ctx context.Context, username, passwordHash string) (*user.User, error)

	ListMemos(ctx context.Context) ([]models.Memo, error)

	CreateMemo(ctx context.Context, content string) (*models.Memo, error)

	UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error)

	DeleteMemo(ctx context.Context, id string) (*models.Memo, error)

	Ping(ctx context.Context) error

	Close() error
}
