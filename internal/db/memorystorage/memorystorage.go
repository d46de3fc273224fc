// Package memorystorage is the purely in-memory storage backend used by the
// tests and as the fallback when neither a DSN nor a file name is configured.
package memorystorage

import (
	"context"

	"github.com/example/memoapp/internal/db/jsondb"
	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/user"
)

// MemoryStorage reuses the jsondb cache without any file behind it.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns an empty in-memory storage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{
				Users:        map[string]*user.User{},
				UsernameToID: map[string]string{},
				Memos:        map[string]*models.Memo{},
			},
		},
	}, nil
}

// Close is a no-op: there is nothing to flush.
func (s *MemoryStorage) Close() error {
	return nil
}

// Ping reports the backend as always reachable.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
