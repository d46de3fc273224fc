// Package jsondb is a storage backend that keeps the user and memo
// collections in memory and persists them to a single JSON file on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	funk "github.com/thoas/go-funk"

	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/user"
)

// CacheStruct is the serialized shape of the database file. Users and Memos
// are keyed by id; UsernameToID enforces username uniqueness.
type CacheStruct struct {
	Users        map[string]*user.User
	UsernameToID map[string]string
	Memos        map[string]*models.Memo
}

// JSONDB implements storage.Storage over an in-memory cache backed by a file.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"UsernameToID": {},
	"Memos": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

// New loads the database from fileName, creating an empty one when the file
// does not exist yet.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(db.fileName, &db.Cache); err != nil {
			return nil, err
		}
	}

	return &db, nil
}

// FindUserByUsername returns the user registered under username or
// models.ErrUserNotFound.
func (db *JSONDB) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	userID, found := db.Cache.UsernameToID[username]
	if !found {
		return nil, models.ErrUserNotFound
	}

	usr := *db.Cache.Users[userID]

	return &usr, nil
}

// CreateUser stores a new user record. A taken username yields
// models.ErrDuplicateUsername.
func (db *JSONDB) CreateUser(ctx context.Context, username, passwordHash string) (*user.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.Cache.UsernameToID[username]; exists {
		return nil, models.ErrDuplicateUsername
	}

	usr := &user.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	db.Cache.Users[usr.ID] = usr
	db.Cache.UsernameToID[username] = usr.ID

	result := *usr

	return &result, nil
}

// ListMemos returns every memo ordered by creation time, most recent first.
func (db *JSONDB) ListMemos(ctx context.Context) ([]models.Memo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	stored := funk.Values(db.Cache.Memos).([]*models.Memo)

	result := make([]models.Memo, 0, len(stored))
	for _, memo := range stored {
		result = append(result, *memo)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// CreateMemo stores a new memo with a fresh id and creation timestamp.
func (db *JSONDB) CreateMemo(ctx context.Context, content string) (*models.Memo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	memo := &models.Memo{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now(),
	}
	db.Cache.Memos[memo.ID] = memo

	result := *memo

	return &result, nil
}

// UpdateMemo replaces the content of the memo with the given id, leaving id
// and creation timestamp untouched.
func (db *JSONDB) UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	memo, found := db.Cache.Memos[id]
	if !found {
		return nil, models.ErrMemoNotFound
	}

	memo.Content = content

	result := *memo

	return &result, nil
}

// DeleteMemo removes the memo with the given id and returns the removed
// record.
func (db *JSONDB) DeleteMemo(ctx context.Context, id string) (*models.Memo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	memo, found := db.Cache.Memos[id]
	if !found {
		return nil, models.ErrMemoNotFound
	}

	delete(db.Cache.Memos, id)

	result := *memo

	return &result, nil
}

// Ping reports the backend as always reachable.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the database file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}
