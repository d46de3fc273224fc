// Package mockstorage provides a testify-based mock of the storage interface
// for unit testing HTTP handlers without a real backend.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/user"
)

// StorageMock implements storage.Storage through testify expectations. Use
// it in router and service tests to simulate backend behavior, including
// failures the real backends are awkward to produce.
type StorageMock struct {
	mock.Mock
}

// FindUserByUsername mocks the credential lookup.
func (m *StorageMock) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// CreateUser mocks user creation.
func (m *StorageMock) CreateUser(ctx context.Context, username, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, username, passwordHash)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// ListMemos mocks the memo listing.
func (m *StorageMock) ListMemos(ctx context.Context) ([]models.Memo, error) {
	args := m.Called(ctx)
	memos, _ := args.Get(0).([]models.Memo)
	return memos, args.Error(1)
}

// CreateMemo mocks memo creation.
func (m *StorageMock) CreateMemo(ctx context.Context, content string) (*models.Memo, error) {
	args := m.Called(ctx, content)
	memo, _ := args.Get(0).(*models.Memo)
	return memo, args.Error(1)
}

// UpdateMemo mocks the content replacement.
func (m *StorageMock) UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error) {
	args := m.Called(ctx, id, content)
	memo, _ := args.Get(0).(*models.Memo)
	return memo, args.Error(1)
}

// DeleteMemo mocks the removal.
func (m *StorageMock) DeleteMemo(ctx context.Context, id string) (*models.Memo, error) {
	args := m.Called(ctx, id)
	memo, _ := args.Get(0).(*models.Memo)
	return memo, args.Error(1)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks the shutdown hook.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
