// Package service contains the business logic of the memo application:
// account registration, credential verification with token issuance, and the
// memo CRUD operations over the storage backend.
package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/user"
)

type credentialsKeeper interface {
	FindUserByUsername(ctx context.Context, username string) (*user.User, error)

	CreateUser(ctx context.Context, username, passwordHash string) (*user.User, error)
}

type memosKeeper interface {
	ListMemos(ctx context.Context) ([]models.Memo, error)

	CreateMemo(ctx context.Context, content string) (*models.Memo, error)

	UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error)

	DeleteMemo(ctx context.Context, id string) (*models.Memo, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	credentialsKeeper
	memosKeeper
	pinger
}

type tokenIssuer interface {
	BuildToken(userID string) (string, error)
}

// Service implements the application operations over a storage backend and a
// token issuer.
type Service struct {
	db     storage
	tokens tokenIssuer
}

// New creates a Service.
func New(db storage, tokens tokenIssuer) *Service {
	return &Service{
		db:     db,
		tokens: tokens,
	}
}

// Register hashes the password and stores a new user record. A taken
// username yields models.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password string) error {
	_, err := s.db.FindUserByUsername(ctx, username)
	if err == nil {
		return models.ErrDuplicateUsername
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.CreateUser(ctx, username, string(passwordHash))

	return err
}

// Login verifies the credentials and issues a bearer token for the matching
// user. Unknown usernames yield models.ErrUserNotFound and wrong passwords
// models.ErrPasswordMismatch; no token is ever returned alongside an error.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	usr, err := s.db.FindUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrPasswordMismatch
	}

	return s.tokens.BuildToken(usr.ID)
}

// ListMemos returns every memo, most recent first.
func (s *Service) ListMemos(ctx context.Context) ([]models.Memo, error) {
	return s.db.ListMemos(ctx)
}

// CreateMemo persists a new memo with the given content.
func (s *Service) CreateMemo(ctx context.Context, content string) (*models.Memo, error) {
	return s.db.CreateMemo(ctx, content)
}

// UpdateMemo replaces the content of an existing memo.
func (s *Service) UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error) {
	return s.db.UpdateMemo(ctx, id, content)
}

// DeleteMemo removes a memo and returns the removed record.
func (s *Service) DeleteMemo(ctx context.Context, id string) (*models.Memo, error) {
	return s.db.DeleteMemo(ctx, id)
}

// Ping checks the health of the storage backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
