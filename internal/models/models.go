// Package models declares the data structures exchanged between the HTTP
// layer, the service layer, and the storage backends, together with the
// sentinel errors the layers use to classify failures.
package models

import (
	"errors"
	"time"
)

// Memo is a single stored note. CreatedAt is assigned once at creation and
// drives the default newest-first listing order.
type Memo struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoRequest is the body of memo create and update requests.
type MemoRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// CredentialsRequest is the body of both /auth/register and /auth/login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// MemoUpdateResponse wraps the updated record with a human-readable message.
type MemoUpdateResponse struct {
	Message string `json:"message"`
	Memo    *Memo  `json:"memo"`
}

// MemoDeleteResponse wraps the removed record with a human-readable message.
type MemoDeleteResponse struct {
	Message string `json:"message"`
	Deleted *Memo  `json:"deleted"`
}

// ErrDuplicateUsername is returned when registering a username that is
// already present in the credential store.
var ErrDuplicateUsername = errors.New("user already exists")

// ErrUserNotFound is returned when no user record matches the given username.
var ErrUserNotFound = errors.New("user does not exist")

// ErrPasswordMismatch is returned when the presented password does not match
// the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// ErrMemoNotFound is returned when no memo matches the given id.
var ErrMemoNotFound = errors.New("memo not found")

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
