// Package auth issues and verifies the signed bearer tokens guarding the
// memo routes, and provides the middleware that attaches the authenticated
// user id to the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrMissingToken means the Authorization header is absent or is not of the
// form "Bearer <token>". Mapped to HTTP 401.
var ErrMissingToken = errors.New("token is missing")

// ErrInvalidToken means the presented token is malformed, carries a bad
// signature, or has expired. Mapped to HTTP 403.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by issued tokens: the registered set
// plus the subject user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a dedicated type for request context values to avoid
// collisions with other packages.
type ContextKey string

// UserIDKey is the context key under which the middleware stores the
// authenticated user's id.
const UserIDKey ContextKey = "userID"

const bearerPrefix = "Bearer "

// Auth holds the token signing secret and the issued token lifetime.
type Auth struct {
	signingSecret []byte
	tokenTTL      time.Duration
}

// New creates an Auth with the given signing secret and token lifetime.
func New(signingSecret []byte, tokenTTL time.Duration) *Auth {
	return &Auth{
		signingSecret: signingSecret,
		tokenTTL:      tokenTTL,
	}
}

// BuildToken issues a signed token whose subject is the given user id and
// whose expiry is tokenTTL from now.
func (a *Auth) BuildToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(a.signingSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns
// the embedded user id. Whether the user still exists is not re-checked;
// a token stays valid until its expiry.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.signingSecret, nil
		},
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

// Authenticate gates a handler behind bearer token verification. A missing
// or malformed Authorization header yields 401; a token that fails
// verification yields 403. On success the subject user id is stored in the
// request context under UserIDKey.
func (a *Auth) Authenticate(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		authHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			respondMessage(response, http.StatusUnauthorized, ErrMissingToken.Error())
			return
		}

		userID, err := a.ParseToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			respondMessage(response, http.StatusForbidden, ErrInvalidToken.Error())
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

func respondMessage(response http.ResponseWriter, status int, message string) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	_ = json.NewEncoder(response).Encode(map[string]string{"message": message})
}
