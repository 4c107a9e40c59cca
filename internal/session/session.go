// Package session provides refresh-token session storage.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a refresh token is unknown or expired.
var ErrNotFound = errors.New("session not found or expired")

// Identity is the data carried by a refresh session.
type Identity struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Store holds refresh sessions keyed by the hash of the refresh token.
type Store interface {
	Save(ctx context.Context, tokenHash string, id Identity, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string) (Identity, error)
	Revoke(ctx context.Context, tokenHash string) error
}
