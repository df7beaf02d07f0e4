// Package session keeps the login sessions of the mock backend.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// Session is one successful login
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines the methods of a session storage
type Store interface {
	// Save stores s until its ExpiresAt
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
