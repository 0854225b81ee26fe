// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidToken = errors.New("invalid session token")
)

// Session binds a random ID to the username that logged in
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

// Store keeps session records on the server side
type Store interface {
	// Create starts a session for username that lives for ttl
	Create(ctx context.Context, username string, ttl time.Duration) (Session, error)

	// Touch returns the live session with the given ID and pushes its
	// expiry ttl into the future. Absent and expired sessions yield
	// ErrNotFound.
	Touch(ctx context.Context, id string, ttl time.Duration) (Session, error)

	// Purge deletes sessions that expired before now
	Purge(ctx context.Context, now time.Time) (int64, error)
}
