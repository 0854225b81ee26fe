// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/vault/db"
)

// SQLStore keeps sessions in the sessions table next to the accounts
type SQLStore struct {
	db  *db.DB
	now func() time.Time
}

func NewSQLStore(d *db.DB) *SQLStore {
	return &SQLStore{db: d, now: time.Now}
}

func (s *SQLStore) Create(ctx context.Context, username string, ttl time.Duration) (Session, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		Username:  username,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, username, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, sess.ID, sess.Username, sess.ExpiresAt.Unix(), now.UTC())
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

func (s *SQLStore) Touch(ctx context.Context, id string, ttl time.Duration) (Session, error) {
	var username string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT username, expires_at FROM sessions WHERE id = ?
	`, id).Scan(&username, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	now := s.now()
	if expiresAt <= now.Unix() {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
			return Session{}, fmt.Errorf("failed to delete expired session: %w", err)
		}
		return Session{}, ErrNotFound
	}

	sess := Session{ID: id, Username: username, ExpiresAt: now.Add(ttl)}
	_, err = s.db.ExecContext(ctx, `
		UPDATE sessions SET expires_at = ? WHERE id = ?
	`, sess.ExpiresAt.Unix(), id)
	if err != nil {
		return Session{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	return sess, nil
}

func (s *SQLStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}
	return n, nil
}
