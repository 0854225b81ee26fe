// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
)

// CookieName is the cookie carrying the signed session token
const CookieName = "session"

type contextKey struct{}

// Manager ties a Store to the signed cookie held by the client.
// The cookie is an HS256 JWT: readable by anyone, but any edit breaks
// the signature.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start creates a session for username and sets the cookie on w
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, username string) (Session, error) {
	sess, err := m.store.Create(ctx, username, m.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := m.setCookie(w, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Load verifies the request's cookie, refreshes the session and re-issues
// the cookie with the new expiry.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, ErrNotFound
	}

	claims, err := m.parse(cookie.Value)
	if err != nil {
		return Session{}, err
	}

	sess, err := m.store.Touch(r.Context(), claims.ID, m.ttl)
	if err != nil {
		return Session{}, err
	}
	if sess.Username != claims.Subject {
		return Session{}, ErrInvalidToken
	}

	if err := m.setCookie(w, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Require rejects requests without a live session and exposes the
// username to next through the request context.
func (m *Manager) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Load(w, r)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidToken) {
				slog.Error("failed to load session", "error", err)
			}
			middleware.StatusResponse(w, http.StatusUnauthorized, models.StatusFailure, "Not logged in.")
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, sess.Username)
		next(w, r.WithContext(ctx))
	}
}

// Username returns the identity placed in ctx by Require
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(contextKey{}).(string)
	return username, ok
}

func (m *Manager) sign(sess Session) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, sess Session) error {
	token, err := m.sign(sess)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
