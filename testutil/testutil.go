// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/vault/auth"
	"github.com/danielhkuo/vault/cliparse"
	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/session"
)

// TestSessionSecret signs cookies in tests
const TestSessionSecret = "test-session-secret"

// SetupTestDB creates a fresh SQLite file with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	// Full-cost bcrypt makes handler tests crawl
	auth.HashCost = bcrypt.MinCost

	path := filepath.Join(t.TempDir(), "vault_test.db")
	d, err := db.Open(db.SQLite, path, 10*time.Second)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.CreateSchema(context.Background(), d); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return d
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           5000,
		DatabaseURL:    "vault_test.db",
		DatabaseType:   cliparse.DatabaseSQLite,
		BusyTimeout:    10 * time.Second,
		SessionSecret:  TestSessionSecret,
		SessionTTL:     30 * time.Minute,
		SessionBackend: cliparse.SessionBackendSQL,
		SessionSweep:   "@every 10m",
		MinioBucket:    "vault",
	}
}

// NewTestSessions returns a session manager backed by the sessions table
func NewTestSessions(d *db.DB) *session.Manager {
	cfg := GetTestConfig()
	return session.NewManager(session.NewSQLStore(d), cfg.SessionSecret, cfg.SessionTTL, false)
}

// CreateTestUser inserts an account and returns its user_id
func CreateTestUser(t *testing.T, d *db.DB, username, email, password string) int64 {
	t.Helper()

	digest, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	var userID int64
	err = d.QueryRowContext(context.Background(), `
		INSERT INTO users (username, email, password, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, 'Test', 'User', ?, ?)
		RETURNING user_id
	`, username, email, digest, now, now).Scan(&userID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, d *db.DB, table string) int {
	t.Helper()

	var n int
	if err := d.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// SessionCookie starts a session for username and returns its cookie
func SessionCookie(t *testing.T, m *session.Manager, username string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if _, err := m.Start(context.Background(), w, username); err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	return FindCookie(t, w, session.CookieName)
}

// FindCookie returns the named cookie set on the response
func FindCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("Response did not set cookie %q", name)
	return nil
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
