// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vault/db"
)

const testSecret = "test-session-secret"

// clock is a settable time source shared by store and manager
type clock struct{ t time.Time }

func (c *clock) Now() time.Time {
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newSQLStore(t *testing.T) (*SQLStore, *clock) {
	t.Helper()

	d, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "sessions.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, db.CreateSchema(context.Background(), d))

	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSQLStore(d)
	store.now = c.Now
	return store, c
}

func newManager(store *SQLStore, c *clock) *Manager {
	m := NewManager(store, testSecret, 30*time.Minute, false)
	m.now = c.Now
	return m
}

func TestSQLStore_CreateAndTouch(t *testing.T) {
	store, c := newSQLStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "alice", 30*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, c.Now().Add(30*time.Minute), sess.ExpiresAt)

	// Activity inside the window slides the expiry forward
	c.Advance(20 * time.Minute)
	touched, err := store.Touch(ctx, sess.ID, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "alice", touched.Username)
	assert.Equal(t, c.Now().Add(30*time.Minute), touched.ExpiresAt)

	// 40 minutes after creation but only 20 after the last touch
	c.Advance(20 * time.Minute)
	_, err = store.Touch(ctx, sess.ID, 30*time.Minute)
	assert.NoError(t, err)
}

func TestSQLStore_TouchExpired(t *testing.T) {
	store, c := newSQLStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "alice", 30*time.Minute)
	require.NoError(t, err)

	c.Advance(31 * time.Minute)
	_, err = store.Touch(ctx, sess.ID, 30*time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)

	// The expired row is gone, so rewinding the clock does not revive it
	c.Advance(-10 * time.Minute)
	_, err = store.Touch(ctx, sess.ID, 30*time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_TouchUnknown(t *testing.T) {
	store, _ := newSQLStore(t)

	_, err := store.Touch(context.Background(), "does-not-exist", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_Purge(t *testing.T) {
	store, c := newSQLStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "short", time.Minute)
	require.NoError(t, err)
	_, err = store.Create(ctx, "short-too", time.Minute)
	require.NoError(t, err)
	long, err := store.Create(ctx, "long", time.Hour)
	require.NoError(t, err)

	c.Advance(2 * time.Minute)
	n, err := store.Purge(ctx, c.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Touch(ctx, long.ID, time.Hour)
	assert.NoError(t, err)
}

func TestSQLStore_DatabaseError(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mockDB.Close()

	store := NewSQLStore(db.New(mockDB, db.SQLite))

	mock.ExpectQuery(`(?s)SELECT\s+username,\s*expires_at\s+FROM\s+sessions`).
		WithArgs("sid").
		WillReturnError(errors.New("disk I/O error"))

	_, err = store.Touch(context.Background(), "sid", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "disk I/O error")

	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= \?`).
		WillReturnError(errors.New("database is locked"))

	_, err = store.Purge(context.Background(), time.Now())
	assert.ErrorContains(t, err, "database is locked")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_StartAndRequire(t *testing.T) {
	store, c := newSQLStore(t)
	m := newManager(store, c)

	w := httptest.NewRecorder()
	_, err := m.Start(context.Background(), w, "alice")
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1800, cookie.MaxAge)

	var seen string
	handler := m.Require(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = Username(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/home", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", seen)

	// The cookie is re-issued on every authenticated access
	require.Len(t, w.Result().Cookies(), 1)
}

func TestManager_Require_Rejects(t *testing.T) {
	store, c := newSQLStore(t)
	m := newManager(store, c)

	w := httptest.NewRecorder()
	_, err := m.Start(context.Background(), w, "alice")
	require.NoError(t, err)
	valid := w.Result().Cookies()[0]

	other := NewManager(store, "another-secret", 30*time.Minute, false)
	other.now = c.Now
	w = httptest.NewRecorder()
	_, err = other.Start(context.Background(), w, "mallory")
	require.NoError(t, err)
	foreign := w.Result().Cookies()[0]

	// Swap the payload for one naming a different user, keep the signature
	parts := strings.Split(valid.Value, ".")
	forgedParts := strings.Split(foreign.Value, ".")
	forged := parts[0] + "." + forgedParts[1] + "." + parts[2]

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage", &http.Cookie{Name: CookieName, Value: "not-a-token"}},
		{"signed with another secret", foreign},
		{"tampered payload", &http.Cookie{Name: CookieName, Value: forged}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := m.Require(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest("GET", "/home", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
			assert.JSONEq(t, `{"status":"failure","message":"Not logged in."}`, w.Body.String())
		})
	}
}

func TestManager_IdleExpiry(t *testing.T) {
	store, c := newSQLStore(t)
	m := newManager(store, c)

	w := httptest.NewRecorder()
	_, err := m.Start(context.Background(), w, "alice")
	require.NoError(t, err)
	cookie := w.Result().Cookies()[0]

	// Refresh at 25 minutes keeps the session alive past the original deadline
	c.Advance(25 * time.Minute)
	req := httptest.NewRequest("GET", "/home", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	sess, err := m.Load(w, req)
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	cookie = w.Result().Cookies()[0]

	c.Advance(25 * time.Minute)
	req = httptest.NewRequest("GET", "/home", nil)
	req.AddCookie(cookie)
	_, err = m.Load(httptest.NewRecorder(), req)
	require.NoError(t, err)

	// Idle past the window
	c.Advance(31 * time.Minute)
	req = httptest.NewRequest("GET", "/home", nil)
	req.AddCookie(cookie)
	_, err = m.Load(httptest.NewRecorder(), req)
	assert.Error(t, err)
}

func TestSweeper(t *testing.T) {
	_, err := NewSweeper(nil, "not a schedule")
	assert.Error(t, err)

	store, c := newSQLStore(t)
	ctx := context.Background()
	_, err = store.Create(ctx, "alice", time.Minute)
	require.NoError(t, err)

	s, err := NewSweeper(store, "@every 10m")
	require.NoError(t, err)
	s.now = func() time.Time { return c.Now().Add(time.Hour) }

	s.sweep()

	var count int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Zero(t, count)

	s.Start()
	<-s.Stop().Done()
}
