// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/vault/auth"
	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
	"github.com/danielhkuo/vault/notify"
	"github.com/danielhkuo/vault/session"
)

const (
	msgBadCredentials   = "Username or password incorrect."
	msgPasswordMismatch = "Passwords do not match."
)

// AccountHandler covers login, registration, the session greeting and
// password reset
type AccountHandler struct {
	db       *db.DB
	sessions *session.Manager
	notifier notify.Notifier
}

func NewAccountHandler(d *db.DB, sessions *session.Manager, notifier notify.Notifier) *AccountHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AccountHandler{db: d, sessions: sessions, notifier: notifier}
}

// Login handles POST /login. The username field may carry an email.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	column := auth.LookupColumn(req.Username)
	var username, digest string
	err = conn.QueryRowContext(r.Context(),
		fmt.Sprintf("SELECT username, password FROM users WHERE %s = ?", column),
		req.Username,
	).Scan(&username, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.StatusResponse(w, http.StatusUnauthorized, models.StatusFailure, msgBadCredentials)
		return
	}
	if err != nil {
		databaseError(w, "failed to query user", err)
		return
	}

	if !auth.VerifyPassword(req.Password, digest) {
		middleware.StatusResponse(w, http.StatusUnauthorized, models.StatusFailure, msgBadCredentials)
		return
	}

	if _, err := h.sessions.Start(r.Context(), w, username); err != nil {
		databaseError(w, "failed to start session", err)
		return
	}

	slog.Info("user logged in", "username", username)

	middleware.StatusResponse(w, http.StatusOK, models.StatusSuccess, "Login successful!")
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	taken, err := exists(r, conn, "SELECT 1 FROM users WHERE username = ?", req.Username)
	if err != nil {
		databaseError(w, "failed to check username", err)
		return
	}
	if taken {
		middleware.StatusResponse(w, http.StatusConflict, models.StatusFailure, "Username already taken")
		return
	}

	taken, err = exists(r, conn, "SELECT 1 FROM users WHERE email = ?", req.Email)
	if err != nil {
		databaseError(w, "failed to check email", err)
		return
	}
	if taken {
		middleware.StatusResponse(w, http.StatusConflict, models.StatusFailure, "Email already registered")
		return
	}

	if req.Password != req.ConfirmedPassword {
		middleware.StatusResponse(w, http.StatusUnauthorized, models.StatusFailure, msgPasswordMismatch)
		return
	}

	digest, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	now := time.Now().UTC()
	_, err = conn.ExecContext(r.Context(), `
		INSERT INTO users (username, email, password, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, req.Username, req.Email, digest, req.FirstName, req.LastName, now, now)
	// Lost a race with a concurrent registration
	if db.UniqueViolationOn(err, "users", "email") {
		middleware.StatusResponse(w, http.StatusConflict, models.StatusFailure, "Email already registered")
		return
	}
	if db.IsUniqueViolation(err) {
		middleware.StatusResponse(w, http.StatusConflict, models.StatusFailure, "Username already taken")
		return
	}
	if err != nil {
		databaseError(w, "failed to insert user", err)
		return
	}

	slog.Info("account created", "username", req.Username)

	middleware.StatusResponse(w, http.StatusCreated, models.StatusSuccess, "Account created!")
}

// Home handles GET /home. Must be wrapped in session.Manager.Require.
func (h *AccountHandler) Home(w http.ResponseWriter, r *http.Request) {
	username, ok := session.Username(r.Context())
	if !ok {
		middleware.StatusResponse(w, http.StatusUnauthorized, models.StatusFailure, "Not logged in.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("Welcome %s!", username),
	})
}

// ResetPassword handles POST /reset-password
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.NewPassword != req.ConfirmedPassword {
		middleware.StatusResponse(w, http.StatusBadRequest, models.StatusFailure, msgPasswordMismatch)
		return
	}

	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	column := auth.LookupColumn(req.EmailOrUsername)
	var userID int64
	var username, email string
	err = conn.QueryRowContext(r.Context(),
		fmt.Sprintf("SELECT user_id, username, email FROM users WHERE %s = ?", column),
		req.EmailOrUsername,
	).Scan(&userID, &username, &email)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.StatusResponse(w, http.StatusNotFound, models.StatusFailure, "User not found.")
		return
	}
	if err != nil {
		databaseError(w, "failed to query user", err)
		return
	}

	digest, err := auth.HashPassword(req.NewPassword)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	_, err = conn.ExecContext(r.Context(),
		"UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?",
		digest, time.Now().UTC(), userID)
	if err != nil {
		databaseError(w, "failed to update password", err)
		return
	}

	slog.Info("password reset", "user_id", userID)

	// The reset already happened; a mail failure is only logged
	if err := h.notifier.PasswordChanged(r.Context(), email, username); err != nil {
		slog.Warn("failed to send password notice", "user_id", userID, "error", err)
	}

	middleware.StatusResponse(w, http.StatusOK, models.StatusSuccess, "Password reset successful!")
}

func exists(r *http.Request, q db.Querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(r.Context(), query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
