// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
)

const userColumns = `user_id, username, email, password, first_name, last_name,
	profile_pic, bio, created_at, updated_at`

type UserHandler struct {
	db *db.DB
}

func NewUserHandler(d *db.DB) *UserHandler {
	return &UserHandler{db: d}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.UserID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.ProfilePic, &u.Bio,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	rows, err := conn.QueryContext(r.Context(), "SELECT "+userColumns+" FROM users ORDER BY user_id")
	if err != nil {
		databaseError(w, "failed to query users", err)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			databaseError(w, "failed to scan user", err)
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		databaseError(w, "failed to iterate users", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	u, err := scanUser(conn.QueryRowContext(r.Context(),
		"SELECT "+userColumns+" FROM users WHERE user_id = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		userNotFound(w)
		return
	}
	if err != nil {
		databaseError(w, "failed to query user", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, u)
}

// Update handles PUT /users/{id}. An unknown id updates nothing and still
// reports success.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateUserRequest
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

	_, err = conn.ExecContext(r.Context(), `
		UPDATE users
		SET username = ?, email = ?, profile_pic = ?, bio = ?, updated_at = ?
		WHERE user_id = ?
	`, req.Username, req.Email, req.ProfilePic, req.Bio, time.Now().UTC(), userID)
	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username or email already taken")
		return
	}
	if err != nil {
		databaseError(w, "failed to update user", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "User profile updated!",
	})
}
