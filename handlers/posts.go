// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
)

type PostHandler struct {
	db *db.DB
}

func NewPostHandler(d *db.DB) *PostHandler {
	return &PostHandler{db: d}
}

// Create handles POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
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

	now := time.Now().UTC()
	var postID int64
	err = conn.QueryRowContext(r.Context(), `
		INSERT INTO posts (user_id, content, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING post_id
	`, req.UserID, req.Content, req.ImageURL, now, now).Scan(&postID)
	if db.IsForeignKeyViolation(err) {
		userNotFound(w)
		return
	}
	if err != nil {
		databaseError(w, "failed to insert post", err)
		return
	}

	slog.Info("post created", "post_id", postID, "user_id", req.UserID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePostResponse{
		Message: "Post created!",
		PostID:  postID,
	})
}
