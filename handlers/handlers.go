// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
)

var errInvalidID = errors.New("invalid user id")

// parseUserID reads the {id} path segment
func parseUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// userNotFound writes the bare {"error":"User not found"} body
func userNotFound(w http.ResponseWriter) {
	middleware.JSONResponse(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
}

func databaseError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
