// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
)

type SystemHandler struct {
	db *db.DB
}

func NewSystemHandler(d *db.DB) *SystemHandler {
	return &SystemHandler{db: d}
}

// Init handles GET /init
func (h *SystemHandler) Init(w http.ResponseWriter, r *http.Request) {
	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	if err := db.CreateSchema(r.Context(), conn); err != nil {
		databaseError(w, "failed to initialize database", err)
		return
	}

	slog.Info("database initialized")

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Database initialized!",
	})
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
