// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/vault/cliparse"
	"github.com/danielhkuo/vault/db"
	"github.com/danielhkuo/vault/handlers"
	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/notify"
	"github.com/danielhkuo/vault/session"
	"github.com/danielhkuo/vault/storage"
)

// Deps are the services shared by all handlers
type Deps struct {
	DB       *db.DB
	Config   cliparse.Config
	Sessions *session.Manager
	Notifier notify.Notifier

	// Store is nil when object storage is not configured; /upload is
	// then not mounted
	Store storage.ObjectStore
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	systemHandler := handlers.NewSystemHandler(deps.DB)
	userHandler := handlers.NewUserHandler(deps.DB)
	accountHandler := handlers.NewAccountHandler(deps.DB, deps.Sessions, deps.Notifier)
	postHandler := handlers.NewPostHandler(deps.DB)

	// Health check
	mux.HandleFunc("GET /health", systemHandler.Health)
	mux.HandleFunc("GET /init", middleware.WithLogging(systemHandler.Init))

	// Accounts
	mux.HandleFunc("POST /register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /reset-password", middleware.WithLogging(accountHandler.ResetPassword))
	mux.HandleFunc("GET /home", middleware.WithLogging(deps.Sessions.Require(accountHandler.Home)))

	// Profiles (public)
	mux.HandleFunc("GET /users", middleware.WithLogging(userHandler.List))
	mux.HandleFunc("GET /users/{id}", middleware.WithLogging(userHandler.Get))
	mux.HandleFunc("PUT /users/{id}", middleware.WithLogging(userHandler.Update))
	mux.HandleFunc("GET /search", middleware.WithLogging(userHandler.Search))

	// Posts
	mux.HandleFunc("POST /posts", middleware.WithLogging(postHandler.Create))

	// Image upload, only with object storage
	if deps.Store != nil {
		uploadHandler := handlers.NewUploadHandler(deps.Store)
		mux.HandleFunc("POST /upload", middleware.WithLogging(deps.Sessions.Require(uploadHandler.Upload)))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vault API v1"))
	})

	return mux
}
