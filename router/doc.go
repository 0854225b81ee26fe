// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers.

NewRouter builds a Go 1.22 ServeMux with method-qualified patterns:

	mux := router.NewRouter(router.Deps{DB: conn, Config: cfg, Sessions: mgr, Notifier: n, Store: store})

# Routes

	GET  /health           liveness (plain "OK")
	GET  /init             create missing tables
	POST /register         create an account
	POST /login            check credentials, set the session cookie
	POST /reset-password   set a new password
	GET  /home             greeting (session required)
	GET  /users            list accounts
	GET  /users/{id}       one account
	PUT  /users/{id}       edit profile fields
	GET  /search?q=        username substring search
	POST /posts            create a post
	POST /upload           store an image (session required, object storage only)

Every route except /health is wrapped in middleware.WithLogging. The
caller adds middleware.CORS around the returned mux.
*/
package router
