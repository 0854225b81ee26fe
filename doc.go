// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Vault API server.

Vault is a small social backend: accounts with bcrypt passwords and
server-side sessions, public profiles, posts, username search and password
reset, stored in SQLite or PostgreSQL.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SESSION_SECRET=change-me go run .

Or with flags:

	go run . -p 5000 -d vault_database.db -session-secret change-me

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - SESSION_SECRET (-session-secret): Key that signs the session cookie

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_URL (-d): SQLite file or PostgreSQL URL (default: vault_database.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DB_BUSY_TIMEOUT (-busy-timeout): Lock wait for SQLite (default: 10s)
  - SESSION_TTL (-session-ttl): Idle session lifetime (default: 30m)
  - SESSION_BACKEND (-session-backend): sql or redis (default: sql)
  - REDIS_ADDR (-redis-addr): Redis address for the redis backend
  - SESSION_SWEEP (-sweep): Cron schedule for expired session cleanup
  - SECURE_COOKIE (-secure-cookie): Send the cookie over HTTPS only
  - MINIO_*: Object storage for /upload (disabled when MINIO_ENDPOINT is empty)
  - SMTP_*: Mail relay for password notices (disabled when SMTP_HOST is empty)
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, users, posts, uploads)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, request validation
  - models: Request/response types
  - auth: Password hashing and identifier rules
  - session: Session stores, signed cookies and cleanup
  - db: Connections, schema creation and constraint errors
  - storage: Optional MinIO image uploads
  - notify: Optional e-mail notices
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
