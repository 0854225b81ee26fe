// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnv pulls a local .env file into the environment, then ParseFlags
returns a Config struct with all settings:

	_ = cliparse.LoadEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: SQLite file or PostgreSQL URL (default: vault_database.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - BusyTimeout: Lock wait before a statement fails (default: 10s)
  - SessionSecret: Cookie signing secret (required)
  - SessionTTL: Idle lifetime of a session (default: 30m)
  - SessionBackend: sql or redis (default: sql)
  - SessionSweep: Cron schedule for purging expired sessions (default: @every 10m)

# CLI Flags

	-p                Server port
	-d                Database file or URL
	-t                Database type
	-busy-timeout     SQLite busy timeout
	-session-secret   Cookie signing secret
	-session-ttl      Session idle lifetime
	-session-backend  sql or redis
	-sweep            Expired session cleanup schedule
	-secure-cookie    Mark the cookie Secure
	-redis-addr       Redis address

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	DB_BUSY_TIMEOUT → -busy-timeout
	SESSION_SECRET  → -session-secret
	SESSION_TTL     → -session-ttl
	SESSION_BACKEND → -session-backend
	SESSION_SWEEP   → -sweep
	SECURE_COOKIE   → -secure-cookie
	REDIS_ADDR      → -redis-addr

Image uploads (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY,
MINIO_BUCKET, MINIO_USE_SSL, MINIO_PUBLIC_URL) and password-change mail
(SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM) are
configured through the environment only and stay disabled when their host
is empty.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - SESSION_SECRET is missing
  - the database type or session backend is unknown
  - a duration or the port does not parse
  - SMTP_HOST is set without SMTP_FROM
*/
package cliparse
