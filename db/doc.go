// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the relational store and creates its schema.

# Connections

Open returns a *DB for either SQLite (modernc.org/sqlite, the default) or
PostgreSQL (lib/pq):

	conn, err := db.Open(db.SQLite, "vault_database.db", 10*time.Second)

SQLite connections enforce foreign keys and wait up to the busy timeout on
a locked file. Idle connections are not kept; handlers take one connection
per request and close it before returning:

	c, err := h.db.Acquire(r.Context())
	if err != nil { ... }
	defer c.Close()

All queries use ? placeholders. Rebind rewrites them to $N for PostgreSQL,
so the same statement text works on both dialects.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: Accounts (unique username and email, bcrypt password)
  - posts: Text posts with an optional image URL
  - followers: Follow edges (composite primary key)
  - sessions: Server-side login sessions

# Relationships

	users 1──* posts
	users *──* users (via followers)

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

IsUniqueViolation and IsForeignKeyViolation classify driver errors for both
dialects, so handlers can answer 409 or 404 without driver imports.
*/
package db
