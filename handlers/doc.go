// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Vault API.

# Handler Types

Each handler is a struct holding the services it needs:

  - SystemHandler: Schema initialization and health
  - AccountHandler: Registration, login, the session greeting, password reset
  - UserHandler: Profile listing, lookup, edits and username search
  - PostHandler: Post creation
  - UploadHandler: Image upload to object storage

Handlers are created via constructor functions:

	accounts := handlers.NewAccountHandler(conn, sessions, notifier)

# Connections

Every database-backed handler acquires one connection for the request and
closes it before returning. Each handler runs at most one mutating
statement, so there are no multi-statement transactions.

# Accounts

	POST /register       → Register (201, or 409 / 401)
	POST /login          → Login (200 + session cookie, or 401)
	GET  /home           → Home (behind session.Manager.Require)
	POST /reset-password → ResetPassword (400 mismatch, 404 unknown user)

Login and reset accept either a username or an email; anything containing
@ is looked up as an email. Login failures never reveal whether the account
exists.

# Response Shapes

Account routes answer {"status","message"}. Missing users on /users/{id}
and /posts answer {"error":"User not found"}. Validation and storage
failures use {"error","message"} from middleware.ErrorResponse.
*/
package handlers
