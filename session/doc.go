// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements server-side login sessions.

# Stores

A Store keeps session records keyed by a random UUID:

  - SQLStore: the sessions table in the main database (default)
  - RedisStore: one key per session, expiring through the Redis TTL

Every successful Touch moves the expiry a full TTL into the future, so a
session ends only after the client has been idle for the whole window.

# Cookies

Manager issues the "session" cookie. Its value is an HS256 JWT whose jti is
the session ID and whose sub is the username, signed with SESSION_SECRET:

	mgr := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookie)
	sess, err := mgr.Start(ctx, w, "alice")

The cookie is HttpOnly with SameSite=Lax. A cookie that fails signature or
expiry checks, or that names a session the store no longer holds, is
treated as absent.

# Protected Routes

Require wraps a handler and answers 401 {"status":"failure","message":"Not logged in."}
when there is no live session. Inside the handler the username is available:

	username, _ := session.Username(r.Context())

# Cleanup

Sweeper runs Store.Purge on a cron schedule (robfig/cron) so expired rows do
not accumulate in the SQL store.
*/
package session
