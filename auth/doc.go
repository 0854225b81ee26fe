// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the credential boundary around plaintext passwords.

# Hashing

Passwords are hashed with bcrypt before they reach the database:

	digest, err := auth.HashPassword(plaintext)

The digest embeds its own salt, so hashing the same password twice yields
two different strings. Inputs longer than 72 bytes are rejected with
ErrPasswordTooLong rather than silently truncated.

# Verification

	if !auth.VerifyPassword(plaintext, digest) {
		// 401
	}

VerifyPassword never returns an error; a malformed digest is a mismatch.

# Identifiers

Login and password reset accept either a username or an email in one field:

	column := auth.LookupColumn(identifier) // "email" if it contains @
*/
package auth
