// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Identifier columns for login and password reset
const (
	ColumnUsername = "username"
	ColumnEmail    = "email"
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashCost is the bcrypt work factor. Tests lower it to bcrypt.MinCost.
var HashCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt digest of plaintext.
// Two calls with the same input return different digests.
func HashPassword(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword checks plaintext against a digest from HashPassword.
// Any mismatch, including a malformed digest, yields false.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// LookupColumn picks the users column an identifier is matched against:
// anything containing @ is an email, everything else a username.
func LookupColumn(identifier string) string {
	if strings.Contains(identifier, "@") {
		return ColumnEmail
	}
	return ColumnUsername
}
