// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Outcome values for StatusResponse
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// SearchLimit caps the number of usernames returned by /search
const SearchLimit = 7

// Request types

// Username may hold an email; see auth.LookupColumn
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FirstName         string `json:"firstName" validate:"required"`
	LastName          string `json:"lastName" validate:"required"`
	Email             string `json:"email" validate:"required"`
	Username          string `json:"username" validate:"required"`
	Password          string `json:"password" validate:"required,max=72"`
	ConfirmedPassword string `json:"confirmedPassword" validate:"required"`
}

type UpdateUserRequest struct {
	Username   string  `json:"username" validate:"required"`
	Email      string  `json:"email" validate:"required"`
	ProfilePic *string `json:"profile_pic"`
	Bio        *string `json:"bio"`
}

type CreatePostRequest struct {
	UserID   int64   `json:"user_id" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"image_url"`
}

type ResetPasswordRequest struct {
	EmailOrUsername   string `json:"email_or_username" validate:"required"`
	NewPassword       string `json:"new_password" validate:"required,max=72"`
	ConfirmedPassword string `json:"confirmed_password" validate:"required"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CreatePostResponse struct {
	Message string `json:"message"`
	PostID  int64  `json:"post_id"`
}

type SearchResult struct {
	Username string `json:"username"`
}

type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Domain types

type User struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	ProfilePic   *string   `json:"profile_pic"`
	Bio          *string   `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Post struct {
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Follow is a directed edge: FollowerID follows FollowedID
type Follow struct {
	FollowerID int64     `json:"follower_id"`
	FollowedID int64     `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
