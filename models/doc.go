// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON. Each carries validate tags that
middleware.ParseJSONBody enforces before a handler sees the value:

  - LoginRequest: username (or email), password
  - RegisterRequest: firstName, lastName, email, username, password, confirmedPassword
  - UpdateUserRequest: username, email, profile_pic?, bio?
  - CreatePostRequest: user_id, content, image_url?
  - ResetPasswordRequest: email_or_username, new_password, confirmed_password

The camelCase registration fields and snake_case elsewhere are part of the
wire contract.

# Response Types

  - MessageResponse: message
  - StatusResponse: status ("success" or "failure"), message
  - CreatePostResponse: message, post_id
  - SearchResult: username
  - UploadResponse: message, url
  - ErrorResponse: error, message

# Domain Types

  - User: account row; the password digest is tagged json:"-"
  - Post: post row
  - Follow: follow edge
*/
package models
