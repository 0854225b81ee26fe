// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vault/models"
	"github.com/danielhkuo/vault/testutil"
)

func TestCreatePost(t *testing.T) {
	d := testutil.SetupTestDB(t)
	handler := NewPostHandler(d)
	aliceID := testutil.CreateTestUser(t, d, "alice", "alice@x.io", "pw1")

	img := "https://cdn.example.com/vault/p.png"

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"text post", models.CreatePostRequest{UserID: aliceID, Content: "hello"}, http.StatusCreated},
		{"with image", models.CreatePostRequest{UserID: aliceID, Content: "look", ImageURL: &img}, http.StatusCreated},
		{"unknown user", models.CreatePostRequest{UserID: 999, Content: "orphan"}, http.StatusNotFound},
		{"missing content", map[string]interface{}{"user_id": aliceID}, http.StatusBadRequest},
		{"missing user", map[string]interface{}{"content": "x"}, http.StatusBadRequest},
		{"user_id wrong type", map[string]interface{}{"user_id": "alice", "content": "x"}, http.StatusBadRequest},
	}

	var lastID int64
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Create(w, testutil.MakeRequest("POST", "/posts", tt.body, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)

			switch tt.expectedStatus {
			case http.StatusCreated:
				var resp models.CreatePostResponse
				testutil.AssertJSON(t, w, &resp)
				assert.Equal(t, "Post created!", resp.Message)
				assert.Greater(t, resp.PostID, lastID)
				lastID = resp.PostID
			case http.StatusNotFound:
				assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
			}
		})
	}

	assert.Equal(t, 2, testutil.CountRows(t, d, "posts"))

	var stored *string
	require.NoError(t, d.QueryRowContext(context.Background(),
		"SELECT image_url FROM posts WHERE post_id = ?", lastID).Scan(&stored))
	require.NotNil(t, stored)
	assert.Equal(t, img, *stored)
}

func TestCreatePost_CascadeOnUserDelete(t *testing.T) {
	d := testutil.SetupTestDB(t)
	handler := NewPostHandler(d)
	aliceID := testutil.CreateTestUser(t, d, "alice", "alice@x.io", "pw1")

	w := httptest.NewRecorder()
	handler.Create(w, testutil.MakeRequest("POST", "/posts", models.CreatePostRequest{UserID: aliceID, Content: "hello"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	_, err := d.ExecContext(context.Background(), "DELETE FROM users WHERE user_id = ?", aliceID)
	require.NoError(t, err)

	assert.Equal(t, 0, testutil.CountRows(t, d, "posts"))
}
