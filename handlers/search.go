// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search handles GET /search?q=. Usernames containing q are returned in
// username order, at most models.SearchLimit of them. Case folding follows
// the database's LIKE, but its wildcards in q match literally.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		databaseError(w, "failed to acquire connection", err)
		return
	}
	defer conn.Close()

	rows, err := conn.QueryContext(r.Context(), `
		SELECT username FROM users
		WHERE username LIKE ? ESCAPE '\'
		ORDER BY username
		LIMIT ?
	`, "%"+likeEscaper.Replace(q)+"%", models.SearchLimit)
	if err != nil {
		databaseError(w, "failed to search users", err)
		return
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(&res.Username); err != nil {
			databaseError(w, "failed to scan search result", err)
			return
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		databaseError(w, "failed to iterate search results", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
