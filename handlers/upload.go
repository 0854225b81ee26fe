// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/vault/middleware"
	"github.com/danielhkuo/vault/models"
	"github.com/danielhkuo/vault/storage"
)

// Room for multipart boundaries and headers around the image itself
const multipartOverhead = 1 << 20

type UploadHandler struct {
	store storage.ObjectStore
}

func NewUploadHandler(store storage.ObjectStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload handles POST /upload with the file in the "image" form field.
// The returned URL can be used as a profile_pic or image_url.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tooLarge := "image exceeds " + humanize.IBytes(storage.MaxImageBytes)

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, tooLarge)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageBytes {
		middleware.ErrorResponse(w, http.StatusBadRequest, tooLarge)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := storage.ObjectName(header.Filename)
	url, err := h.store.Put(r.Context(), name, file, header.Size, contentType)
	if err != nil {
		slog.Error("failed to store upload", "object", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	slog.Info("image uploaded", "object", name, "size", humanize.IBytes(uint64(header.Size)))

	middleware.JSONResponse(w, http.StatusOK, models.UploadResponse{
		Message: "Upload Success",
		URL:     url,
	})
}
