// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storage uploads user images to an S3-compatible object store
// (minio-go). It is optional: NewMinioStore returns ErrNotConfigured when
// MINIO_ENDPOINT is empty and the /upload route is then not mounted.
package storage
