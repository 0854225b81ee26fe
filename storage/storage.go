// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/danielhkuo/vault/cliparse"
)

// MaxImageBytes caps a single uploaded image
const MaxImageBytes = 10 << 20

var ErrNotConfigured = errors.New("object storage not configured")

// ObjectStore saves uploaded files and returns a URL clients can fetch
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// MinioStore writes objects into one bucket of an S3-compatible server
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore builds a client from the MINIO_* settings.
// No network traffic happens until the first call.
func NewMinioStore(cfg cliparse.Config) (*MinioStore, error) {
	if !cfg.UploadsEnabled() {
		return nil, ErrNotConfigured
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.MinioEndpoint
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if the server does not have it yet
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return s.URL(name), nil
}

// URL is where a stored object can be fetched from
func (s *MinioStore) URL(name string) string {
	return s.publicURL + "/" + s.bucket + "/" + name
}

// ObjectName returns a fresh random name that keeps the upload's extension
func ObjectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
