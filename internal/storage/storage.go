// Package storage abstracts where uploaded report files live. The local
// backend writes to a directory on disk; the s3 backend targets any
// S3-compatible endpoint. Metadata persistence and blob persistence are
// separate, non-atomic steps owned by the caller.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound       = errors.New("stored file not found")
	ErrFileTooLarge   = errors.New("file exceeds maximum allowed size")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

type Metadata struct {
	FileName    string
	ContentType string
	Size        int64
}

type Store interface {
	// Write persists the blob and returns an opaque storage key.
	Write(ctx context.Context, r io.Reader, meta Metadata) (string, error)

	// Read opens the blob for streaming. The caller closes it.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Returns ErrNotFound if it is already gone.
	Delete(ctx context.Context, key string) error
}

func extensionAllowed(fileName string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
