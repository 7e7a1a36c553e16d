package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/config"
)

type LocalStore struct {
	dir     string
	maxSize int64
	allowed []string
}

func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{
		dir:     cfg.UploadDir,
		maxSize: cfg.MaxFileSize,
		allowed: cfg.AllowedTypes,
	}, nil
}

func (s *LocalStore) Write(ctx context.Context, r io.Reader, meta Metadata) (string, error) {
	if !extensionAllowed(meta.FileName, s.allowed) {
		return "", ErrTypeNotAllowed
	}
	if meta.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	key := uuid.New().String() + filepath.Ext(meta.FileName)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	// Declared size is not trusted; cap the copy at maxSize+1 so an
	// oversized stream is detected without buffering it all.
	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if n > s.maxSize {
		_ = os.Remove(path)
		return "", ErrFileTooLarge
	}

	return key, nil
}

func (s *LocalStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}
