// Package storage keeps uploaded spreadsheets on local disk until the engine
// has parsed them.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sheetlens/adapters/excel"
	"sheetlens/domain/core"
	"sheetlens/internal/config"
	"sheetlens/internal/errors"
)

// FileStorage defines the operations the upload handlers need
type FileStorage interface {
	Store(ctx context.Context, src io.Reader, filename string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// chunkSize is the copy buffer used when streaming an upload to disk
const chunkSize = 1024 * 1024

// LocalFileStorage implements FileStorage on the local filesystem
type LocalFileStorage struct {
	basePath    string
	maxFileSize int64
}

// NewLocalFileStorage creates a store rooted at cfg.UploadDir
func NewLocalFileStorage(cfg config.StorageConfig) *LocalFileStorage {
	return &LocalFileStorage{basePath: cfg.UploadDir, maxFileSize: cfg.MaxFileSize}
}

// Store copies src to a uniquely named file and returns its path. Only
// .xlsx and .csv names are accepted, and uploads larger than the configured
// limit are discarded.
func (s *LocalFileStorage) Store(ctx context.Context, src io.Reader, filename string) (string, error) {
	if _, ok := excel.DetectFormat(filename); !ok {
		return "", errors.WithStack(fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Base(filename)))
	}
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "failed to create storage directory")
	}

	path := filepath.Join(s.basePath, uniqueName(filename))
	dest, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "failed to create destination file")
	}
	defer dest.Close()

	limit := src
	if s.maxFileSize > 0 {
		limit = io.LimitReader(src, s.maxFileSize+1)
	}
	n, err := io.CopyBuffer(dest, limit, make([]byte, chunkSize))
	if err != nil {
		os.Remove(path)
		return "", errors.Wrap(errors.CodeInternal, err, "failed to copy file contents")
	}
	if s.maxFileSize > 0 && n > s.maxFileSize {
		os.Remove(path)
		return "", errors.WithStack(fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, s.maxFileSize))
	}
	return path, nil
}

// uniqueName keeps the original base name and extension and appends a
// time-ordered ID, so stored uploads list in arrival order
func uniqueName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", stem, core.NewID().Compact(), strings.ToLower(ext))
}

// Open returns a reader for a stored file
func (s *LocalFileStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "failed to open file")
	}
	return f, nil
}

// Delete removes a stored file; a file that is already gone is not an error
func (s *LocalFileStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.CodeInternal, err, "failed to delete file")
	}
	return nil
}

// Exists checks if a file exists in storage
func (s *LocalFileStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.CodeInternal, err, "failed to check file existence")
	}
	return true, nil
}
