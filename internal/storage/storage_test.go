package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/domain/core"
	"sheetlens/internal/config"
)

func newStore(t *testing.T, max int64) *LocalFileStorage {
	t.Helper()
	return NewLocalFileStorage(config.StorageConfig{
		UploadDir:   filepath.Join(t.TempDir(), "uploads"),
		MaxFileSize: max,
	})
}

func TestStoreAndOpen(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 1024)

	path, err := s.Store(ctx, strings.NewReader("a,b\n1,2\n"), "../Sales Q1.CSV")
	require.NoError(t, err)
	assert.Equal(t, s.basePath, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Sales Q1_"))
	assert.Equal(t, ".csv", filepath.Ext(path))

	ok, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Open(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path))
	ok, err = s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 1024)

	p1, err := s.Store(ctx, strings.NewReader("x\n1\n"), "data.csv")
	require.NoError(t, err)
	p2, err := s.Store(ctx, strings.NewReader("x\n1\n"), "data.csv")
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestStoreRejects(t *testing.T) {
	ctx := context.Background()

	_, err := newStore(t, 1024).Store(ctx, strings.NewReader("hello"), "notes.txt")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	s := newStore(t, 4)
	_, err = s.Store(ctx, strings.NewReader("a,b\n1,2\n"), "big.csv")
	assert.ErrorIs(t, err, core.ErrFileTooLarge)
	assert.True(t, core.IsInputError(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = newStore(t, 1024).Store(cancelled, strings.NewReader("a\n1\n"), "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}
