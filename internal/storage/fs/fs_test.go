package fs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamdiboyraz/restaurant-review/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStorage_UploadAndOpen(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	res, err := s.Upload(ctx, &storage.UploadInput{
		Key:         "abc123.jpg",
		ContentType: "image/jpeg",
		Size:        5,
		Data:        strings.NewReader("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123.jpg", res.Key)

	rc, err := s.Open(ctx, "abc123.jpg")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestStorage_UploadReplaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, &storage.UploadInput{Key: "k", Data: strings.NewReader("first")})
	require.NoError(t, err)
	_, err = s.Upload(ctx, &storage.UploadInput{Key: "k", Data: strings.NewReader("second")})
	require.NoError(t, err)

	rc, err := s.Open(ctx, "k")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStorage_OpenMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Open(context.Background(), "nope.jpg")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestStorage_Delete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, &storage.UploadInput{Key: "k", Data: strings.NewReader("x")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "k"))

	_, err = s.Open(ctx, "k")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	assert.True(t, errors.Is(s.Delete(ctx, "k"), storage.ErrNotFound))
}

func TestStorage_RejectsTraversal(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "..", "a/../../b", ""} {
		_, err := s.Upload(ctx, &storage.UploadInput{Key: key, Data: strings.NewReader("x")})
		assert.Error(t, err, "key %q", key)
	}
}
