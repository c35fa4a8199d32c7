package blobstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutFetchDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte("jpeg-bytes")
	var calls []int64
	loc, err := s.Put(ctx, "u1/a.jpeg", bytes.NewReader(payload), int64(len(payload)), func(sent, total int64) {
		assert.Equal(t, int64(len(payload)), total)
		calls = append(calls, sent)
	})
	require.NoError(t, err)
	require.NotEmpty(t, calls)
	assert.Equal(t, int64(len(payload)), calls[len(calls)-1])
	assert.True(t, strings.HasPrefix(loc, "file://"), loc)

	key, err := s.KeyFromLocator(loc)
	require.NoError(t, err)
	assert.Equal(t, "u1/a.jpeg", key)

	var out bytes.Buffer
	require.NoError(t, s.Fetch(ctx, key, &out))
	assert.Equal(t, payload, out.Bytes())

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "missing blob is ignored")
	assert.Error(t, s.Fetch(ctx, key, &out))
}

func TestLocalStore_ShortWriteLeavesNothing(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "u1/b.jpeg", strings.NewReader("abc"), 10, nil)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "u1", "b.jpeg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/abs", "../escape", "a/../../b"} {
		_, err := s.Put(ctx, key, strings.NewReader("x"), 1, nil)
		assert.Error(t, err, key)
	}
}

func TestLocalStore_KeyFromLocator_Foreign(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.KeyFromLocator("http://127.0.0.1:9000/bucket/u1/a.jpeg")
	assert.ErrorIs(t, err, common.ErrInvalidLocator)
}

func TestNewLocalStore_EmptyRoot(t *testing.T) {
	_, err := NewLocalStore("  ")
	assert.Error(t, err)
}

func TestLocalStore_CancelledContext(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Put(ctx, "u1/c.jpeg", strings.NewReader("x"), 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
