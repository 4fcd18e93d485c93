package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covers")

	cache, err := NewCache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cache.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetEmptyURL(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	path, err := cache.Get(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestGetDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg bytes"))
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	first, err := cache.Get(context.Background(), 7, server.URL+"/cover.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	second, err := cache.Get(context.Background(), 7, server.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetDistinctURLsGetDistinctFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	old, err := cache.Get(context.Background(), 3, server.URL+"/old.jpg")
	require.NoError(t, err)
	updated, err := cache.Get(context.Background(), 3, server.URL+"/new.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, old, updated)
}

func TestGetUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), 1, server.URL+"/missing.jpg")
	assert.Error(t, err)
}

func TestInvalidateRemovesAllVariants(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("img"))
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	path1, err := cache.Get(context.Background(), 5, server.URL+"/a.jpg")
	require.NoError(t, err)
	path2, err := cache.Get(context.Background(), 5, server.URL+"/b.jpg")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(5))

	_, err = os.Stat(path1)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path2)
	assert.True(t, os.IsNotExist(err))
}
