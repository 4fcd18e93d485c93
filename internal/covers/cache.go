// Package covers caches book cover images on local disk so that repeated
// requests do not hit OpenLibrary's image servers.
package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avelichka/bookshelf/internal/config"
)

const maxCoverBytes = 5 * 1024 * 1024

// Cache stores downloaded covers under a directory, one file per book.
type Cache struct {
	dir        string
	userAgent  string
	httpClient *http.Client
}

// NewCache creates the cache directory if needed and returns a ready cache.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cover cache dir: %w", err)
	}

	return &Cache{
		dir:       dir,
		userAgent: config.DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Get returns the local path of the cover for a book, downloading it on the
// first request. An empty coverURL yields an empty path with no error.
func (c *Cache) Get(ctx context.Context, bookID uint, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	path := filepath.Join(c.dir, c.filename(bookID, coverURL))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := c.download(ctx, coverURL, path); err != nil {
		return "", err
	}
	return path, nil
}

// Invalidate drops every cached cover for a book. Used when enrichment
// replaces the cover URL.
func (c *Cache) Invalidate(bookID uint) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("cover_%d_*", bookID)))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// filename keys the file on both book ID and URL hash so a changed cover URL
// gets a fresh file instead of serving the stale one.
func (c *Cache) filename(bookID uint, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%d_%x.jpg", bookID, hash[:8])
}

func (c *Cache) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch cover: status %d", resp.StatusCode)
	}

	// Write to a temp file in the same directory and rename, so a crashed
	// download never leaves a truncated cover behind.
	tmp, err := os.CreateTemp(c.dir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxCoverBytes)); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
