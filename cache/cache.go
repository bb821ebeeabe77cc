package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Dir is the root of the rendered-page cache.
var Dir = "cache"

// GetCachePath returns the cache file path for a blog post slug.
func GetCachePath(slug string) string {
	return filepath.Join(Dir, "posts", fmt.Sprintf("%s_%s.html", slug, generateHash(slug)[:16]))
}

func generateHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// WriteCache stores rendered HTML for slug.
func WriteCache(slug, html string) error {
	if err := os.MkdirAll(filepath.Join(Dir, "posts"), 0755); err != nil {
		return err
	}
	return os.WriteFile(GetCachePath(slug), []byte(html), 0644)
}

// ReadCache returns cached HTML for slug if present and younger than maxAge.
func ReadCache(slug string, maxAge time.Duration) (string, bool) {
	cachePath := GetCachePath(slug)

	info, err := os.Stat(cachePath)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// ClearCache removes the cached page of one or more slugs.
func ClearCache(slugs ...string) error {
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if err := os.Remove(GetCachePath(slug)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// ClearAll drops every cached page.
func ClearAll() error {
	return os.RemoveAll(filepath.Join(Dir, "posts"))
}

// ClearOldCache removes cache files older than maxAge.
func ClearOldCache(maxAge time.Duration) error {
	root := filepath.Join(Dir, "posts")
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}
		return nil
	})
}
