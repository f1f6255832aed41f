package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ensure LocalStore implements Store
var _ Store = (*LocalStore)(nil)

// LocalStore keeps blobs as files in a single directory. Development
// default; production deployments use the S3 store.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns a store over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// extByType maps the content types accepted for media to file extensions.
var extByType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"application/pdf": ".pdf",
}

// Put writes the content under a generated key. Keys embed a timestamp and
// a UUID so they never collide and sort roughly by upload time.
func (s *LocalStore) Put(ctx context.Context, content io.Reader, contentType string) (string, error) {
	ext := extByType[contentType]
	if ext == "" {
		exts, _ := mime.ExtensionsByType(contentType)
		if len(exts) > 0 {
			ext = exts[0]
		}
	}

	key := time.Now().UTC().Format("20060102T150405") + "_" + uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return key, nil
}

// Get opens the blob file for the key.
func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	// Keys are generated by Put; reject anything path-like.
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return nil, "", ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open blob: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return f, contentType, nil
}

// Delete removes the blob file if present.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
