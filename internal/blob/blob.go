// Package blob defines the opaque media storage port. The services only
// ever carry the returned keys; they never interpret them.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound means no blob exists under the requested key.
var ErrNotFound = errors.New("blob: not found")

// Store reads and writes opaque media blobs.
type Store interface {
	// Put stores the content and returns the opaque key it can be
	// fetched back with.
	Put(ctx context.Context, content io.Reader, contentType string) (string, error)

	// Get streams a stored blob and reports its content type.
	// The caller must close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes a stored blob. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
