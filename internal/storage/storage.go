// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the interface for writing and removing media objects.
type ObjectStore interface {
	// Put streams exactly size bytes to the store under the given key and
	// returns the public URL of the stored object. Either the URL is
	// returned or no object is observable under the key.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Remove deletes the object identified by its public URL. Removal is
	// always a cleanup step: failures are logged by the implementation and
	// never surfaced, so a failed removal cannot abort the caller's
	// broader operation.
	Remove(ctx context.Context, fileURL string)
}
