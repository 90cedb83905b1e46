// Package blob stores uploaded binary assets (bug report screenshots).
package blob

import "context"

// Store writes binary blobs and returns a URL the stored object can be
// fetched from.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
