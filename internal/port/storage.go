package port

import "context"

// ObjectStore abstracts the external persistence service that matched images
// are published to. Bucket layout, overwrite policy, and auth belong to the
// implementation; the core only needs a public reference back per object.
type ObjectStore interface {
	// Upload stores data under path and returns its public URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
