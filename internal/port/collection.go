package port

import "context"

// CollectionSource abstracts a library of candidate images at some location
// (a local directory, a storage bucket prefix). Implementations must
// enumerate in a deterministic order: entry positions in the built index are
// the tie-break rule during ranking.
type CollectionSource interface {
	// List returns the stable identifiers of every eligible image at
	// location, in deterministic enumeration order. An unreachable location
	// returns an error wrapping ErrCollectionUnavailable.
	List(ctx context.Context, location string) ([]string, error)

	// Read returns the raw bytes of one listed item.
	Read(ctx context.Context, id string) ([]byte, error)
}
