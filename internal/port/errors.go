package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrExtraction marks a single undecodable or unembeddable image. It is
	// recovered per item during indexing and fatal for a query image.
	ErrExtraction = errors.New("feature extraction failed")

	// ErrEmptyQuerySet is returned when a search is invoked with zero query
	// images. Aggregation divides by the query count, so this is rejected up
	// front rather than surfacing as NaN scores.
	ErrEmptyQuerySet = errors.New("no query images supplied")

	// ErrEmptyLibrary is returned when zero library images survive
	// extraction. An empty index is a failed request, not an empty result.
	ErrEmptyLibrary = errors.New("no valid images found in library")

	// ErrCollectionUnavailable is returned when the library location itself
	// cannot be reached or enumerated.
	ErrCollectionUnavailable = errors.New("collection unavailable")

	// ErrFusionNotFound is returned for an unregistered fusion strategy name.
	ErrFusionNotFound = errors.New("fusion strategy not found")
)
