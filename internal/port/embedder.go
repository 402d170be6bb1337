package port

import "context"

// ImageEmbedder abstracts the pretrained feature extractor. Implementations
// can target any inference backend that turns an image into a fixed-length
// embedding vector; the core treats it as a deterministic black box
// (same image bytes, same vector).
type ImageEmbedder interface {
	// ModelName returns the identifier of the embedding model being used.
	ModelName() string

	// Dimension returns the length of the vectors this embedder produces.
	Dimension() int

	// EmbedImage generates the embedding vector for a single image.
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)

	// EmbedImages generates embeddings for multiple images in one call.
	EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error)
}
