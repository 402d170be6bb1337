package domain

// LibraryEntry is one indexed reference image: its stable identifier and its
// embedding vector. Vectors are never mutated after extraction, and every
// vector in one index has the same dimensionality.
type LibraryEntry struct {
	Path   string
	Vector []float32
}
