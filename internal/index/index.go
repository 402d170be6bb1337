// Package index builds the in-memory library index a search runs against.
// The index is rebuilt from scratch on every invocation; there is no caching
// of vectors between requests. That keeps results consistent with whatever is
// at the collection location right now, at the cost of re-embedding the whole
// library each call.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/josegonz115/flair-ai/internal/domain"
	"github.com/josegonz115/flair-ai/internal/port"
)

// DefaultWorkers bounds concurrent extraction goroutines.
const DefaultWorkers = 8

// Library is an immutable snapshot of one collection's embedded entries.
// Entry order follows the source's enumeration order exactly; ranking
// tie-breaks depend on it.
type Library struct {
	Location string
	Entries  []domain.LibraryEntry
}

// Builder extracts features for every image in a collection.
type Builder struct {
	source   port.CollectionSource
	embedder port.ImageEmbedder
	workers  int
}

// NewBuilder creates a builder. workers <= 0 falls back to DefaultWorkers.
func NewBuilder(source port.CollectionSource, embedder port.ImageEmbedder, workers int) *Builder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Builder{source: source, embedder: embedder, workers: workers}
}

// Build enumerates the collection at location and embeds every item. Items
// that fail to read or embed are skipped with a log line; a single bad image
// never aborts indexing. Extraction runs in parallel but entries are
// materialized by enumeration slot, so the resulting order is deterministic.
// Zero surviving entries is an error, not an empty index.
func (b *Builder) Build(ctx context.Context, location string) (*Library, error) {
	ids, err := b.source.List(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("list collection %q: %w", location, err)
	}

	slots := make([]*domain.LibraryEntry, len(ids))

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.workers)
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			data, err := b.source.Read(ctx, id)
			if err != nil {
				slog.Warn("skipping unreadable library image", "path", id, "error", err)
				return
			}
			vec, err := b.embedder.EmbedImage(ctx, data)
			if err != nil {
				slog.Warn("skipping library image", "path", id, "error", err)
				return
			}
			slots[slot] = &domain.LibraryEntry{Path: id, Vector: vec}
		}(i, id)
	}
	wg.Wait()

	entries := make([]domain.LibraryEntry, 0, len(ids))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	if len(entries) == 0 {
		return nil, port.ErrEmptyLibrary
	}

	slog.Info("library indexed", "location", location, "entries", len(entries), "skipped", len(ids)-len(entries))
	return &Library{Location: location, Entries: entries}, nil
}
