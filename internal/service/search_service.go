package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/josegonz115/flair-ai/internal/adapter/store"
	"github.com/josegonz115/flair-ai/internal/domain"
	"github.com/josegonz115/flair-ai/internal/index"
	"github.com/josegonz115/flair-ai/internal/port"
	"github.com/josegonz115/flair-ai/internal/similarity"
)

// SearchRequest describes one similarity search invocation.
type SearchRequest struct {
	// QueryImages are the decoded raw bytes of each query image, in order.
	// Query index positions in the result follow this slice.
	QueryImages [][]byte

	// LibraryDir is a local directory library. Ignored when UseBucket is set.
	LibraryDir string

	// Username/BoardName address a bucket library at "username/board" when
	// UseBucket is true, and name the publish destination either way.
	Username  string
	BoardName string
	UseBucket bool

	// TopK and TopN bound the per-query and best-overall rankings.
	// Non-positive values use the engine defaults (5 and 3).
	TopK int
	TopN int

	// Fusion names the cross-query score fusion strategy. Empty means mean.
	Fusion string

	// Publish uploads each best-overall match to the object store and fills
	// in its public URL. Requires Username and BoardName.
	Publish bool
}

// SearchService runs the full similarity pipeline: embed queries, rebuild the
// library index, rank, assemble, and optionally publish. The index is built
// fresh on every call; nothing is shared between invocations except the
// embedder handle.
type SearchService struct {
	embedder port.ImageEmbedder
	local    port.CollectionSource
	bucket   port.CollectionSource
	objects  port.ObjectStore
	history  *store.PostgresStore
	fusions  *port.FusionRegistry
	workers  int
}

// NewSearchService creates a search service. bucket, objects, and history may
// be nil; the corresponding request options then fail or no-op gracefully.
func NewSearchService(
	embedder port.ImageEmbedder,
	local port.CollectionSource,
	bucket port.CollectionSource,
	objects port.ObjectStore,
	history *store.PostgresStore,
	fusions *port.FusionRegistry,
	workers int,
) *SearchService {
	return &SearchService{
		embedder: embedder,
		local:    local,
		bucket:   bucket,
		objects:  objects,
		history:  history,
		fusions:  fusions,
		workers:  workers,
	}
}

// FindSimilar runs one search start to finish. It fails as a whole only for
// an empty query set, an unreachable library location, or a library with zero
// valid images; per-item extraction and publication failures degrade the
// result instead.
func (s *SearchService) FindSimilar(ctx context.Context, req SearchRequest) (*domain.SearchResult, error) {
	if len(req.QueryImages) == 0 {
		return nil, port.ErrEmptyQuerySet
	}
	started := time.Now()

	// A broken query image aborts the whole request; the caller sent it on
	// purpose, unlike a stray file in the library.
	queryVecs, err := s.embedder.EmbedImages(ctx, req.QueryImages)
	if err != nil {
		return nil, fmt.Errorf("embed query images: %w", err)
	}

	source, location, err := s.librarySource(req)
	if err != nil {
		return nil, err
	}

	lib, err := index.NewBuilder(source, s.embedder, s.workers).Build(ctx, location)
	if err != nil {
		return nil, err
	}

	fusion, err := s.fusionStrategy(req.Fusion)
	if err != nil {
		return nil, err
	}

	engine := similarity.NewEngine(req.TopK, req.TopN, fusion)
	ranked, err := engine.Search(queryVecs, lib.Entries)
	if err != nil {
		return nil, err
	}

	result := assembleResult(ranked)

	if req.Publish && s.objects != nil {
		s.publishBestMatches(ctx, source, result.BestOverall, req.Username, req.BoardName)
	}

	s.recordSearch(ctx, req, lib, result, time.Since(started))
	return result, nil
}

// librarySource picks the collection source and location for a request.
func (s *SearchService) librarySource(req SearchRequest) (port.CollectionSource, string, error) {
	if req.UseBucket {
		if s.bucket == nil {
			return nil, "", fmt.Errorf("%w: no bucket source configured", port.ErrCollectionUnavailable)
		}
		if req.Username == "" || req.BoardName == "" {
			return nil, "", fmt.Errorf("%w: bucket library needs username and board name", port.ErrCollectionUnavailable)
		}
		return s.bucket, req.Username + "/" + req.BoardName, nil
	}
	if req.LibraryDir == "" {
		return nil, "", fmt.Errorf("%w: no library location given", port.ErrCollectionUnavailable)
	}
	return s.local, req.LibraryDir, nil
}

func (s *SearchService) fusionStrategy(name string) (port.FusionStrategy, error) {
	if name == "" {
		name = "mean"
	}
	if s.fusions == nil {
		return port.MeanFusion{}, nil
	}
	return s.fusions.Get(name)
}

// assembleResult shapes the engine output into the public result structure.
// Pure assembly: ordering comes from the engine untouched, and best-overall
// individual scores are reused from the engine's score matrix rather than
// recomputed, so both views of the same pair are numerically identical.
func assembleResult(ranked *similarity.Result) *domain.SearchResult {
	perQuery := make([]domain.QueryMatches, len(ranked.PerQuery))
	for qi, matches := range ranked.PerQuery {
		ms := make([]domain.Match, len(matches))
		for i, m := range matches {
			ms[i] = domain.Match{Path: m.Path, Score: m.Score}
		}
		perQuery[qi] = domain.QueryMatches{QueryIndex: qi, Matches: ms}
	}

	best := make([]domain.BestMatch, len(ranked.Best))
	for i, b := range ranked.Best {
		individual := make(map[string]float64, len(ranked.Scores))
		for qi := range ranked.Scores {
			individual[fmt.Sprintf("query_%d", qi)] = ranked.Scores[qi][b.Position]
		}
		best[i] = domain.BestMatch{
			Path:             b.Path,
			AverageScore:     b.Score,
			IndividualScores: individual,
		}
	}

	return &domain.SearchResult{PerQuery: perQuery, BestOverall: best}
}

// publishBestMatches uploads each best match and merges the returned public
// URLs into the result. A failed upload only costs that item its URL.
func (s *SearchService) publishBestMatches(ctx context.Context, source port.CollectionSource, best []domain.BestMatch, username, boardName string) {
	for i := range best {
		data, err := source.Read(ctx, best[i].Path)
		if err != nil {
			slog.Error("publish: read match failed", "path", best[i].Path, "error", err)
			continue
		}

		dest := path.Base(best[i].Path)
		if username != "" && boardName != "" {
			dest = username + "/" + boardName + "/matches/" + dest
		}

		url, err := s.objects.Upload(ctx, dest, data, "image/jpeg")
		if err != nil {
			slog.Error("publish: upload match failed", "path", best[i].Path, "error", err)
			continue
		}
		best[i].PublicURL = url
	}
}

// recordSearch writes a history row. History is best-effort: a missing store
// or a failed insert never affects the search result.
func (s *SearchService) recordSearch(ctx context.Context, req SearchRequest, lib *index.Library, result *domain.SearchResult, elapsed time.Duration) {
	if s.history == nil {
		return
	}

	rec := &domain.SearchRecord{
		ID:              uuid.New().String(),
		QueryCount:      len(req.QueryImages),
		LibraryLocation: lib.Location,
		LibrarySize:     len(lib.Entries),
		DurationMs:      elapsed.Milliseconds(),
	}
	if len(result.BestOverall) > 0 {
		rec.BestPath = result.BestOverall[0].Path
		rec.BestScore = result.BestOverall[0].AverageScore
	}

	if err := s.history.InsertSearch(ctx, rec); err != nil {
		slog.Error("record search failed", "error", err)
	}
}

// ListSearches returns recent search history, newest first.
func (s *SearchService) ListSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListSearches(ctx, limit)
}
