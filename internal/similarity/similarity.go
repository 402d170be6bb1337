// Package similarity implements cosine similarity ranking of query vectors
// against an indexed image library, with cross-query score fusion.
package similarity

import (
	"math"
	"sort"

	"github.com/josegonz115/flair-ai/internal/domain"
	"github.com/josegonz115/flair-ai/internal/port"
)

// Default ranking cutoffs.
const (
	DefaultTopK = 5
	DefaultTopN = 3
)

// Ranked is one library entry with its score for a particular ranking.
// Position is the entry's index in the library and breaks score ties:
// equal scores rank by ascending position, so the first-enumerated entry wins.
type Ranked struct {
	Position int
	Path     string
	Score    float64
}

// Result holds everything a search produced. Scores is the full similarity
// matrix, Scores[q][i] being query q against library entry i; the aggregator
// reuses it instead of recomputing individual scores for best-overall output.
type Result struct {
	PerQuery [][]Ranked
	Best     []Ranked
	Scores   [][]float64
}

// Engine ranks queries against a library index. K bounds the per-query match
// list, nBest the fused best-overall list.
type Engine struct {
	k      int
	nBest  int
	fusion port.FusionStrategy
}

// NewEngine creates an engine with the given cutoffs and fusion strategy.
// Non-positive cutoffs fall back to the defaults; a nil fusion falls back to
// the mean.
func NewEngine(k, nBest int, fusion port.FusionStrategy) *Engine {
	if k <= 0 {
		k = DefaultTopK
	}
	if nBest <= 0 {
		nBest = DefaultTopN
	}
	if fusion == nil {
		fusion = port.MeanFusion{}
	}
	return &Engine{k: k, nBest: nBest, fusion: fusion}
}

// Search scores every query vector against every library entry and returns
// per-query top-k rankings plus the fused best-overall ranking.
func (e *Engine) Search(queries [][]float32, entries []domain.LibraryEntry) (*Result, error) {
	if len(queries) == 0 {
		return nil, port.ErrEmptyQuerySet
	}
	if len(entries) == 0 {
		return nil, port.ErrEmptyLibrary
	}

	scores := make([][]float64, len(queries))
	perQuery := make([][]Ranked, len(queries))
	for qi, q := range queries {
		row := make([]float64, len(entries))
		for i, entry := range entries {
			row[i] = Cosine(q, entry.Vector)
		}
		scores[qi] = row
		perQuery[qi] = rankTop(row, entries, e.k)
	}

	// Fuse each entry's scores across all queries.
	agg := make([]float64, len(entries))
	entryScores := make([]float64, len(queries))
	for i := range entries {
		for qi := range queries {
			entryScores[qi] = scores[qi][i]
		}
		agg[i] = e.fusion.Fuse(entryScores)
	}

	return &Result{
		PerQuery: perQuery,
		Best:     rankTop(agg, entries, e.nBest),
		Scores:   scores,
	}, nil
}

// rankTop sorts entries by score descending, position ascending on ties, and
// returns the first k.
func rankTop(row []float64, entries []domain.LibraryEntry, k int) []Ranked {
	ranked := make([]Ranked, len(entries))
	for i, entry := range entries {
		ranked[i] = Ranked{Position: i, Path: entry.Path, Score: row[i]}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Position < ranked[j].Position
	})
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// Cosine computes the cosine similarity between two vectors, accumulating in
// float64. A zero-magnitude vector or a dimension mismatch yields 0, never
// NaN.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
