package port

// FusionStrategy defines a pluggable policy for fusing one library entry's
// per-query similarity scores into a single aggregate score (Strategy
// Pattern). The engine guarantees scores is never empty.
type FusionStrategy interface {
	// Name returns the unique name of this strategy (e.g. "mean", "max").
	Name() string

	// Fuse collapses the per-query scores into one aggregate value.
	Fuse(scores []float64) float64
}

// MeanFusion averages scores across queries. This is the default policy and
// the observable behavior of the search surface.
type MeanFusion struct{}

func (MeanFusion) Name() string { return "mean" }

func (MeanFusion) Fuse(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// MaxFusion keeps the single best per-query score.
type MaxFusion struct{}

func (MaxFusion) Name() string { return "max" }

func (MaxFusion) Fuse(scores []float64) float64 {
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	return best
}

// WeightedFusion computes a weighted average with one weight per query.
// Scores beyond the configured weights fall back to weight 1.
type WeightedFusion struct {
	Weights []float64
}

func (WeightedFusion) Name() string { return "weighted" }

func (w WeightedFusion) Fuse(scores []float64) float64 {
	var sum, totalWeight float64
	for i, s := range scores {
		weight := 1.0
		if i < len(w.Weights) {
			weight = w.Weights[i]
		}
		sum += s * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

// FusionRegistry holds the registered fusion strategies by name.
type FusionRegistry struct {
	strategies map[string]FusionStrategy
}

// NewFusionRegistry creates a registry with the given strategies.
func NewFusionRegistry(strategies ...FusionStrategy) *FusionRegistry {
	m := make(map[string]FusionStrategy, len(strategies))
	for _, s := range strategies {
		m[s.Name()] = s
	}
	return &FusionRegistry{strategies: m}
}

// Get returns the named strategy.
func (r *FusionRegistry) Get(name string) (FusionStrategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, ErrFusionNotFound
	}
	return s, nil
}

// Available returns the names of all registered strategies.
func (r *FusionRegistry) Available() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	return names
}
