package domain

// Match is a single library image ranked against one query image.
type Match struct {
	Path  string  `json:"path"`
	Score float64 `json:"similarity_score"`
}

// QueryMatches holds the top-k matches for one query image. QueryIndex is the
// 0-based position of the query in the request and is stable across the whole
// result structure.
type QueryMatches struct {
	QueryIndex int     `json:"query_image_index"`
	Matches    []Match `json:"matches"`
}

// BestMatch is one of the top-N library images ranked by average similarity
// across every query image. IndividualScores maps "query_0", "query_1", ... to
// that query's own similarity against this image.
type BestMatch struct {
	Path             string             `json:"path"`
	AverageScore     float64            `json:"average_similarity_score"`
	IndividualScores map[string]float64 `json:"individual_scores"`
	PublicURL        string             `json:"public_url,omitempty"`
}

// SearchResult is the full output of a similarity search.
type SearchResult struct {
	PerQuery    []QueryMatches `json:"results"`
	BestOverall []BestMatch    `json:"best_overall_matches"`
}
