package domain

import "time"

// SearchRecord is one completed similarity search, persisted for history.
type SearchRecord struct {
	ID              string    `json:"id"              db:"id"`
	QueryCount      int       `json:"query_count"     db:"query_count"`
	LibraryLocation string    `json:"library_location" db:"library_location"`
	LibrarySize     int       `json:"library_size"    db:"library_size"`
	BestPath        string    `json:"best_path"       db:"best_path"`
	BestScore       float64   `json:"best_score"      db:"best_score"`
	DurationMs      int64     `json:"duration_ms"     db:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"      db:"created_at"`
}
