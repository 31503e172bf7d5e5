package services

import (
	"context"
	"time"

	"github.com/gcbaptista/go-school-search/model"
)

// HitResult is a ranked school together with the score that placed it.
type HitResult struct {
	School   model.School `json:"school"`
	Score    int          `json:"score"`
	Position uint32       `json:"position"`
}

// SearchResult is the outcome of a single query. Schools holds at most TopK
// records, best first; Hits carries the same records with their scores.
type SearchResult struct {
	Schools    []model.School `json:"schools"`
	Hits       []HitResult    `json:"-"`
	Candidates int            `json:"candidates"`
	Elapsed    time.Duration  `json:"-"`
	QueryId    string         `json:"query_id"` // unique UUID for this search query
}

// ElapsedSeconds returns the measured query time in seconds.
func (r SearchResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// IndexStats describes a built index.
type IndexStats struct {
	Built         bool          `json:"built"`
	Records       int           `json:"records"`
	Terms         int           `json:"terms"`
	BuildDuration time.Duration `json:"build_duration_ns"`
	BuiltAt       time.Time     `json:"built_at,omitempty"`
}

// Searcher defines operations for querying the school index
type Searcher interface {
	Search(ctx context.Context, query string) (SearchResult, error)
	Stats() IndexStats
	// Built reports whether a complete index is available to search.
	Built() bool
}
