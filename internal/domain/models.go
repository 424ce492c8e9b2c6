package domain

import "time"

// TimestampLayout is the ISO-8601 layout used for SearchResult timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Query is a trimmed search query that passed validation.
type Query string

// String returns the query text.
func (q Query) String() string {
	return string(q)
}

// SearchResult is the unit returned to callers and stored in the cache.
type SearchResult struct {
	Result    string `json:"result"`
	Duration  int64  `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// NewSearchResult builds a result from completion text and the call's start time.
func NewSearchResult(text string, startedAt, finishedAt time.Time) *SearchResult {
	return &SearchResult{
		Result:    text,
		Duration:  finishedAt.Sub(startedAt).Milliseconds(),
		Timestamp: finishedAt.UTC().Format(TimestampLayout),
	}
}

// CacheEntry is a cached search result with the time it was stored.
type CacheEntry struct {
	Payload  SearchResult `json:"payload"`
	StoredAt time.Time    `json:"stored_at"`
}

// UpstreamRequest is the fixed-shape request sent to a completion provider.
type UpstreamRequest struct {
	Model        string
	SystemPrompt string
	Query        Query
	Temperature  float64
	MaxTokens    int
}

// Outcome is what a search produced and whether it came from the cache.
type Outcome struct {
	Result   *SearchResult
	CacheHit bool
}
