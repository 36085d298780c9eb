package search

import "snooze/internal/storage"

// Result is one search hit over the cached feed.
type Result struct {
	Story *storage.CachedStory
	Score float64
}

// Searcher defines the minimal search API used by the TUI and CLI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener can be implemented by search engines that maintain an
// external index and want to be notified when a new feed snapshot lands.
type UpdateListener interface {
	OnFeedUpdated(stories []storage.CachedStory)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}
