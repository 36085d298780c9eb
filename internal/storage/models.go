package storage

import (
	"time"
)

// Credentials is the persisted session pair used to resume a login across
// runs. The token is an opaque bearer credential; the service decides
// whether it is still valid.
type Credentials struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	SavedAt  time.Time `json:"saved_at"`
}

// CachedStory is one story of the last fetched feed snapshot.
type CachedStory struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedSnapshot is the most recent server feed in server order. It backs
// offline listing and the search index; it is never merged, only replaced.
type FeedSnapshot struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Stories   []CachedStory `json:"stories"`
}
