package story

import (
	"fmt"
	"strings"
	"time"

	"snooze/internal/api"
)

// Story is one story record as confirmed by the server. Values are never
// mutated in place; an update replaces the whole value.
type Story struct {
	ID        string
	Title     string
	Author    string
	URL       string
	Username  string
	CreatedAt time.Time
}

// MalformedURLError reports a story URL without a recognizable
// scheme-qualified host.
type MalformedURLError struct {
	URL string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed story url: %q", e.URL)
}

// Hostname returns the host portion of the story URL: the substring between
// the scheme separator and the next "/" (or end of string). URLs without an
// http:// or https:// prefix are unsupported.
func (s Story) Hostname() (string, error) {
	rest, ok := strings.CutPrefix(s.URL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(s.URL, "http://")
	}
	if !ok {
		return "", &MalformedURLError{URL: s.URL}
	}

	host := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host = rest[:i]
	}
	if host == "" {
		return "", &MalformedURLError{URL: s.URL}
	}
	return host, nil
}

// FromRecord builds a Story value from a server record.
func FromRecord(rec api.StoryRecord) Story {
	return Story{
		ID:        rec.StoryID,
		Title:     rec.Title,
		Author:    rec.Author,
		URL:       rec.URL,
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
	}
}

// FromRecords converts server records in order, dropping any duplicate id so
// the no-duplicate invariant holds for collections built from a response.
func FromRecords(recs []api.StoryRecord) []Story {
	stories := make([]Story, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if _, dup := seen[rec.StoryID]; dup {
			continue
		}
		seen[rec.StoryID] = struct{}{}
		stories = append(stories, FromRecord(rec))
	}
	return stories
}
