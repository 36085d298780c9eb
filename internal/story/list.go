package story

import (
	"context"

	"snooze/internal/api"
)

// Draft is the caller-supplied part of a story submission.
type Draft struct {
	Title  string
	Author string
	URL    string
}

// List is the current feed: an ordered sequence of stories in server order,
// unique by id. A fresh List is built on every fetch; there is no incremental
// merge with a previous list.
type List struct {
	Stories []Story
}

// FetchAll reads the global feed unauthenticated and builds a new List
// preserving server order.
func FetchAll(ctx context.Context, c *api.Client) (*List, error) {
	recs, err := c.Stories(ctx)
	if err != nil {
		return nil, err
	}
	return &List{Stories: FromRecords(recs)}, nil
}

// Create submits a new story and returns the server-confirmed record. It does
// not insert the story into any local collection; callers decide when and
// where a confirmed change is reflected.
func Create(ctx context.Context, c *api.Client, token string, draft Draft) (Story, error) {
	rec, err := c.CreateStory(ctx, token, api.StoryDraft{
		Title:  draft.Title,
		Author: draft.Author,
		URL:    draft.URL,
	})
	if err != nil {
		return Story{}, err
	}
	return FromRecord(rec), nil
}

// Delete removes a story on the server and returns the deleted record as the
// server confirmed it. Local collections are untouched; use RemoveLocal.
func Delete(ctx context.Context, c *api.Client, token, storyID string) (Story, error) {
	rec, err := c.DeleteStory(ctx, token, storyID)
	if err != nil {
		return Story{}, err
	}
	return FromRecord(rec), nil
}

// RemoveLocal drops the story with the given id from this list if present.
// Removing an absent id is a no-op, not an error.
func (l *List) RemoveLocal(storyID string) {
	for i, s := range l.Stories {
		if s.ID == storyID {
			l.Stories = append(l.Stories[:i], l.Stories[i+1:]...)
			return
		}
	}
}

// Find returns the story with the given id, if the list holds one.
func (l *List) Find(storyID string) (Story, bool) {
	for _, s := range l.Stories {
		if s.ID == storyID {
			return s, true
		}
	}
	return Story{}, false
}
