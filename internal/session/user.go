package session

import (
	"context"
	"time"

	"snooze/internal/api"
	"snooze/internal/debuglog"
	"snooze/internal/story"
)

// User is one authenticated session plus the server state scoped to it:
// favorites and self-authored stories. An unauthenticated state is a nil
// *User, never a User with an empty token; logout is dropping the reference.
type User struct {
	Username  string
	Name      string
	CreatedAt time.Time

	// Favorites and OwnStories are independent copies of server state,
	// unique by story id. They may hold structurally equal but distinct
	// copies of stories that also appear in a feed List.
	Favorites  []story.Story
	OwnStories []story.Story

	// Token is the bearer credential for all mutating calls. Present for
	// the lifetime of the User.
	Token string
}

func fromRecord(rec api.UserRecord, token string) *User {
	return &User{
		Username:   rec.Username,
		Name:       rec.Name,
		CreatedAt:  rec.CreatedAt,
		Favorites:  story.FromRecords(rec.Favorites),
		OwnStories: story.FromRecords(rec.OwnStories),
		Token:      token,
	}
}

// Signup registers a new account and returns the authenticated User.
func Signup(ctx context.Context, c *api.Client, username, password, name string) (*User, error) {
	rec, token, err := c.Signup(ctx, username, password, name)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec, token), nil
}

// Login authenticates an existing account.
func Login(ctx context.Context, c *api.Client, username, password string) (*User, error) {
	rec, token, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec, token), nil
}

// Resume re-authenticates with a stored token. Any failure downgrades to a
// "no session" result so silent restoration of a previous login never takes
// down startup; callers proceed unauthenticated on (nil, nil).
func Resume(ctx context.Context, c *api.Client, token, username string) (*User, error) {
	if token == "" || username == "" {
		return nil, nil
	}
	rec, err := c.UserProfile(ctx, token, username)
	if err != nil {
		debuglog.Warnf("session resume for %q failed: %v", username, err)
		return nil, nil
	}
	return fromRecord(rec, token), nil
}

// AddFavorite marks the story as a favorite on the server, then mirrors the
// confirmed change locally via append-if-absent. On failure the local set is
// untouched; there is no optimistic update to roll back.
func (u *User) AddFavorite(ctx context.Context, c *api.Client, s story.Story) error {
	if err := c.AddFavorite(ctx, u.Token, u.Username, s.ID); err != nil {
		return err
	}
	if !u.IsFavorite(s.ID) {
		u.Favorites = append(u.Favorites, s)
	}
	return nil
}

// RemoveFavorite unmarks the story on the server, then filters it out of the
// local set. The call is issued even for stories not currently favorited;
// the server is the source of truth for that outcome.
func (u *User) RemoveFavorite(ctx context.Context, c *api.Client, s story.Story) error {
	if err := c.RemoveFavorite(ctx, u.Token, u.Username, s.ID); err != nil {
		return err
	}
	kept := u.Favorites[:0]
	for _, fav := range u.Favorites {
		if fav.ID != s.ID {
			kept = append(kept, fav)
		}
	}
	u.Favorites = kept
	return nil
}

// IsFavorite reports whether the story id is in the local favorites mirror.
func (u *User) IsFavorite(storyID string) bool {
	for _, fav := range u.Favorites {
		if fav.ID == storyID {
			return true
		}
	}
	return false
}

// Submit posts a new story authored by this user and appends the confirmed
// record to OwnStories.
func (u *User) Submit(ctx context.Context, c *api.Client, draft story.Draft) (story.Story, error) {
	s, err := story.Create(ctx, c, u.Token, draft)
	if err != nil {
		return story.Story{}, err
	}
	u.OwnStories = append([]story.Story{s}, u.OwnStories...)
	return s, nil
}

// DeleteStory deletes a story on the server and drops it from this user's
// OwnStories and Favorites mirrors. Feed lists are the caller's to update.
func (u *User) DeleteStory(ctx context.Context, c *api.Client, storyID string) (story.Story, error) {
	s, err := story.Delete(ctx, c, u.Token, storyID)
	if err != nil {
		return story.Story{}, err
	}
	u.OwnStories = removeByID(u.OwnStories, storyID)
	u.Favorites = removeByID(u.Favorites, storyID)
	return s, nil
}

func removeByID(stories []story.Story, id string) []story.Story {
	kept := stories[:0]
	for _, s := range stories {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return kept
}
