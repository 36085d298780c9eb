package api

import "time"

// StoryRecord is the story shape the service returns.
type StoryRecord struct {
	StoryID   string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoryDraft is the caller-supplied part of a story submission.
type StoryDraft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// UserRecord is the profile shape the service returns on signup, login and
// profile reads. The wire name for a user's own stories is "stories"; some
// responses use "ownStories" instead, so both are accepted.
type UserRecord struct {
	Username   string        `json:"username"`
	Name       string        `json:"name"`
	CreatedAt  time.Time     `json:"createdAt"`
	Favorites  []StoryRecord `json:"favorites"`
	OwnStories []StoryRecord `json:"-"`

	WireStories    []StoryRecord `json:"stories"`
	WireOwnStories []StoryRecord `json:"ownStories"`
}

// normalize resolves the two possible wire names for own stories.
func (u *UserRecord) normalize() {
	switch {
	case u.WireStories != nil:
		u.OwnStories = u.WireStories
	case u.WireOwnStories != nil:
		u.OwnStories = u.WireOwnStories
	}
	u.WireStories = nil
	u.WireOwnStories = nil
}

type storiesResponse struct {
	Stories []StoryRecord `json:"stories"`
}

type storyResponse struct {
	Story StoryRecord `json:"story"`
}

type createStoryRequest struct {
	Token string     `json:"token"`
	Story StoryDraft `json:"story"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type credentialsRequest struct {
	User credentialsPayload `json:"user"`
}

type authResponse struct {
	User  UserRecord `json:"user"`
	Token string     `json:"token"`
}

type userResponse struct {
	User UserRecord `json:"user"`
}

// errorResponse is the error envelope the service wraps failures in.
type errorResponse struct {
	Error struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}
