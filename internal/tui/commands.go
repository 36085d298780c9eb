package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snooze/internal/debuglog"
	"snooze/internal/search"
	"snooze/internal/session"
	"snooze/internal/storage"
	"snooze/internal/story"
	"snooze/internal/validation"
)

// loadFeed fetches the most recent stories and refreshes the local
// snapshot and search index from the result.
func (a *App) loadFeed() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		l, err := story.FetchAll(ctx, a.client)
		if err != nil {
			return errorMsg{err: wrapErr("loading stories", err)}
		}

		a.cacheFeed(l)

		return feedLoadedMsg{list: l}
	}
}

// cacheFeed writes the fetched stories to the snapshot store and tells
// the search engine about the new contents. Failures here are logged
// and swallowed; the feed itself already loaded.
func (a *App) cacheFeed(l *story.List) {
	cached := make([]storage.CachedStory, 0, len(l.Stories))
	for _, s := range l.Stories {
		cached = append(cached, storage.CachedStory{
			ID:        s.ID,
			Title:     s.Title,
			Author:    s.Author,
			URL:       s.URL,
			Username:  s.Username,
			CreatedAt: s.CreatedAt,
		})
	}

	if a.store != nil {
		if err := a.store.SaveFeedSnapshot(cached); err != nil {
			debuglog.Warnf("Failed to snapshot feed: %v", err)
		}
	}

	if listener, ok := a.searchEngine.(search.UpdateListener); ok {
		listener.OnFeedUpdated(cached)
	}
}

// resumeSession restores the previous login from saved credentials.
// A stale or missing session simply yields an anonymous user.
func (a *App) resumeSession() tea.Cmd {
	return func() tea.Msg {
		if a.store == nil {
			return sessionMsg{user: nil}
		}

		creds, err := a.store.Session()
		if err != nil || creds == nil {
			return sessionMsg{user: nil}
		}

		ctx := context.Background()

		user, err := session.Resume(ctx, a.client, creds.Token, creds.Username)
		if err != nil {
			return sessionMsg{err: wrapErr("resuming session", err)}
		}

		return sessionMsg{user: user}
	}
}

func (a *App) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		user, err := session.Login(ctx, a.client, username, password)
		if err != nil {
			return sessionMsg{err: wrapErr("logging in", err)}
		}

		a.saveCredentials(user)

		return sessionMsg{user: user}
	}
}

func (a *App) signup(username, password, name string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		user, err := session.Signup(ctx, a.client, username, password, name)
		if err != nil {
			return sessionMsg{err: wrapErr("signing up", err)}
		}

		a.saveCredentials(user)

		return sessionMsg{user: user}
	}
}

func (a *App) saveCredentials(user *session.User) {
	if a.store == nil || user == nil {
		return
	}
	if err := a.store.SaveSession(&storage.Credentials{
		Token:    user.Token,
		Username: user.Username,
		SavedAt:  time.Now(),
	}); err != nil {
		debuglog.Warnf("Failed to save credentials: %v", err)
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		if a.store != nil {
			if err := a.store.ClearSession(); err != nil {
				debuglog.Warnf("Failed to clear saved credentials: %v", err)
			}
		}
		return sessionClearedMsg{}
	}
}

func (a *App) submitStory(title, author, rawURL string) tea.Cmd {
	return func() tea.Msg {
		if a.user == nil {
			return errorMsg{err: errors.New(MsgLoginRequired)}
		}

		validator := validation.NewStoryURLValidator()
		normalized, err := validator.ValidateAndNormalize(rawURL)
		if err != nil {
			return storySubmittedMsg{err: wrapErr("validating URL", err)}
		}

		ctx := context.Background()

		s, err := a.user.Submit(ctx, a.client, story.Draft{
			Title:  title,
			Author: author,
			URL:    normalized,
		})
		if err != nil {
			return storySubmittedMsg{err: wrapErr("submitting story", err)}
		}

		return storySubmittedMsg{story: s}
	}
}

func (a *App) deleteStory(s story.Story) tea.Cmd {
	return func() tea.Msg {
		if a.user == nil {
			return errorMsg{err: errors.New(MsgLoginRequired)}
		}

		ctx := context.Background()

		if _, err := a.user.DeleteStory(ctx, a.client, s.ID); err != nil {
			return storyDeletedMsg{err: wrapErr("deleting story", err)}
		}

		return storyDeletedMsg{story: s}
	}
}

func (a *App) toggleFavorite(s story.Story) tea.Cmd {
	return func() tea.Msg {
		if a.user == nil {
			return errorMsg{err: errors.New(MsgLoginRequired)}
		}

		ctx := context.Background()

		var err error
		if a.user.IsFavorite(s.ID) {
			err = a.user.RemoveFavorite(ctx, a.client, s)
		} else {
			err = a.user.AddFavorite(ctx, a.client, s)
		}
		if err != nil {
			return favoriteToggledMsg{err: wrapErr("updating favorites", err)}
		}

		return favoriteToggledMsg{}
	}
}

// renderStory produces the markdown detail view for a story.
func (a *App) renderStory(s story.Story) tea.Cmd {
	return func() tea.Msg {
		host := ""
		if h, err := s.Hostname(); err == nil {
			host = h
		}

		var md string
		md += fmt.Sprintf("# %s\n\n", s.Title)
		if s.Author != "" {
			md += fmt.Sprintf("**Author:** %s\n\n", s.Author)
		}
		if host != "" {
			md += fmt.Sprintf("**Site:** %s\n\n", host)
		}
		md += fmt.Sprintf("**Posted by:** %s\n\n", s.Username)
		if !s.CreatedAt.IsZero() {
			md += fmt.Sprintf("**Date:** %s\n\n", s.CreatedAt.Format("January 2, 2006 at 15:04"))
		}
		md += "---\n\n"
		md += fmt.Sprintf("[%s](%s)\n", s.URL, s.URL)

		renderer, err := a.getRenderer()
		if err != nil {
			return storyRenderedMsg{content: md}
		}

		rendered, err := renderer.Render(md)
		if err != nil {
			return storyRenderedMsg{content: md}
		}

		return storyRenderedMsg{content: rendered}
	}
}

func (a *App) openStory(s story.Story) tea.Cmd {
	return func() tea.Msg {
		if err := a.launcher.Open(s.URL); err != nil {
			return openedMsg{err: wrapErr("opening browser", err)}
		}
		return openedMsg{}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if a.searchEngine == nil {
			return searchResultsMsg{results: nil}
		}

		results, err := a.searchEngine.Search(query, 20)
		if err != nil {
			debuglog.Warnf("Search failed: %v", err)
			return searchResultsMsg{results: nil}
		}

		items := make([]searchResultItem, 0, len(results))
		for _, r := range results {
			if r.Story == nil {
				continue
			}
			items = append(items, searchResultItem{story: *r.Story, score: r.Score})
		}

		return searchResultsMsg{results: items}
	}
}
