package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snooze/internal/config"
	"snooze/internal/session"
	"snooze/internal/story"
)

func newTestApp() *App {
	cfg := config.TestConfig()
	return NewApp(nil, nil, nil, cfg)
}

func loggedInUser() *session.User {
	return &session.User{
		Username: "alice",
		Name:     "Alice",
		Token:    "tok",
	}
}

func sampleFeed() *story.List {
	return &story.List{Stories: []story.Story{
		{ID: "s1", Title: "First", Author: "a", URL: "https://example.com/1", Username: "alice", CreatedAt: time.Now()},
		{ID: "s2", Title: "Second", Author: "b", URL: "https://example.com/2", Username: "bob", CreatedAt: time.Now()},
	}}
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialView  View
		msg          tea.Msg
		expectedView View
		setupFunc    func(*App)
	}{
		{
			name:         "ViewFeed to ViewDetail on Enter",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewDetail,
			setupFunc: func(a *App) {
				a.feed = sampleFeed()
				a.refreshItems()
			},
		},
		{
			name:         "ViewDetail to ViewFeed on Escape",
			initialView:  ViewDetail,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewFeed,
		},
		{
			name:         "ViewFeed to ViewSubmit on ctrl+n when logged in",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlN},
			expectedView: ViewSubmit,
			setupFunc: func(a *App) {
				a.user = loggedInUser()
			},
		},
		{
			name:         "ctrl+n stays on ViewFeed when anonymous",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlN},
			expectedView: ViewFeed,
		},
		{
			name:         "ViewFeed to ViewDeleteConfirm on ctrl+x",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlX},
			expectedView: ViewDeleteConfirm,
			setupFunc: func(a *App) {
				a.user = loggedInUser()
				a.feed = sampleFeed()
				a.refreshItems()
			},
		},
		{
			name:         "ViewDeleteConfirm to ViewFeed on Escape",
			initialView:  ViewDeleteConfirm,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewFeed,
		},
		{
			name:         "ViewFeed to ViewSearch on ctrl+s",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlS},
			expectedView: ViewSearch,
		},
		{
			name:         "ViewFeed to ViewLogin on ctrl+l when anonymous",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlL},
			expectedView: ViewLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.view = tt.initialView
			if tt.setupFunc != nil {
				tt.setupFunc(app)
			}

			updated, _ := app.Update(tt.msg)
			require.IsType(t, &App{}, updated)
			assert.Equal(t, tt.expectedView, updated.(*App).view)
		})
	}
}

func TestSearchEscReturnsToPreviousView(t *testing.T) {
	app := newTestApp()
	app.view = ViewFeed

	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	app = updated.(*App)
	require.Equal(t, ViewSearch, app.view)
	assert.True(t, app.searchInput.Focused())

	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = updated.(*App)
	assert.Equal(t, ViewFeed, app.view)
	assert.Empty(t, app.searchInput.Value())
}

func TestLoginEscReturnsToCollection(t *testing.T) {
	app := newTestApp()
	app.view = ViewFeed

	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	app = updated.(*App)
	require.Equal(t, ViewLogin, app.view)
	require.Len(t, app.inputs, 2)
	assert.True(t, app.inputs[0].Focused())

	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = updated.(*App)
	assert.Equal(t, ViewFeed, app.view)
	assert.Nil(t, app.inputs)
}

func TestTabCyclesCollectionsWhenLoggedIn(t *testing.T) {
	app := newTestApp()
	app.user = loggedInUser()
	app.feed = sampleFeed()
	app.refreshItems()

	tab := tea.KeyMsg{Type: tea.KeyTab}

	updated, _ := app.Update(tab)
	app = updated.(*App)
	assert.Equal(t, ViewFavorites, app.view)

	updated, _ = app.Update(tab)
	app = updated.(*App)
	assert.Equal(t, ViewMyStories, app.view)

	updated, _ = app.Update(tab)
	app = updated.(*App)
	assert.Equal(t, ViewFeed, app.view)
}

func TestTabStaysOnFeedWhenAnonymous(t *testing.T) {
	app := newTestApp()
	app.feed = sampleFeed()
	app.refreshItems()

	updated, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = updated.(*App)
	assert.Equal(t, ViewFeed, app.view)
}

func TestFeedLoadedMsg(t *testing.T) {
	app := newTestApp()

	updated, _ := app.Update(feedLoadedMsg{list: sampleFeed()})
	app = updated.(*App)

	require.NotNil(t, app.feed)
	assert.Len(t, app.storyList.Items(), 2)
	assert.Contains(t, app.status, "2")
}

func TestSessionMsg(t *testing.T) {
	app := newTestApp()
	app.view = ViewLogin

	updated, _ := app.Update(sessionMsg{user: loggedInUser()})
	app = updated.(*App)

	require.NotNil(t, app.user)
	assert.Equal(t, "alice", app.user.Username)
	assert.Equal(t, ViewFeed, app.view, "login view closes once the session lands")
	assert.Contains(t, app.status, "alice")
}

func TestSessionClearedMsg(t *testing.T) {
	app := newTestApp()
	app.user = loggedInUser()
	app.collection = ViewFavorites
	app.view = ViewFavorites

	updated, _ := app.Update(sessionClearedMsg{})
	app = updated.(*App)

	assert.Nil(t, app.user)
	assert.Equal(t, ViewFeed, app.view, "favorites need a session")
}

func TestStorySubmittedMsgPrependsToFeed(t *testing.T) {
	app := newTestApp()
	app.feed = sampleFeed()
	app.view = ViewSubmit

	fresh := story.Story{ID: "new1", Title: "Fresh", URL: "https://example.com/new"}
	updated, _ := app.Update(storySubmittedMsg{story: fresh})
	app = updated.(*App)

	require.Len(t, app.feed.Stories, 3)
	assert.Equal(t, "new1", app.feed.Stories[0].ID)
	assert.Equal(t, ViewFeed, app.view)
}

func TestStoryDeletedMsgRemovesFromFeed(t *testing.T) {
	app := newTestApp()
	app.feed = sampleFeed()
	app.view = ViewDeleteConfirm
	app.storyToDelete = &app.feed.Stories[0]

	updated, _ := app.Update(storyDeletedMsg{story: story.Story{ID: "s1"}})
	app = updated.(*App)

	require.Len(t, app.feed.Stories, 1)
	assert.Equal(t, "s2", app.feed.Stories[0].ID)
	assert.Equal(t, ViewFeed, app.view)
	assert.Nil(t, app.storyToDelete)
}

func TestErrorMsgShownInStatusBar(t *testing.T) {
	app := newTestApp()
	app.width = 80

	updated, _ := app.Update(errorMsg{err: assert.AnError})
	app = updated.(*App)

	require.Error(t, app.err)
	bar := app.getCustomStatusBar()
	assert.Contains(t, bar, "✗")
}

func TestRefreshItemsPerCollection(t *testing.T) {
	app := newTestApp()
	app.user = loggedInUser()
	app.user.Favorites = []story.Story{{ID: "f1", Title: "Fav", URL: "https://example.com/f"}}
	app.user.OwnStories = []story.Story{
		{ID: "o1", Title: "Mine", URL: "https://example.com/o"},
		{ID: "o2", Title: "Also mine", URL: "https://example.com/o2"},
	}
	app.feed = sampleFeed()

	app.collection = ViewFeed
	app.refreshItems()
	assert.Len(t, app.storyList.Items(), 2)

	app.collection = ViewFavorites
	app.refreshItems()
	assert.Len(t, app.storyList.Items(), 1)

	app.collection = ViewMyStories
	app.refreshItems()
	assert.Len(t, app.storyList.Items(), 2)
}

func TestStoryItemRendering(t *testing.T) {
	s := story.Story{
		ID: "s1", Title: "A Story", Author: "ann",
		URL: "https://example.com/x", Username: "ann",
	}

	plain := storyItem{story: s}
	assert.Equal(t, "A Story", plain.Title())
	assert.Contains(t, plain.Description(), "example.com")
	assert.Contains(t, plain.Description(), "ann")

	fav := storyItem{story: s, favorite: true}
	assert.Contains(t, fav.Title(), "♥")

	untitled := storyItem{story: story.Story{URL: "https://example.com/x"}}
	assert.Equal(t, "https://example.com/x", untitled.Title())
}

func TestSelectedStory(t *testing.T) {
	app := newTestApp()
	app.feed = sampleFeed()
	app.refreshItems()

	s := app.selectedStory()
	require.NotNil(t, s)
	assert.Equal(t, "s1", s.ID)

	empty := newTestApp()
	assert.Nil(t, empty.selectedStory())
}

func TestGetHelpForCurrentView(t *testing.T) {
	app := newTestApp()

	app.view = ViewFeed
	help := app.keyHandler.GetHelpForCurrentView()
	assert.NotEmpty(t, help)
	assert.Contains(t, help[0], "tab")

	app.user = loggedInUser()
	help = app.keyHandler.GetHelpForCurrentView()
	joined := ""
	for _, h := range help {
		joined += h + " "
	}
	assert.Contains(t, joined, "submit")

	app.view = ViewDeleteConfirm
	help = app.keyHandler.GetHelpForCurrentView()
	assert.Contains(t, help[0], "confirm")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "long…", truncate("longer text", 5))
	assert.Equal(t, "…", truncate("ab", 1))
	assert.Equal(t, "untouched", truncate("untouched", 0))
}
