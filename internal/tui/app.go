package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"snooze/internal/api"
	"snooze/internal/browser"
	"snooze/internal/config"
	"snooze/internal/search"
	"snooze/internal/session"
	"snooze/internal/storage"
	"snooze/internal/story"
)

type App struct {
	config       *config.Config
	store        *storage.Store
	client       *api.Client
	launcher     *browser.Launcher
	searchEngine search.Searcher
	keyHandler   *KeyHandler

	storyList   list.Model
	searchList  list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	inputs      []textinput.Model
	focusIndex  int
	help        help.Model

	view         View
	previousView View
	collection   View

	feed          *story.List
	user          *session.User
	currentStory  *story.Story
	storyToDelete *story.Story
	searchResults []searchResultItem

	width  int
	height int

	err        error
	status     string
	statusKind StatusKind

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	loadingStory    bool
}

func NewApp(store *storage.Store, client *api.Client, engine search.Searcher, cfg *config.Config) *App {
	storyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	storyList.Title = ViewFeed.title()
	storyList.SetShowStatusBar(false)
	storyList.SetFilteringEnabled(true)
	storyList.SetShowHelp(true)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	vp := viewport.New(0, 0)

	si := textinput.New()
	si.Placeholder = "Search stories…"

	app := &App{
		config:        cfg,
		store:         store,
		client:        client,
		launcher:      browser.NewLauncher(cfg),
		searchEngine:  engine,
		storyList:     storyList,
		searchList:    searchList,
		searchInput:   si,
		viewport:      vp,
		help:          help.New(),
		view:          ViewFeed,
		previousView:  ViewFeed,
		collection:    ViewFeed,
		searchResults: []searchResultItem{},
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.resumeSession(),
		a.loadFeed(),
		tea.EnterAltScreen,
	)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > a.config.UI.Story.WordWrapMaxWidth {
		wordWrapWidth = a.config.UI.Story.WordWrapMaxWidth
	}
	if wordWrapWidth < a.config.UI.Story.WordWrapMinWidth {
		wordWrapWidth = a.config.UI.Story.WordWrapMinWidth
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.storyList.SetSize(msg.Width, msg.Height-3)
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

		inputWidth := msg.Width - 4
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		for i := range a.inputs {
			a.inputs[i].Width = inputWidth
		}

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case feedLoadedMsg:
		a.feed = msg.list
		a.setStatus(MsgFeedLoaded(len(msg.list.Stories)), StatusSuccess)
		a.refreshItems()

	case sessionMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.user = msg.user
			if msg.user != nil {
				a.setStatus(MsgLoggedIn(msg.user.Username), StatusSuccess)
			}
			if a.view == ViewLogin || a.view == ViewSignup {
				a.view = a.collection
			}
			a.refreshItems()
		}

	case sessionClearedMsg:
		a.user = nil
		a.setStatus(MsgLoggedOut, StatusInfo)
		// Favorites and own stories are session-scoped.
		a.collection = ViewFeed
		a.view = ViewFeed
		a.refreshItems()

	case storySubmittedMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			// Reflect the confirmed creation at the top of the feed; the
			// server does the same on the next fetch.
			if a.feed != nil {
				a.feed.Stories = append([]story.Story{msg.story}, a.feed.Stories...)
			}
			a.setStatus(MsgSubmitted(msg.story.Title), StatusSuccess)
			a.view = a.collection
			a.refreshItems()
		}

	case storyDeletedMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			if a.feed != nil {
				a.feed.RemoveLocal(msg.story.ID)
			}
			a.setStatus(MsgStoryDeleted, StatusSuccess)
			a.view = a.collection
			a.storyToDelete = nil
			a.refreshItems()
		}

	case favoriteToggledMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.refreshItems()
		}

	case storyRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingStory = false
		}

	case searchResultsMsg:
		if a.view == ViewSearch {
			a.searchResults = msg.results
			items := make([]list.Item, len(msg.results))
			for i, result := range msg.results {
				items[i] = result
			}
			a.searchList.SetItems(items)
		}

	case openedMsg:
		if msg.err != nil {
			a.err = msg.err
		}

	case errorMsg:
		a.err = msg.err
	}

	switch {
	case a.view.isCollection():
		newListModel, cmd := a.storyList.Update(msg)
		a.storyList = newListModel
		cmds = append(cmds, cmd)
	case a.view == ViewDetail:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case a.view == ViewLogin, a.view == ViewSignup, a.view == ViewSubmit:
		for i := range a.inputs {
			newInput, cmd := a.inputs[i].Update(msg)
			a.inputs[i] = newInput
			cmds = append(cmds, cmd)
		}
	case a.view == ViewSearch:
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)

		newSearchList, listCmd := a.searchList.Update(msg)
		a.searchList = newSearchList
		cmds = append(cmds, listCmd)

		searchQuery := a.searchInput.Value()
		if len(searchQuery) > 1 {
			cmds = append(cmds, a.performSearch(searchQuery))
		}
	}

	return a, tea.Batch(cmds...)
}

// currentStories returns the stories of the active collection.
func (a *App) currentStories() []story.Story {
	switch a.collection {
	case ViewFavorites:
		if a.user == nil {
			return nil
		}
		return a.user.Favorites
	case ViewMyStories:
		if a.user == nil {
			return nil
		}
		return a.user.OwnStories
	default:
		if a.feed == nil {
			return nil
		}
		return a.feed.Stories
	}
}

// refreshItems rebuilds the visible list from the active collection.
func (a *App) refreshItems() {
	stories := a.currentStories()
	items := make([]list.Item, len(stories))
	for i, s := range stories {
		items[i] = storyItem{
			story:    s,
			favorite: a.user != nil && a.user.IsFavorite(s.ID),
			own:      a.user != nil && a.user.Username == s.Username,
		}
	}
	a.storyList.SetItems(items)
	a.storyList.Title = a.collection.title()
}

// selectedStory returns the story under the cursor in the active list.
func (a *App) selectedStory() *story.Story {
	item, ok := a.storyList.SelectedItem().(storyItem)
	if !ok {
		return nil
	}
	s := item.story
	return &s
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
	a.err = nil
}

func (a *App) View() string {
	var content string

	switch {
	case a.view.isCollection():
		if len(a.storyList.Items()) == 0 && a.collection == ViewFeed {
			content = lipgloss.NewStyle().
				Width(a.width).
				Height(a.height-3).
				Align(lipgloss.Center, lipgloss.Center).
				Render(GetWelcomeMessage())
		} else {
			content = a.storyList.View()
		}
	case a.view == ViewDetail:
		if a.loadingStory {
			content = lipgloss.NewStyle().
				Width(a.width).
				Height(a.height-3).
				Align(lipgloss.Center, lipgloss.Center).
				Render(HelpStyle.Render("Loading story…"))
		} else {
			content = a.viewport.View()
		}
	case a.view == ViewLogin:
		content = a.renderForm("› log in", "Enter to log in, Esc to cancel")
	case a.view == ViewSignup:
		content = a.renderForm("› sign up", "Enter to create account, Esc to cancel")
	case a.view == ViewSubmit:
		content = a.renderForm("› submit story", "Enter to submit, Esc to cancel")
	case a.view == ViewDeleteConfirm:
		content = a.renderDeleteConfirm()
	case a.view == ViewSearch:
		content = a.renderSearch()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := HelpStyle.Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) renderForm(title, helpText string) string {
	rows := []string{TitleStyle.Render(title), ""}
	for i := range a.inputs {
		rows = append(rows, a.inputs[i].View())
	}
	rows = append(rows, "", HelpStyle.Render(helpText))

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height-3).
		Align(lipgloss.Center, lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (a *App) renderDeleteConfirm() string {
	storyName := "this story"
	if a.storyToDelete != nil && a.storyToDelete.Title != "" {
		storyName = a.storyToDelete.Title
	}

	modalWidth := (a.width * 4) / 5
	if modalWidth < 20 {
		modalWidth = a.width
	}
	storyName = truncate(storyName, modalWidth-4)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height-3).
		Align(lipgloss.Center, lipgloss.Center).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				lipgloss.NewStyle().
					Foreground(ErrorColor).
					Bold(true).
					Render("⚠ Delete Story"),
				"",
				lipgloss.NewStyle().
					Foreground(FavoriteColor).
					Bold(true).
					Width(modalWidth).
					Align(lipgloss.Center).
					Render(storyName),
				"",
				lipgloss.NewStyle().
					Foreground(MutedColor).
					Width(modalWidth).
					Align(lipgloss.Center).
					Render("The story is removed for everyone."),
				"",
				HelpStyle.Render("Enter: confirm • Esc: cancel"),
			),
		)
}

func (a *App) renderSearch() string {
	searchInputWidth := a.width - 8
	if searchInputWidth < 10 {
		searchInputWidth = a.width - 4
	}
	a.searchInput.Width = searchInputWidth

	inputBorderColor := MutedColor
	if a.searchInput.Focused() {
		inputBorderColor = AccentColor
	}

	searchInput := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorderColor).
		Padding(0, 1).
		Width(searchInputWidth + 4).
		Render(a.searchInput.View())

	helpText := ""
	if a.searchInput.Focused() {
		helpText = "Type to search • Tab/↓: results • Esc: back"
	} else if len(a.searchList.Items()) > 0 {
		helpText = "↑↓: navigate • Enter: select • Tab/↑: search box • Esc: back"
	} else {
		helpText = "No results found • Tab/↑: search box • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		HeaderStyle.Render(ViewSearch.title()),
		"",
		searchInput,
		HelpStyle.Render(helpText),
		"",
		a.searchList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 3).
		MaxHeight(a.height - 3).
		Render(searchContent)
}

func (a *App) getCustomStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()

	if a.err != nil {
		errText := lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Render(fmt.Sprintf("✗ %v", a.err))

		return StatusBarStyle.Width(a.width).Render(errText)
	}

	var left string
	if a.user != nil {
		left = lipgloss.NewStyle().Foreground(SuccessColor).Render("● " + a.user.Username)
	} else {
		left = HelpStyle.Render("○ anonymous")
	}

	parts := []string{left}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	if len(commands) > 0 {
		parts = append(parts, strings.Join(commands, " • "))
	}

	return StatusBarStyle.Width(a.width).Render(strings.Join(parts, " • "))
}

type storyItem struct {
	story    story.Story
	favorite bool
	own      bool
}

func (i storyItem) Title() string {
	title := i.story.Title
	if title == "" {
		title = i.story.URL
	}
	if i.favorite {
		return FavoriteItemStyle.Render("♥ " + title)
	}
	return title
}

func (i storyItem) Description() string {
	host := ""
	if h, err := i.story.Hostname(); err == nil {
		host = " (" + h + ")"
	}

	desc := fmt.Sprintf("by %s%s • posted by %s", i.story.Author, host, i.story.Username)
	if !i.story.CreatedAt.IsZero() {
		desc += " • " + i.story.CreatedAt.Format("Jan 2, 15:04")
	}
	if i.own {
		desc += OwnItemStyle.Render(" • yours")
	}
	return HelpStyle.Render(desc)
}

func (i storyItem) FilterValue() string { return i.story.Title + " " + i.story.Author }

type searchResultItem struct {
	story storage.CachedStory
	score float64
}

func (i searchResultItem) Title() string {
	title := i.story.Title
	if title == "" {
		title = i.story.URL
	}
	return "▸ " + title
}

func (i searchResultItem) Description() string {
	desc := fmt.Sprintf("by %s • posted by %s", i.story.Author, i.story.Username)
	if !i.story.CreatedAt.IsZero() {
		desc += " • " + i.story.CreatedAt.Format("Jan 2")
	}
	return HelpStyle.Render(desc)
}

func (i searchResultItem) FilterValue() string {
	return i.story.Title + " " + i.story.Author
}

type feedLoadedMsg struct {
	list *story.List
}

type sessionMsg struct {
	user *session.User
	err  error
}

type sessionClearedMsg struct{}

type storySubmittedMsg struct {
	story story.Story
	err   error
}

type storyDeletedMsg struct {
	story story.Story
	err   error
}

type favoriteToggledMsg struct {
	err error
}

type storyRenderedMsg struct {
	content string
}

type searchResultsMsg struct {
	results []searchResultItem
}

type openedMsg struct {
	err error
}

type errorMsg struct {
	err error
}
