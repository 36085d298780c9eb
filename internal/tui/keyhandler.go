package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snooze/internal/config"
	"snooze/internal/search"
	"snooze/internal/storage"
	"snooze/internal/story"
)

// cachedToStory converts a search hit back into a feed story.
func cachedToStory(c storage.CachedStory) story.Story {
	return story.Story{
		ID:        c.ID,
		Title:     c.Title,
		Author:    c.Author,
		URL:       c.URL,
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
	}
}

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewLogin, ViewSignup, ViewSubmit:
		for i := range kh.app.inputs {
			if kh.app.inputs[i].Focused() {
				return true
			}
		}
		return false
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewSearch {
			if len(kh.app.searchList.Items()) > 0 {
				kh.app.searchInput.Blur()
				kh.app.searchList.Select(0)
			}
			return kh.app, nil
		}
		return kh.app, kh.cycleFocus(1)
	case "up", "shift+tab":
		if kh.app.view == ViewSearch {
			return kh.delegateToTextInput(msg)
		}
		return kh.app, kh.cycleFocus(-1)
	default:
		return kh.delegateToTextInput(msg)
	}
}

// cycleFocus moves focus between the form inputs.
func (kh *KeyHandler) cycleFocus(delta int) tea.Cmd {
	n := len(kh.app.inputs)
	if n == 0 {
		return nil
	}

	kh.app.focusIndex = (kh.app.focusIndex + delta + n) % n

	var cmd tea.Cmd
	for i := range kh.app.inputs {
		if i == kh.app.focusIndex {
			cmd = kh.app.inputs[i].Focus()
		} else {
			kh.app.inputs[i].Blur()
		}
	}

	return cmd
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewLogin:
		username := strings.TrimSpace(kh.app.inputs[0].Value())
		password := kh.app.inputs[1].Value()
		if username == "" || password == "" {
			return kh.app, nil
		}
		kh.app.setStatus(MsgLoggingIn, StatusInfo)
		return kh.app, kh.app.login(username, password)

	case ViewSignup:
		username := strings.TrimSpace(kh.app.inputs[0].Value())
		name := strings.TrimSpace(kh.app.inputs[1].Value())
		password := kh.app.inputs[2].Value()
		if username == "" || password == "" {
			return kh.app, nil
		}
		kh.app.setStatus(MsgSigningUp, StatusInfo)
		return kh.app, kh.app.signup(username, password, name)

	case ViewSubmit:
		title := strings.TrimSpace(kh.app.inputs[0].Value())
		author := strings.TrimSpace(kh.app.inputs[1].Value())
		rawURL := strings.TrimSpace(kh.app.inputs[2].Value())
		if title == "" || rawURL == "" {
			return kh.app, nil
		}
		kh.app.setStatus(MsgSubmitting, StatusInfo)
		return kh.app, kh.app.submitStory(title, author, rawURL)

	case ViewSearch:
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if i, ok := items[0].(searchResultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the focused text input
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewLogin, ViewSignup, ViewSubmit:
		if kh.app.focusIndex < len(kh.app.inputs) {
			newInput, cmd := kh.app.inputs[kh.app.focusIndex].Update(msg)
			kh.app.inputs[kh.app.focusIndex] = newInput
			return kh.app, cmd
		}
		return kh.app, nil

	case ViewSearch:
		prev := kh.app.searchInput.Value()
		newSearchInput, cmd := kh.app.searchInput.Update(msg)
		kh.app.searchInput = newSearchInput

		newVal := kh.sanitizeSearchInput(kh.app.searchInput.Value())
		if newVal != prev && len(newVal) > 1 {
			return kh.app, tea.Batch(cmd, kh.app.performSearch(newVal))
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	bindings := kh.config.Keys.Bindings

	// Global custom keys
	switch key {
	case "ctrl+c", bindings.Quit:
		return kh.app, tea.Quit, true
	case bindings.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.modifierKey + bindings.Search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.modifierKey + bindings.Refresh:
		kh.app.setStatus(MsgRefreshing, StatusInfo)
		return kh.app, kh.app.loadFeed(), true
	case kh.modifierKey + bindings.Login:
		model, cmd := kh.toggleSession()
		return model, cmd, true
	case "tab":
		if kh.app.view.isCollection() {
			kh.cycleCollection()
			return kh.app, nil, true
		}
	case "S":
		if kh.app.view.isCollection() {
			kh.app.view = ViewSignup
			kh.app.collection = kh.previousCollection()
			return kh.app, kh.enterSignupForm(), true
		}
	}

	// View-specific custom keys
	switch {
	case kh.app.view.isCollection():
		return kh.handleCollectionCustomKeys(key)
	case kh.app.view == ViewDetail:
		return kh.handleDetailCustomKeys(key)
	case kh.app.view == ViewDeleteConfirm:
		return kh.handleDeleteConfirmKeys(key)
	default:
		return kh.app, nil, false
	}
}

// previousCollection remembers the collection to return to from a form.
func (kh *KeyHandler) previousCollection() View {
	if kh.app.view.isCollection() {
		return kh.app.view
	}
	return kh.app.collection
}

// cycleCollection advances to the next story collection tab.
func (kh *KeyHandler) cycleCollection() {
	for i, v := range collectionViews {
		if v == kh.app.collection {
			next := collectionViews[(i+1)%len(collectionViews)]
			// Favorites and own stories need a login.
			if next != ViewFeed && kh.app.user == nil {
				next = ViewFeed
			}
			kh.app.collection = next
			kh.app.view = next
			kh.app.refreshItems()
			return
		}
	}
	kh.app.collection = ViewFeed
	kh.app.view = ViewFeed
	kh.app.refreshItems()
}

func (kh *KeyHandler) handleCollectionCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	bindings := kh.config.Keys.Bindings

	switch key {
	case kh.modifierKey + bindings.SubmitStory:
		if kh.app.user == nil {
			kh.app.setStatus(MsgLoginRequired, StatusWarn)
			return kh.app, nil, true
		}
		kh.app.view = ViewSubmit
		return kh.app, kh.enterSubmitForm(), true

	case kh.modifierKey + bindings.ToggleFavorite:
		if s := kh.app.selectedStory(); s != nil {
			if kh.app.user == nil {
				kh.app.setStatus(MsgLoginRequired, StatusWarn)
				return kh.app, nil, true
			}
			return kh.app, kh.app.toggleFavorite(*s), true
		}
		return kh.app, nil, true

	case kh.modifierKey + bindings.DeleteStory:
		if s := kh.app.selectedStory(); s != nil {
			if kh.app.user == nil {
				kh.app.setStatus(MsgLoginRequired, StatusWarn)
				return kh.app, nil, true
			}
			kh.app.storyToDelete = s
			kh.app.view = ViewDeleteConfirm
			return kh.app, nil, true
		}
		return kh.app, nil, true

	case kh.modifierKey + bindings.OpenStory:
		if s := kh.app.selectedStory(); s != nil {
			return kh.app, kh.app.openStory(*s), true
		}
		return kh.app, nil, true
	}

	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	bindings := kh.config.Keys.Bindings

	switch key {
	case kh.modifierKey + bindings.OpenStory:
		if kh.app.currentStory != nil {
			return kh.app, kh.app.openStory(*kh.app.currentStory), true
		}
		return kh.app, nil, true
	case kh.modifierKey + bindings.ToggleFavorite:
		if kh.app.currentStory != nil && kh.app.user != nil {
			return kh.app, kh.app.toggleFavorite(*kh.app.currentStory), true
		}
		return kh.app, nil, true
	}

	return kh.app, nil, false
}

func (kh *KeyHandler) handleDeleteConfirmKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == "enter" {
		if kh.app.storyToDelete != nil {
			kh.app.setStatus(MsgDeleting, StatusInfo)
			return kh.app, kh.app.deleteStory(*kh.app.storyToDelete), true
		}
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case kh.app.view.isCollection():
		kh.app.storyList, cmd = kh.app.storyList.Update(msg)
		if msg.String() == "enter" {
			if s := kh.app.selectedStory(); s != nil {
				return kh.openDetail(*s)
			}
		}
		return kh.app, cmd

	case kh.app.view == ViewSearch:
		if !kh.app.searchInput.Focused() {
			switch msg.String() {
			case "tab", "shift+tab":
				kh.app.searchInput.Focus()
				return kh.app, nil
			case "up":
				if len(kh.app.searchList.Items()) > 0 && kh.app.searchList.Index() == 0 {
					kh.app.searchInput.Focus()
					return kh.app, nil
				}
			case "/", "i":
				kh.app.searchInput.Focus()
				return kh.app, nil
			}
		}

		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
		if msg.String() == "enter" && !kh.app.searchInput.Focused() {
			if i, ok := kh.app.searchList.SelectedItem().(searchResultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, cmd

	case kh.app.view == ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// openDetail switches to the story detail view.
func (kh *KeyHandler) openDetail(s story.Story) (tea.Model, tea.Cmd) {
	kh.app.currentStory = &s
	kh.app.loadingStory = true
	kh.app.view = ViewDetail
	return kh.app, kh.app.renderStory(s)
}

// selectSearchResult opens the browser on a selected search result.
func (kh *KeyHandler) selectSearchResult(result searchResultItem) (tea.Model, tea.Cmd) {
	s := cachedToStory(result.story)
	return kh.openDetail(s)
}

// toggleSession opens the login form, or logs out when signed in.
func (kh *KeyHandler) toggleSession() (tea.Model, tea.Cmd) {
	if kh.app.user != nil {
		return kh.app, kh.app.logout()
	}
	kh.app.collection = kh.previousCollection()
	kh.app.view = ViewLogin
	return kh.app, kh.enterLoginForm()
}

func (kh *KeyHandler) enterLoginForm() tea.Cmd {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	kh.app.inputs = []textinput.Model{username, password}
	kh.app.focusIndex = 0
	return kh.app.inputs[0].Focus()
}

func (kh *KeyHandler) enterSignupForm() tea.Cmd {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	kh.app.inputs = []textinput.Model{username, name, password}
	kh.app.focusIndex = 0
	return kh.app.inputs[0].Focus()
}

func (kh *KeyHandler) enterSubmitForm() tea.Cmd {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 256

	author := textinput.New()
	author.Placeholder = "author"
	author.CharLimit = 128

	storyURL := textinput.New()
	storyURL.Placeholder = "https://…"
	storyURL.CharLimit = 2048

	kh.app.inputs = []textinput.Model{title, author, storyURL}
	kh.app.focusIndex = 0
	return kh.app.inputs[0].Focus()
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewLogin, ViewSignup, ViewSubmit, ViewDeleteConfirm:
		kh.app.view = kh.app.collection
		kh.app.storyToDelete = nil
		kh.app.inputs = nil
		kh.app.focusIndex = 0
		return kh.app, nil

	case ViewSearch:
		kh.app.view = kh.app.previousView
		kh.app.searchInput.Reset()
		kh.app.searchResults = []searchResultItem{}
		kh.app.searchList.SetItems([]list.Item{})
		return kh.app, nil

	case ViewDetail:
		kh.app.currentStory = nil
		kh.app.view = kh.app.collection
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// enterSearchMode transitions to search view
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.previousView = kh.app.view
	kh.app.view = ViewSearch
	kh.app.searchInput.Reset()
	kh.app.searchInput.Focus()
	kh.app.searchResults = []searchResultItem{}
	kh.app.searchList.SetItems([]list.Item{})
	if ds, ok := kh.app.searchEngine.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			kh.app.setStatus(fmt.Sprintf("Searching %d cached stories", n), StatusInfo)
			return kh.app, nil
		}
	}
	return kh.app, nil
}

// sanitizeSearchInput sanitizes and limits search input length
func (kh *KeyHandler) sanitizeSearchInput(input string) string {
	input = strings.TrimSpace(input)

	if len(input) > 256 {
		input = input[:256]
	}

	var b strings.Builder
	for _, r := range input {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	bindings := kh.config.Keys.Bindings
	mod := kh.modifierKey

	switch {
	case kh.app.view.isCollection():
		help := []string{"tab: switch list", mod + bindings.Search + ": search", mod + bindings.Refresh + ": refresh"}
		if kh.app.user == nil {
			help = append(help, mod+bindings.Login+": log in", "S: sign up")
		} else {
			help = append(help,
				mod+bindings.SubmitStory+": submit",
				mod+bindings.ToggleFavorite+": favorite",
				mod+bindings.Login+": log out",
			)
			if kh.app.view == ViewMyStories {
				help = append(help, mod+bindings.DeleteStory+": delete")
			}
		}
		return help

	case kh.app.view == ViewDetail:
		return []string{mod + bindings.OpenStory + ": open in browser", "esc: back"}

	case kh.app.view == ViewSearch:
		return []string{mod + bindings.Search + ": search"}

	case kh.app.view == ViewLogin:
		return []string{"enter: log in", "tab: next field", "esc: cancel"}

	case kh.app.view == ViewSignup:
		return []string{"enter: sign up", "tab: next field", "esc: cancel"}

	case kh.app.view == ViewSubmit:
		return []string{"enter: submit", "tab: next field", "esc: cancel"}

	case kh.app.view == ViewDeleteConfirm:
		return []string{"enter: confirm", "esc: cancel"}

	default:
		return []string{}
	}
}
