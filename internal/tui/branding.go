package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "snooze"

// ASCII art logo lines for snooze - canonical definition
var LogoLines = []string{
	"▄▀▀ █▄ █ ▄▀▄ ▄▀▄ ▀▀█ ██▀",
	"▄██ █ ▀█ ▀▄▀ ▀▄▀ █▄▄ █▄▄",
}

const CompactLogo = "snooze ›"

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	SurfaceColor    = lipgloss.Color("#16213E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	FavoriteColor = lipgloss.Color("#FFE66D")
	OwnColor      = lipgloss.Color("#64748B")
	ErrorColor    = lipgloss.Color("#EF4444")
	SuccessColor  = lipgloss.Color("#10B981")
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	FavoriteItemStyle = lipgloss.NewStyle().
				Foreground(FavoriteColor)

	OwnItemStyle = lipgloss.NewStyle().
			Foreground(OwnColor)
)

// GetWelcomeMessage renders the empty-feed welcome screen.
func GetWelcomeMessage() string {
	logo := LogoStyle.Render(CompactLogo)
	return fmt.Sprintf("%s\n\n%s\n%s",
		logo,
		"No stories loaded yet.",
		HelpStyle.Render("Press ctrl+r to fetch the feed"))
}
