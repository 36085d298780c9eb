package tui

import (
	"fmt"
)

// Canonical short status messages used across the app.
const (
	MsgRefreshing    = "Refreshing…"
	MsgSubmitting    = "Submitting…"
	MsgDeleting      = "Deleting…"
	MsgLoggingIn     = "Logging in…"
	MsgSigningUp     = "Signing up…"
	MsgNoResults     = "No results"
	MsgStoryDeleted  = "Story deleted"
	MsgLoggedOut     = "Logged out"
	MsgLoginRequired = "Log in first (ctrl+l)"
)

func MsgSubmitted(title string) string {
	return fmt.Sprintf("Submitted '%s'", title)
}

func MsgLoggedIn(username string) string {
	return fmt.Sprintf("Logged in as %s", username)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgFeedLoaded(n int) string {
	return fmt.Sprintf("Loaded %d stories", n)
}
