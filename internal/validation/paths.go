package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathHandler validates and expands the file paths the app writes to: the
// local database, the config file and the search index.
type PathHandler struct {
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

func NewPathHandler() *PathHandler {
	return &PathHandler{MaxPathLength: 4096}
}

// ExpandAndValidate expands ~ and cleans the path, rejecting traversal and
// control characters.
func (ph *PathHandler) ExpandAndValidate(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > ph.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", ph.MaxPathLength)
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null bytes")
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	clean := filepath.Clean(path)
	for _, component := range strings.Split(filepath.ToSlash(clean), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}
	return clean, nil
}

// DBPath returns a validated database path, defaulting to ~/.snooze.db.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".snooze.db")
	}
	return ph.ExpandAndValidate(userPath)
}

// ConfigPath returns a validated config file path, defaulting to
// ~/.config/snooze/config.toml.
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".config", "snooze", "config.toml")
	}
	return ph.ExpandAndValidate(userPath)
}

// IndexPath returns a validated search index path, defaulting to
// ~/.snooze/index.bleve.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".snooze", "index.bleve")
	}
	return ph.ExpandAndValidate(userPath)
}
