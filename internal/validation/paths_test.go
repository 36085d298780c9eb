package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandAndValidate(t *testing.T) {
	ph := NewPathHandler()
	home, _ := os.UserHomeDir()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"absolute path", "/tmp/snooze.db", "/tmp/snooze.db", false},
		{"tilde expansion", "~/snooze.db", filepath.Join(home, "snooze.db"), false},
		{"relative path cleaned", "data//snooze.db", "data/snooze.db", false},
		{"empty", "", "", true},
		{"null byte", "/tmp/\x00evil", "", true},
		{"control character", "/tmp/\x07bell", "", true},
		{"absolute traversal normalized", "/tmp/../etc/passwd", "/etc/passwd", false},
		{"relative traversal", "../etc/passwd", "", true},
		{"bare tilde user", "~root/file", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ph.ExpandAndValidate(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExpandAndValidate(%q) = %q, want error", tt.input, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("ExpandAndValidate(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandAndValidate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandAndValidateMaxLength(t *testing.T) {
	ph := NewPathHandler()

	if _, err := ph.ExpandAndValidate("/" + strings.Repeat("a", ph.MaxPathLength)); err == nil {
		t.Error("over-long path should be rejected")
	}
}

func TestDefaultPaths(t *testing.T) {
	ph := NewPathHandler()
	home, _ := os.UserHomeDir()

	dbPath, err := ph.DBPath("")
	if err != nil {
		t.Fatalf("DBPath() error: %v", err)
	}
	if dbPath != filepath.Join(home, ".snooze.db") {
		t.Errorf("DBPath() = %s, want ~/.snooze.db", dbPath)
	}

	configPath, err := ph.ConfigPath("")
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if configPath != filepath.Join(home, ".config", "snooze", "config.toml") {
		t.Errorf("ConfigPath() = %s", configPath)
	}

	indexPath, err := ph.IndexPath("")
	if err != nil {
		t.Fatalf("IndexPath() error: %v", err)
	}
	if indexPath != filepath.Join(home, ".snooze", "index.bleve") {
		t.Errorf("IndexPath() = %s", indexPath)
	}
}

func TestPathOverrides(t *testing.T) {
	ph := NewPathHandler()

	dbPath, err := ph.DBPath("/custom/place/stories.db")
	if err != nil {
		t.Fatalf("DBPath() error: %v", err)
	}
	if dbPath != "/custom/place/stories.db" {
		t.Errorf("DBPath() = %s, want the override", dbPath)
	}
}
