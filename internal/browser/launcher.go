package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"snooze/internal/config"
	"snooze/internal/debuglog"
)

// Launcher opens story URLs in the user's browser. A configured command wins;
// otherwise the highest-priority installed browser for the platform is used,
// falling back to the platform opener.
type Launcher struct {
	command       string
	defaultOpener string
	registry      *Registry
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewRegistry()
	if err != nil {
		// Continue with the opener only if definitions can't be loaded
		registry = &Registry{browsers: make(map[string]Definition)}
	}

	defaultOpener := cfg.Browser.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = fallbackOpener()
	}

	l := &Launcher{
		command:       cfg.Browser.Command,
		defaultOpener: defaultOpener,
		registry:      registry,
	}

	if l.command == "" {
		if name := findCommand(registry.CandidatesFor(runtime.GOOS)...); name != "" {
			l.command = name
		}
	}

	return l
}

// Open launches url in a browser. Only http(s) URLs are passed to external
// commands.
func (l *Launcher) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http url: %q", url)
	}

	var cmd *exec.Cmd
	if l.command != "" {
		cmd = l.registry.Command(l.command, url)
	} else {
		cmd = exec.Command(l.defaultOpener, url)
	}

	debuglog.Debugf("opening %s with %s", url, cmd.Path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	// Detach; the browser outlives us and we don't collect its status.
	go func() { _ = cmd.Wait() }()
	return nil
}

// findCommand returns the first candidate found on PATH.
func findCommand(candidates ...string) string {
	for _, candidate := range candidates {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func fallbackOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}
