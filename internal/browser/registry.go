package browser

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

//go:embed browsers.toml
var browsersTOML []byte

// Definition describes how a browser is invoked for a URL.
type Definition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Priority    int      `toml:"priority"`
	// Command overrides the map key as the executable name.
	Command string   `toml:"command,omitempty"`
	Args    []string `toml:"args,omitempty"`
}

type browsersConfig struct {
	Browsers map[string]Definition `toml:"browsers"`
}

// Registry manages browser definitions.
type Registry struct {
	browsers map[string]Definition
}

// NewRegistry creates a registry from the embedded TOML, merged with the
// user's own definitions when present.
func NewRegistry() (*Registry, error) {
	var config browsersConfig
	if err := toml.Unmarshal(browsersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing browsers.toml: %w", err)
	}

	registry := &Registry{browsers: config.Browsers}
	registry.loadUserConfig()
	return registry, nil
}

func (r *Registry) loadUserConfig() {
	configPaths := []string{
		"~/.config/snooze/browsers.toml",
		"./browsers.toml",
	}

	for _, path := range configPaths {
		if len(path) >= 2 && path[:2] == "~/" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}

		if data, err := os.ReadFile(path); err == nil {
			var userConfig browsersConfig
			if err := toml.Unmarshal(data, &userConfig); err == nil {
				for name, def := range userConfig.Browsers {
					r.browsers[name] = def
				}
			}
		}
	}
}

// CandidatesFor returns browser names supporting the platform, highest
// priority first.
func (r *Registry) CandidatesFor(goos string) []string {
	var names []string
	for name, def := range r.browsers {
		for _, p := range def.Platforms {
			if p == goos {
				names = append(names, name)
				break
			}
		}
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.browsers[names[i]].Priority, r.browsers[names[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// Command builds the exec command opening url with the named browser.
func (r *Registry) Command(name, url string) *exec.Cmd {
	def, exists := r.browsers[name]
	if !exists {
		return exec.Command(name, url)
	}

	executable := def.Command
	if executable == "" {
		executable = name
	}
	args := append(append([]string{}, def.Args...), url)
	return exec.Command(executable, args...)
}
