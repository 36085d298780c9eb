package browser

import (
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	for _, name := range []string{"firefox", "chromium", "safari"} {
		if _, ok := registry.browsers[name]; !ok {
			t.Errorf("embedded definitions missing %q", name)
		}
	}
}

func TestCandidatesFor(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	linux := registry.CandidatesFor("linux")
	if len(linux) == 0 {
		t.Fatal("no linux candidates")
	}
	// firefox has the highest priority of the built-ins.
	if linux[0] != "firefox" {
		t.Errorf("first linux candidate = %s, want firefox", linux[0])
	}
	for _, name := range linux {
		if name == "safari" {
			t.Error("safari should not be a linux candidate")
		}
	}

	darwin := registry.CandidatesFor("darwin")
	found := false
	for _, name := range darwin {
		if name == "safari" {
			found = true
		}
	}
	if !found {
		t.Error("safari missing from darwin candidates")
	}

	if got := registry.CandidatesFor("plan9"); len(got) != 0 {
		t.Errorf("CandidatesFor(plan9) = %v, want none", got)
	}
}

func TestCandidatesOrderStable(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	first := registry.CandidatesFor("linux")
	for range 5 {
		if got := strings.Join(registry.CandidatesFor("linux"), ","); got != strings.Join(first, ",") {
			t.Fatalf("candidate order not deterministic: %s vs %s", got, strings.Join(first, ","))
		}
	}
}

func TestRegistryCommand(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	// Plain definition: executable is the map key, url is the only arg.
	cmd := registry.Command("firefox", "https://example.com")
	if len(cmd.Args) != 2 || cmd.Args[1] != "https://example.com" {
		t.Errorf("firefox args = %v", cmd.Args)
	}

	// Definition with a command override and extra args.
	cmd = registry.Command("safari", "https://example.com")
	if !strings.HasSuffix(cmd.Args[0], "open") {
		t.Errorf("safari executable = %s, want open", cmd.Args[0])
	}
	want := []string{"-a", "Safari", "https://example.com"}
	if len(cmd.Args) != 4 {
		t.Fatalf("safari args = %v", cmd.Args)
	}
	for i, arg := range want {
		if cmd.Args[i+1] != arg {
			t.Errorf("safari args[%d] = %s, want %s", i+1, cmd.Args[i+1], arg)
		}
	}

	// Unknown names still produce a best-effort command.
	cmd = registry.Command("netsurf", "https://example.com")
	if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
		t.Errorf("unknown browser args = %v", cmd.Args)
	}
}
