package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},
		{"OFF", LevelOff},
		{"off", LevelOff},
		{"INVALID", LevelInfo}, // Default to INFO
		{"", LevelInfo},        // Default to INFO
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	if err := Setup(LevelInfo, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	if GetLevel() != LevelInfo {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelInfo)
	}

	Debugf("debug message") // Should not appear
	Infof("info message")
	Warnf("warn message")
	Errorf("error message")

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "debug message") {
		t.Error("debug output present at INFO level")
	}
	for _, want := range []string{"info message", "warn message", "error message"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q", want)
		}
	}
	if !strings.Contains(content, `"app":"snooze"`) {
		t.Error("log entries missing the app field")
	}
}

func TestSetupOffDisablesLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "off.log")

	if err := Setup(LevelOff, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	Infof("should not be written")

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("log file created even though logging is off")
	}
}

func TestSetLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	if err := Setup(LevelError, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	Warnf("suppressed warning")
	SetLevel(LevelWarn)
	Warnf("visible warning")
	Close()

	data, _ := os.ReadFile(logPath)
	content := string(data)

	if strings.Contains(content, "suppressed warning") {
		t.Error("warning logged below the active level")
	}
	if !strings.Contains(content, "visible warning") {
		t.Error("warning missing after SetLevel")
	}
}

func TestWithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")

	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	fl := WithFields(map[string]interface{}{"story_id": "abc123"})
	fl.Infof("indexed story")
	Close()

	data, _ := os.ReadFile(logPath)
	content := string(data)

	if !strings.Contains(content, `"story_id":"abc123"`) {
		t.Errorf("field missing from entry: %s", content)
	}
	if !strings.Contains(content, "indexed story") {
		t.Error("message missing from entry")
	}
}

func TestCloseWithoutSetup(t *testing.T) {
	if err := Close(); err != nil {
		t.Errorf("Close with nothing open errored: %v", err)
	}
}
