package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:0",
			Timeout:   5 * time.Second,
			UserAgent: "snooze-test/1.0",
		},
		Database: DatabaseConfig{
			Path:    ":memory:", // overridden per test with t.TempDir()
			Timeout: 1 * time.Second,
		},
		Browser: defaultConfig().Browser,
		UI:      defaultConfig().UI,
		Keys:    defaultConfig().Keys,
		Log:     LogConfig{Level: "off"},
	}
}
