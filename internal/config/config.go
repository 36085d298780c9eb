package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type BrowserConfig struct {
	// Command overrides platform browser detection when set.
	Command       string `mapstructure:"command"`
	DefaultOpener string `mapstructure:"default_opener"`
}

type UIConfig struct {
	Colors UIColors    `mapstructure:"colors"`
	Story  StoryConfig `mapstructure:"story"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type StoryConfig struct {
	MaxTitleLength   int `mapstructure:"max_title_length"`
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit           string `mapstructure:"quit"`
	Search         string `mapstructure:"search"`
	SubmitStory    string `mapstructure:"submit_story"`
	DeleteStory    string `mapstructure:"delete_story"`
	Refresh        string `mapstructure:"refresh"`
	ToggleFavorite string `mapstructure:"toggle_favorite"`
	OpenStory      string `mapstructure:"open_story"`
	Login          string `mapstructure:"login"`
	Back           string `mapstructure:"back"`
	Help           string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".snooze.db")
	searchIndexPath := filepath.Join(homeDir, ".snooze", "index.bleve")

	return &Config{
		API: APIConfig{
			BaseURL:   "https://hack-or-snooze-v3.herokuapp.com",
			Timeout:   30 * time.Second,
			UserAgent: "snooze/1.0 (terminal hack-or-snooze client)",
		},
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
		},
		Browser: BrowserConfig{
			DefaultOpener: getDefaultOpener(),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Story: StoryConfig{
				MaxTitleLength:   80,
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:           "q",
				Search:         "s",
				SubmitStory:    "n",
				DeleteStory:    "x",
				Refresh:        "r",
				ToggleFavorite: "f",
				OpenStory:      "o",
				Login:          "l",
				Back:           "esc",
				Help:           "?",
			},
		},
		Log: LogConfig{
			Level: "off",
			Path:  "",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("browser", cfg.Browser)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "snooze")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SNOOZE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// expandPaths expands all paths in the config
func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":   config.API.BaseURL,
		"timeout":    config.API.Timeout.String(),
		"user_agent": config.API.UserAgent,
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	v.Set("api", apiCfg)
	v.Set("database", dbCfg)
	v.Set("browser", config.Browser)
	v.Set("ui", config.UI)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
