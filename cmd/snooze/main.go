package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"snooze/internal/api"
	"snooze/internal/config"
	"snooze/internal/debuglog"
	"snooze/internal/search"
	"snooze/internal/storage"
	"snooze/internal/tui"
	"snooze/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfigPath string
	flagDBPath     string
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "snooze",
	Short: "Terminal client for the hack-or-snooze story feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("snooze %s\n", Version)
		fmt.Println("Story feed client")
		fmt.Println("hack-or-snooze-v3.herokuapp.com")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate default config file",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "snooze", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database file (overrides config)")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
	rootCmd.AddCommand(
		loginCmd, signupCmd, logoutCmd, whoamiCmd,
		storiesCmd, submitCmd, deleteCmd,
		favoriteCmd, unfavoriteCmd,
		searchCmd, openCmd,
	)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	paths := validation.NewPathHandler()

	configPath := flagConfigPath
	if configPath != "" {
		expanded, err := paths.ConfigPath(configPath)
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		configPath = expanded
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagDBPath != "" {
		cfg.Database.Path = flagDBPath
	}

	dbPath, err := paths.DBPath(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	cfg.Database.Path = dbPath

	indexPath, err := paths.IndexPath(cfg.Database.SearchIndex)
	if err != nil {
		return nil, fmt.Errorf("search index path: %w", err)
	}
	cfg.Database.SearchIndex = indexPath

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level != debuglog.LevelOff {
		if err := debuglog.Setup(level, cfg.Log.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		}
	}

	return cfg, nil
}

// newSearchEngine prefers the persistent index, falling back to a scan
// of the cached snapshot when the index cannot be opened.
func newSearchEngine(store *storage.Store, cfg *config.Config) search.Searcher {
	engine, err := search.NewBleveEngine(store, cfg.Database.SearchIndex)
	if err != nil {
		debuglog.Warnf("Search index unavailable, using fallback: %v", err)
		return search.NewEngine(store)
	}
	return engine
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !flagQuiet {
		showBanner()
	}

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	client := api.NewClient(cfg)
	engine := newSearchEngine(store, cfg)
	if closer, ok := engine.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	app := tui.NewApp(store, client, engine, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

func showBanner() {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	primary := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

	banner := lipgloss.JoinVertical(
		lipgloss.Center,
		primary.Render(strings.Join(tui.LogoLines, "\n")),
		accent.Render("stories worth staying up for"),
	)

	fmt.Println(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(0, 2).
		Render(banner))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
