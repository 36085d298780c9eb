package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"snooze/internal/api"
	"snooze/internal/browser"
	"snooze/internal/config"
	"snooze/internal/search"
	"snooze/internal/session"
	"snooze/internal/storage"
	"snooze/internal/story"
	"snooze/internal/validation"
)

var errNotLoggedIn = errors.New("not logged in; run 'snooze login <username> <password>' first")

var (
	flagAuthor      string
	flagLimit       int
	flagSearchLimit int
)

// setup opens everything a CLI command needs. The caller closes the store.
func setup() (*config.Config, *api.Client, *storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, api.NewClient(cfg), store, nil
}

func requireCredentials(store *storage.Store) (*storage.Credentials, error) {
	creds, err := store.Session()
	if err != nil {
		return nil, err
	}
	if creds == nil || creds.Token == "" {
		return nil, errNotLoggedIn
	}
	return creds, nil
}

// snapshotFeed mirrors a fetched feed into the local cache and index.
func snapshotFeed(store *storage.Store, cfg *config.Config, l *story.List) {
	cached := make([]storage.CachedStory, 0, len(l.Stories))
	for _, s := range l.Stories {
		cached = append(cached, storage.CachedStory{
			ID:        s.ID,
			Title:     s.Title,
			Author:    s.Author,
			URL:       s.URL,
			Username:  s.Username,
			CreatedAt: s.CreatedAt,
		})
	}

	if err := store.SaveFeedSnapshot(cached); err != nil {
		return
	}
	engine := newSearchEngine(store, cfg)
	if listener, ok := engine.(search.UpdateListener); ok {
		listener.OnFeedUpdated(cached)
	}
	if closer, ok := engine.(interface{ Close() error }); ok {
		closer.Close()
	}
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and save the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := session.Login(context.Background(), client, args[0], args[1])
		if err != nil {
			return err
		}

		if err := store.SaveSession(&storage.Credentials{
			Token:    user.Token,
			Username: user.Username,
			SavedAt:  time.Now(),
		}); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s\n", user.Username)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <username> <password> [name]",
	Short: "Create an account and log in",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		name := args[0]
		if len(args) == 3 {
			name = args[2]
		}

		user, err := session.Signup(context.Background(), client, args[0], args[1], name)
		if err != nil {
			return err
		}

		if err := store.SaveSession(&storage.Credentials{
			Token:    user.Token,
			Username: user.Username,
			SavedAt:  time.Now(),
		}); err != nil {
			return err
		}

		fmt.Printf("Welcome, %s\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ClearSession(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		creds, err := requireCredentials(store)
		if err != nil {
			return err
		}

		user, err := session.Resume(context.Background(), client, creds.Token, creds.Username)
		if err != nil {
			return err
		}
		if user == nil {
			return errors.New("saved session is no longer valid; log in again")
		}

		fmt.Printf("%s (%s)\n", user.Username, user.Name)
		fmt.Printf("%d favorites, %d stories\n", len(user.Favorites), len(user.OwnStories))
		return nil
	},
}

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List the most recent stories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		l, err := story.FetchAll(context.Background(), client)
		if err != nil {
			return err
		}

		snapshotFeed(store, cfg, l)

		printStories(l.Stories, flagLimit)
		return nil
	},
}

func printStories(stories []story.Story, limit int) {
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSITE\tPOSTED BY")
	for _, s := range stories {
		host, err := s.Hostname()
		if err != nil {
			host = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Title, host, s.Username)
	}
	w.Flush()
}

var submitCmd = &cobra.Command{
	Use:   "submit <title> <url>",
	Short: "Submit a new story",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		creds, err := requireCredentials(store)
		if err != nil {
			return err
		}

		normalized, err := validation.NewStoryURLValidator().ValidateAndNormalize(args[1])
		if err != nil {
			return err
		}

		author := flagAuthor
		if author == "" {
			author = creds.Username
		}

		s, err := story.Create(context.Background(), client, creds.Token, story.Draft{
			Title:  args[0],
			Author: author,
			URL:    normalized,
		})
		if err != nil {
			return err
		}

		host, _ := s.Hostname()
		fmt.Printf("Submitted %s (%s)\n", s.ID, host)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <storyID>",
	Short: "Delete one of your stories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		creds, err := requireCredentials(store)
		if err != nil {
			return err
		}

		s, err := story.Delete(context.Background(), client, creds.Token, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Deleted %q\n", s.Title)
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <storyID>",
	Short: "Mark a story as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setFavorite(args[0], true) },
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite <storyID>",
	Short: "Remove a story from your favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setFavorite(args[0], false) },
}

func setFavorite(storyID string, favorite bool) error {
	_, client, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	creds, err := requireCredentials(store)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if favorite {
		err = client.AddFavorite(ctx, creds.Token, creds.Username, storyID)
	} else {
		err = client.RemoveFavorite(ctx, creds.Token, creds.Username, storyID)
	}
	if err != nil {
		return err
	}

	if favorite {
		fmt.Println("Favorited")
	} else {
		fmt.Println("Unfavorited")
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search cached stories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		engine := newSearchEngine(store, cfg)
		if closer, ok := engine.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		results, err := engine.Search(strings.Join(args, " "), flagSearchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results. Run 'snooze stories' to refresh the cache.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPOSTED BY")
		for _, r := range results {
			if r.Story == nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Story.ID, r.Story.Title, r.Story.Username)
		}
		return w.Flush()
	},
}

var openCmd = &cobra.Command{
	Use:   "open <storyID>",
	Short: "Open a cached story in the browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, store, err := setup()
		if err != nil {
			return err
		}
		defer store.Close()

		target := args[0]
		if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
			snapshot, err := store.FeedSnapshot()
			if err != nil {
				return err
			}
			if snapshot == nil {
				return errors.New("no cached stories; run 'snooze stories' first")
			}
			found := ""
			for _, s := range snapshot.Stories {
				if s.ID == target {
					found = s.URL
					break
				}
			}
			if found == "" {
				return fmt.Errorf("story %q not in the cached feed", target)
			}
			target = found
		}

		return browser.NewLauncher(cfg).Open(target)
	},
}

func init() {
	submitCmd.Flags().StringVar(&flagAuthor, "author", "", "Author byline (defaults to your username)")
	storiesCmd.Flags().IntVar(&flagLimit, "limit", 25, "Maximum stories to list")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 10, "Maximum results")
}
