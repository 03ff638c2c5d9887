package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dcereceda/academisearch/internal/collect"
	"github.com/dcereceda/academisearch/internal/config"
	"github.com/dcereceda/academisearch/internal/database"
	"github.com/dcereceda/academisearch/internal/fetch"
	"github.com/dcereceda/academisearch/internal/game"
	"github.com/dcereceda/academisearch/internal/progress"
	"github.com/dcereceda/academisearch/internal/search"
	"github.com/dcereceda/academisearch/internal/server"
	"github.com/dcereceda/academisearch/internal/session"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "academisearch",
	Short:   "Gamified academic article search",
	Long:    "AcademiSearch finds academic articles through a semantic search backend and turns reading them into points, levels, badges and daily streaks.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("academisearch", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/academisearch/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure the search endpoint, storage backend, and fallback feeds.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress and catalog status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, closeStore, err := newStore(db)
		if err != nil {
			return err
		}
		defer closeStore()

		record, err := store.Load()
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}
		if record == nil {
			record = progress.NewRecord(time.Now())
		}

		fmt.Printf("Storage backend: %s\n\n", cfg.Storage.Backend)
		fmt.Println("Progress:")
		fmt.Printf("  Points: %d (%s)\n", record.Points, record.Level)
		fmt.Printf("  Searches: %d\n", record.SearchCount)
		fmt.Printf("  Articles read: %d\n", len(record.ArticlesRead))
		fmt.Printf("  Topics explored: %d\n", len(record.TopicsExplored))
		fmt.Printf("  Flashcard sessions: %d\n", record.FlashcardsCompleted)
		fmt.Printf("  Streak: %d day(s), last visit %s\n", record.StreakDays, record.LastVisit)
		fmt.Printf("  Badges: %d/%d\n", len(record.UnlockedBadges), len(game.Badges))

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}
		fmt.Println("\nOffline catalog:")
		fmt.Printf("  Articles: %d\n", stats.CatalogArticles)
		fmt.Printf("  Cached full texts: %d\n", stats.CachedFullTexts)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the offline catalog from configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Fallback.Feeds) == 0 {
			fmt.Println("No fallback feeds configured.")
			return nil
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Printf("Refreshing catalog from %d feed(s)...\n", len(cfg.Fallback.Feeds))
		result := collect.Refresh(db, cfg.Fallback.Feeds)

		fmt.Println("\nRefresh complete:")
		fmt.Printf("  Total found: %d\n", result.TotalFound)
		fmt.Printf("  New articles: %d\n", result.NewArticles)
		fmt.Printf("  Duplicates skipped: %d\n", result.Duplicates)
		if result.FeedErrors > 0 {
			fmt.Printf("  Feed errors: %d\n", result.FeedErrors)
		}
		return nil
	},
}

// --- search command ---

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for articles",
	Long:  "Search for articles through the configured backend. With no arguments an interactive prompt opens; typed queries are debounced the way the web UI debounces keystrokes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		sess, closeStore, err := newSession(db)
		if err != nil {
			return err
		}
		defer closeStore()

		if len(args) > 0 {
			runSearch(sess, strings.Join(args, " "))
			return nil
		}
		return interactiveSearch(sess)
	},
}

func runSearch(sess *session.Session, query string) {
	out := sess.Search(context.Background(), query)
	if out.Stale {
		return
	}
	if out.Degraded {
		fmt.Println("Search backend unreachable; showing offline catalog results.")
	}
	if len(out.Articles) == 0 {
		fmt.Printf("No results for %q.\n", out.Query)
		return
	}

	fmt.Printf("Results for %q:\n\n", out.Query)
	for i, a := range out.Articles {
		fmt.Printf("%2d. [%s] %s\n", i+1, a.ScoreDisplay(), a.Title)
		fmt.Printf("    %s (%s) · %s · %s\n", a.Author, a.Year, a.Topic, a.ID)
	}

	for _, n := range sess.DrainNotifications() {
		fmt.Printf("\n%s: %s\n", n.Title, n.Description)
	}
}

// interactiveSearch reads queries from stdin. Each line retriggers the
// debouncer, so a line pasted right after another supersedes it and
// too-short queries never hit the backend.
func interactiveSearch(sess *session.Session) error {
	debouncer := search.NewDebouncer(cfg.Debounce(), cfg.Search.MinQueryLength)
	defer debouncer.Cancel()

	fmt.Println("Type a query and press Enter (empty line quits).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		done := make(chan struct{})
		debouncer.Trigger(query, func(q string) {
			runSearch(sess, q)
			close(done)
		})
		if len(query) <= cfg.Search.MinQueryLength {
			fmt.Printf("Query too short (minimum %d characters).\n", cfg.Search.MinQueryLength+1)
			continue
		}
		<-done
	}
	return scanner.Err()
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		sess, closeStore, err := newSession(db)
		if err != nil {
			return err
		}
		defer closeStore()

		reader := fetch.NewReader(db, cfg.SearchTimeout())
		srv, err := server.New(sess, reader)
		if err != nil {
			return fmt.Errorf("building server: %w", err)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return http.ListenAndServe(fmt.Sprintf(":%d", port), srv.Handler())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- wiring helpers ---

func openDB() (*database.DB, error) {
	dbPath := filepath.Join(cfg.GetDataDir(), "academisearch.db")
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// newStore picks the progress backend from config. The returned func
// releases backend resources and is always safe to call.
func newStore(db *database.DB) (progress.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "", "sqlite":
		return db.Progress(), func() {}, nil
	case "redis":
		store, err := progress.NewRedisStore(cfg.Storage.Redis.Addr, cfg.Storage.Redis.DB, cfg.Storage.Redis.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, func() { store.Close() }, nil
	case "memory":
		return progress.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newSession(db *database.DB) (*session.Session, func(), error) {
	store, closeStore, err := newStore(db)
	if err != nil {
		return nil, nil, err
	}

	client := search.NewClient(cfg.Search.Endpoint, cfg.SearchTimeout(), cfg.Search.ResultCount, cfg.Search.Generate)
	sess, err := session.New(session.Options{
		Searcher: client,
		Fallback: session.CatalogFallback(db, cfg.Search.ResultCount),
		Store:    store,
		Points: game.Points{
			Search:             cfg.Game.Points.Search,
			ReadArticle:        cfg.Game.Points.ReadArticle,
			CompleteFlashcards: cfg.Game.Points.CompleteFlashcards,
		},
	})
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("starting session: %w", err)
	}
	return sess, closeStore, nil
}
