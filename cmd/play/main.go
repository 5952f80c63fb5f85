package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kybers/play/internal/cache"
	"github.com/kybers/play/internal/catalog"
	"github.com/kybers/play/internal/config"
	"github.com/kybers/play/internal/domain"
	"github.com/kybers/play/internal/logging"
	"github.com/kybers/play/internal/overlay"
	"github.com/kybers/play/internal/playback"
	"github.com/kybers/play/internal/search"
	"github.com/kybers/play/internal/store"
	"github.com/kybers/play/internal/syncer"
	"github.com/kybers/play/internal/xtream"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var once bool
	var logout bool
	var query string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&once, "once", false, "run a single sync and exit")
	flag.BoolVar(&logout, "logout", false, "forget the stored account and cached catalog")
	flag.StringVar(&query, "search", "", "search the cached catalog and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("play %s\n", Version)
		return
	}

	if logout {
		if err := runLogout(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(once, query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(once bool, query string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting play", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	creds := cfg.Credentials()

	contentStore, err := store.NewContentStore(cfg.Cache.Dir, creds.ServerURL, logger)
	if err != nil {
		return fmt.Errorf("failed to open content store: %w", err)
	}
	defer contentStore.Close()

	if query != "" {
		favorites := overlay.NewFavorites(cfg.Cache.Dir, logger)
		return runSearch(contentStore, favorites, creds, query, logger)
	}

	client := xtream.NewClient(creds, logger)
	repo := catalog.NewRepository(client, contentStore, logger)

	cacheMgr := cache.NewManager(cfg.Cache.Dir, cfg.Cache.Window, logger)

	orch := syncer.NewOrchestrator(repo, contentStore, cacheMgr, func() domain.Credentials {
		return cfg.Credentials()
	}, cfg.Sync.Interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		if err := orch.RunOnce(ctx); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		logger.Info("sync complete")
		return nil
	}

	orch.Run(ctx)

	logger.Info("shutting down")
	return nil
}

// runLogout clears the stored account and wipes the cached catalog.
func runLogout() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ClearServerConfig(); err != nil {
		return err
	}
	if err := config.ClearCache(cfg.Cache.Dir); err != nil {
		return err
	}
	fmt.Println("Account and cached catalog removed.")
	return nil
}

// runSearch prints ranked matches from the cached catalog along with
// their playable URLs where one can be formed.
func runSearch(contentStore domain.ContentStore, favorites *overlay.Favorites, creds domain.Credentials, query string, logger *slog.Logger) error {
	svc := search.NewService(contentStore, logger)
	results := svc.Search(query)
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, res := range results {
		marker := " "
		if favorites.IsFavorite(res.Item.GetContentID(), res.Item.GetKind()) {
			marker = "★"
		}
		line := fmt.Sprintf("%s [%s] %s", marker, res.Item.GetKind(), res.Item.GetTitle())
		if url, err := playback.StreamURL(creds, res.Item); err == nil {
			line += "  " + url
		}
		fmt.Println(line)
	}
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to play!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	prompt := func(label string) (string, error) {
		fmt.Printf("%s: ", label)
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(input), nil
	}

	for {
		serverURL, err := prompt("Server URL (e.g., http://example.com:8080)")
		if err != nil {
			return err
		}
		username, err := prompt("Username")
		if err != nil {
			return err
		}
		password, err := prompt("Password")
		if err != nil {
			return err
		}

		creds := domain.Credentials{ServerURL: serverURL, Username: username, Password: password}
		if !creds.Complete() {
			fmt.Println("All fields are required. Please try again.")
			fmt.Println()
			continue
		}

		client := xtream.NewClient(creds, logger)
		if err := client.Authenticate(context.Background()); err != nil {
			fmt.Printf("✗ Could not sign in: %v\n", err)
			fmt.Println("Please check the details and try again.")
			fmt.Println()
			continue
		}

		cfg.Server.URL = creds.ServerURL
		cfg.Server.Username = creds.Username
		cfg.Server.Password = creds.Password
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run play again to start syncing.")

	return nil
}
