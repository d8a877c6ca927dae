// Command quizwatch tracks daily trivia challenge results for a fixed group
// of players: it scrapes the public archive pages, caches the parsed results
// per date, and produces local leaderboards and period aggregates.
//
// Usage:
//
//	quizwatch daily                    # yesterday's report
//	quizwatch daily 2025-10-14 --refresh
//	quizwatch weekly --days 7
//	quizwatch login --user me --password secret
//	quizwatch cache list
//	quizwatch serve
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/cache"
	"github.com/bastienzim/quizwatch/internal/config"
	"github.com/bastienzim/quizwatch/internal/fetch"
	"github.com/bastienzim/quizwatch/internal/scraper"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "quizwatch",
		Short: "Daily quiz archive tracker and leaderboard reporter",
	}

	root.AddCommand(dailyCmd())
	root.AddCommand(weeklyCmd())
	root.AddCommand(loginCmd())
	root.AddCommand(cacheCmd())
	root.AddCommand(storeCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// buildFetcher wires the scraper client (with any saved session cookies) and
// the cache store into a fetch service.
func buildFetcher(cfg *config.Config, cacheDir string) (*fetch.Service, *scraper.Client) {
	client := scraper.NewClient(cfg.BaseURL, cfg.UserAgent, cfg.RateLimit, cfg.FetchTimeout, logger)
	if err := client.LoadCookies(cfg.CookiesFile); err != nil {
		logger.Warn("Could not load saved cookies", "error", err)
	}
	if cacheDir == "" {
		cacheDir = cfg.CacheDir
	}
	return fetch.New(client, cache.New(cacheDir), logger), client
}

// validateDate checks YYYY-MM-DD, defaulting to yesterday when empty.
func validateDate(arg string) (string, error) {
	if arg == "" {
		return time.Now().AddDate(0, 0, -1).Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", arg); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", arg)
	}
	return arg, nil
}
