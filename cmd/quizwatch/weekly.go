package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/aggregate"
	"github.com/bastienzim/quizwatch/internal/config"
	"github.com/bastienzim/quizwatch/internal/fetch"
	"github.com/bastienzim/quizwatch/internal/report"
)

func weeklyCmd() *cobra.Command {
	var (
		days     int
		start    string
		end      string
		noCache  bool
		refresh  bool
		cacheDir string
		emojis   bool
	)
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Aggregate tracked-player stats over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			dates, err := resolveRange(days, start, end)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			fmt.Printf("== Aggregate report %s .. %s (%d days) ==\n",
				dates[0], dates[len(dates)-1], len(dates))

			svc, _ := buildFetcher(cfg, cacheDir)
			// Sequential by design: one date at a time, rate limited.
			snapshots := svc.Range(ctx, dates, fetch.Options{UseCache: !noCache, Refresh: refresh})

			var missing []string
			for _, d := range dates {
				if _, ok := snapshots[d]; !ok {
					missing = append(missing, d)
				}
			}
			if len(missing) > 0 {
				fmt.Printf("Missing dates (no data): %v\n", missing)
			}
			if ctx.Err() != nil {
				fmt.Println("Interrupted: reporting on the dates fetched so far.")
			}

			summaries := aggregate.Aggregate(snapshots, cfg.TrackedPlayers)
			fmt.Println()
			report.RenderWeekly(os.Stdout, summaries, report.Options{Emojis: emojis})
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days ending yesterday")
	cmd.Flags().StringVar(&start, "start", "", "Range start date YYYY-MM-DD (with --end)")
	cmd.Flags().StringVar(&end, "end", "", "Range end date YYYY-MM-DD (with --start)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable local snapshot cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Force refresh even if cached")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Override cache directory")
	cmd.Flags().BoolVar(&emojis, "emojis", false, "Medal emoji in the table")
	return cmd
}

// resolveRange turns either --days or --start/--end into an ordered date
// list, oldest first.
func resolveRange(days int, start, end string) ([]string, error) {
	if start != "" || end != "" {
		if start == "" || end == "" {
			return nil, fmt.Errorf("--start and --end must be used together")
		}
		from, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", start)
		}
		to, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, fmt.Errorf("invalid --end %q: expected YYYY-MM-DD", end)
		}
		if to.Before(from) {
			return nil, fmt.Errorf("--end is before --start")
		}
		var dates []string
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d.Format("2006-01-02"))
		}
		return dates, nil
	}
	if days < 1 {
		return nil, fmt.Errorf("--days must be at least 1")
	}
	return fetch.DatesBack(time.Now().AddDate(0, 0, -1), days), nil
}
