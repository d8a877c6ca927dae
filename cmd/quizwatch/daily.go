package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/aggregate"
	"github.com/bastienzim/quizwatch/internal/config"
	"github.com/bastienzim/quizwatch/internal/fetch"
	"github.com/bastienzim/quizwatch/internal/leaderboard"
	"github.com/bastienzim/quizwatch/internal/quizstore"
	"github.com/bastienzim/quizwatch/internal/report"
)

func dailyCmd() *cobra.Command {
	var (
		noCache   bool
		refresh   bool
		cacheDir  string
		emojis    bool
		saveTable string
		slack     bool
	)
	cmd := &cobra.Command{
		Use:   "daily [date]",
		Short: "Daily report for a date (default: yesterday)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			date, err := validateDate(arg)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			fmt.Printf("== Daily quiz report for %s ==\n", date)

			if cfg.HasQuizStore() {
				showLocalTable(ctx, cfg, date)
			}

			svc, _ := buildFetcher(cfg, cacheDir)
			day, err := svc.Day(ctx, date, fetch.Options{UseCache: !noCache, Refresh: refresh})
			if err != nil {
				return err
			}
			if day == nil {
				fmt.Println("No results available for this date.")
				return nil
			}

			fmt.Printf("Source: %s (%d entries)\n\n", day.Source, len(day.Results))

			fmt.Println("Distribution:")
			report.RenderDistribution(os.Stdout, aggregate.Distribute(day.Results))

			rows := leaderboard.Derive(day.Results, cfg.TrackedPlayers)
			fmt.Printf("\nTracked players (%d):\n", len(rows))
			report.RenderDaily(os.Stdout, rows, report.Options{Emojis: emojis})

			if slack {
				fmt.Println("\nSlack table:")
				fmt.Println(report.SlackTable(rows))
			}
			// Save even after an interrupt: the rows were fully computed.
			if saveTable != "" && len(rows) > 0 {
				if err := report.SaveTable(saveTable, rows); err != nil {
					logger.Error("Save table failed", "path", saveTable, "error", err)
				} else {
					logger.Info("Table saved", "path", saveTable)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable local snapshot cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Force refresh even if cached")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Override cache directory")
	cmd.Flags().BoolVar(&emojis, "emojis", false, "Medal emoji in the table")
	cmd.Flags().StringVar(&saveTable, "save-table", "", "Save the table to a file (format by extension: csv/tsv/json/md/txt)")
	cmd.Flags().BoolVar(&slack, "slack", false, "Also print a Slack-ready ASCII table")
	return cmd
}

// showLocalTable prints the locally recorded quiz mapping and attempt table
// for the date. Failures here never block the archive report.
func showLocalTable(ctx context.Context, cfg *config.Config, date string) {
	store, err := quizstore.New(ctx, cfg)
	if err != nil {
		logger.Warn("Quiz store unavailable", "error", err)
		return
	}
	defer store.Close()

	quizID, ok, err := store.DailyQuiz(ctx, date)
	if err != nil {
		logger.Warn("Daily quiz lookup failed", "error", err)
		return
	}
	if !ok {
		fmt.Printf("No local quiz mapped for %s.\n", date)
		return
	}
	if quiz, err := store.Quiz(ctx, quizID); err == nil && quiz != nil {
		fmt.Printf("Local quiz for %s: #%d %s\n", date, quiz.ID, quiz.Title)
	}

	table, err := store.DailyTable(ctx, date)
	if err != nil {
		logger.Warn("Daily table query failed", "error", err)
		return
	}
	if len(table) == 0 {
		fmt.Println("No local attempts recorded for this date.")
		return
	}
	fmt.Println("\nLocal attempt leaderboard:")
	for i, row := range table {
		dur := ""
		if row.BestDuration != nil {
			dur = leaderboard.FormatElapsed(row.BestDuration)
		}
		ext := ""
		if row.ExternalRank != nil {
			ext = fmt.Sprintf(" ext=%d", *row.ExternalRank)
		}
		fmt.Printf("%3d  %-16s %2d/%d  tries=%d  %s%s\n",
			i+1, row.Player, row.BestScore, row.Total, row.Attempts, dur, ext)
	}
}
