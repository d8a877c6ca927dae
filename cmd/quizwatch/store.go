package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/config"
	"github.com/bastienzim/quizwatch/internal/quizstore"
)

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the relational quiz store (requires DATABASE_URL)",
	}
	cmd.AddCommand(storeInitCmd())
	cmd.AddCommand(storeSetDailyCmd())
	cmd.AddCommand(storeAttemptCmd())
	return cmd
}

// runStore handles config loading and store connection.
func runStore(fn func(ctx context.Context, cfg *config.Config, store *quizstore.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasQuizStore() {
		return fmt.Errorf("DATABASE_URL is required")
	}

	store, err := quizstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	return fn(ctx, cfg, store)
}

func storeInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the quizwatch tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.HasQuizStore() {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if err := quizstore.InitSchema(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema ready")
			return nil
		},
	}
}

func storeSetDailyCmd() *cobra.Command {
	var (
		quizID int64
		url    string
		title  string
	)
	cmd := &cobra.Command{
		Use:   "set-daily <date>",
		Short: "Map a date to a quiz (by id, or create from --url/--title)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := validateDate(args[0])
			if err != nil {
				return err
			}
			return runStore(func(ctx context.Context, cfg *config.Config, store *quizstore.Store) error {
				id := quizID
				if id == 0 {
					if url == "" {
						return fmt.Errorf("either --quiz-id or --url is required")
					}
					id, err = store.InsertQuiz(ctx, url, title, "", nil)
					if err != nil {
						return err
					}
				}
				if err := store.SetDailyQuiz(ctx, date, id); err != nil {
					return err
				}
				logger.Info("Daily quiz mapped", "date", date, "quiz_id", id)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&quizID, "quiz-id", 0, "Existing quiz id")
	cmd.Flags().StringVar(&url, "url", "", "Quiz URL (creates the quiz when no --quiz-id)")
	cmd.Flags().StringVar(&title, "title", "", "Quiz title (with --url)")
	return cmd
}

func storeAttemptCmd() *cobra.Command {
	var (
		player   string
		score    int
		total    int
		duration int
		extRank  int
	)
	cmd := &cobra.Command{
		Use:   "attempt <date>",
		Short: "Record a player attempt for the date's mapped quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := validateDate(args[0])
			if err != nil {
				return err
			}
			if player == "" {
				return fmt.Errorf("--player is required")
			}
			return runStore(func(ctx context.Context, cfg *config.Config, store *quizstore.Store) error {
				quizID, ok, err := store.DailyQuiz(ctx, date)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no quiz mapped for %s (run store set-daily first)", date)
				}
				var dur, ext *int
				if cmd.Flags().Changed("duration") {
					dur = &duration
				}
				if cmd.Flags().Changed("external-rank") {
					ext = &extRank
				}
				id, err := store.RecordAttempt(ctx, quizID, player, score, total, dur, ext)
				if err != nil {
					return err
				}
				logger.Info("Attempt recorded", "id", id, "player", player, "score", score, "total", total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "Player username")
	cmd.Flags().IntVar(&score, "score", 0, "Correct answers")
	cmd.Flags().IntVar(&total, "total", 20, "Total questions")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in seconds")
	cmd.Flags().IntVar(&extRank, "external-rank", 0, "Site-wide rank")
	return cmd
}
