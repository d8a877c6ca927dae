package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/config"
	"github.com/bastienzim/quizwatch/internal/scraper"
)

func loginCmd() *cobra.Command {
	var (
		user         string
		password     string
		cookieHeader string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the source site and save session cookies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			client := scraper.NewClient(cfg.BaseURL, cfg.UserAgent, cfg.RateLimit, cfg.FetchTimeout, logger)

			// A captured browser Cookie: header short-circuits the form flow.
			if cookieHeader != "" {
				client.SetCookieHeader(cookieHeader)
				if err := client.SaveCookies(cfg.CookiesFile); err != nil {
					return err
				}
				logger.Info("Cookies saved", "path", cfg.CookiesFile)
				return nil
			}

			if user == "" {
				user = os.Getenv("QUIZ_USERNAME")
			}
			if password == "" {
				password = os.Getenv("QUIZ_PASSWORD")
			}
			if user == "" || password == "" {
				return fmt.Errorf("--user and --password (or QUIZ_USERNAME/QUIZ_PASSWORD) are required")
			}

			ok, err := client.Login(ctx, user, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if !ok {
				return fmt.Errorf("login failed: no session cookie received")
			}
			if err := client.SaveCookies(cfg.CookiesFile); err != nil {
				return err
			}
			logger.Info("Logged in, cookies saved", "user", user, "path", cfg.CookiesFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Site username")
	cmd.Flags().StringVar(&password, "password", "", "Site password")
	cmd.Flags().StringVar(&cookieHeader, "cookie-header", "", "Raw Cookie: header captured from a browser session")
	return cmd
}
