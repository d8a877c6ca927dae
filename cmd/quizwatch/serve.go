package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/api"
	"github.com/bastienzim/quizwatch/internal/cache"
	"github.com/bastienzim/quizwatch/internal/config"
)

func serveCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only API over the snapshot cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			dir := cacheDir
			if dir == "" {
				dir = cfg.CacheDir
			}

			router := api.NewRouter(cache.New(dir), cfg, logger)

			addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting quizwatch API",
					"addr", addr,
					"cache_dir", dir,
					"docs", fmt.Sprintf("http://%s/docs/", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}
			logger.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", "error", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Override cache directory")
	return cmd
}
