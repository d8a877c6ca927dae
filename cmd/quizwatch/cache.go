package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bastienzim/quizwatch/internal/cache"
	"github.com/bastienzim/quizwatch/internal/config"
)

func cacheCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the archive snapshot cache",
	}
	cmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Override cache directory")

	openStore := func() (*cache.Store, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		dir := cacheDir
		if dir == "" {
			dir = cfg.CacheDir
		}
		return cache.New(dir), nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List cached dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			dates := store.List()
			if len(dates) == 0 {
				fmt.Println("Cache is empty.")
				return nil
			}
			for _, date := range dates {
				snap, ok := store.Read(date)
				if !ok {
					fmt.Printf("%s  (corrupt entry)\n", date)
					continue
				}
				fmt.Printf("%s  entries=%-4d age=%s\n", date, snap.Count, cache.FormatAge(store.Age(snap)))
			}
			fmt.Printf("%d snapshot(s)\n", len(dates))
			return nil
		},
	}

	info := &cobra.Command{
		Use:   "info <date>",
		Short: "Show one snapshot's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := validateDate(args[0])
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			snap, ok := store.Read(date)
			if !ok {
				return fmt.Errorf("no snapshot cached for %s", date)
			}
			fmt.Printf("date:       %s\n", snap.Date)
			fmt.Printf("fetched_at: %s\n", snap.FetchedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("age:        %s\n", cache.FormatAge(store.Age(snap)))
			fmt.Printf("entries:    %d\n", snap.Count)
			fmt.Printf("path:       %s\n", store.Path(date))
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(info)
	return cmd
}
