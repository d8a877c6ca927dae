// Package fetch coordinates cache-check, network-fetch fallback, extraction,
// parsing, and cache write for archive dates.
//
// Scraping failures are diagnosed from the step logs this package emits, not
// from stack traces, so every transition logs its outcome.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bastienzim/quizwatch/internal/archive"
	"github.com/bastienzim/quizwatch/internal/cache"
)

// Source identifies where a day's results came from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
)

// ArchivePager fetches the raw archive page HTML for a date. Satisfied by
// *scraper.Client; tests substitute a fake.
type ArchivePager interface {
	ArchivePage(ctx context.Context, year, month, day int) (string, error)
}

// Options controls cache behavior for a fetch.
type Options struct {
	UseCache bool // read from and write to the snapshot store
	Refresh  bool // ignore an existing snapshot, refetch, overwrite
}

// DayResult is the outcome of fetching one date.
type DayResult struct {
	Date    string
	Results []archive.PlayerResult
	Source  Source
}

// Service glues the pipeline together. A nil cache store disables caching
// regardless of Options.
type Service struct {
	pages  ArchivePager
	store  *cache.Store
	logger *slog.Logger
}

// New creates a fetch Service.
func New(pages ArchivePager, store *cache.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pages: pages, store: store, logger: logger}
}

// Day fetches one date's results.
//
// Returns (nil, nil) when the archive has no published results for the date
// (marker absent), a normal outcome. Transport and parse failures return an
// error; the caller decides whether that aborts the run or just skips the
// date. A corrupt cache entry is a transparent miss. No retries here: retry
// policy belongs to the transport.
func (s *Service) Day(ctx context.Context, date string, opts Options) (*DayResult, error) {
	useCache := opts.UseCache && s.store != nil

	if useCache && !opts.Refresh {
		if snap, ok := s.store.Read(date); ok {
			s.logger.Info("Cache hit",
				"date", date,
				"entries", len(snap.Results),
				"age", cache.FormatAge(s.store.Age(snap)))
			return &DayResult{Date: date, Results: snap.Results, Source: SourceCache}, nil
		}
		s.logger.Info("Cache miss", "date", date)
	}
	if opts.Refresh {
		s.logger.Info("Refresh requested, bypassing cache", "date", date)
	}

	year, month, day, err := splitDate(date)
	if err != nil {
		return nil, err
	}

	html, err := s.pages.ArchivePage(ctx, year, month, day)
	if err != nil {
		return nil, fmt.Errorf("fetch archive page %s: %w", date, err)
	}
	s.logger.Info("Archive page fetched", "date", date, "html_bytes", len(html))

	raw, ok := archive.ExtractPayload(html)
	if !ok {
		s.logger.Info("No results payload in page", "date", date)
		return nil, nil
	}
	s.logger.Info("Payload extracted", "date", date, "payload_bytes", len(raw))

	results, err := archive.ParseResults(raw)
	if err != nil {
		return nil, fmt.Errorf("parse results %s: %w", date, err)
	}
	s.logger.Info("Payload decoded", "date", date, "records", len(results))

	if useCache {
		if _, err := s.store.Write(date, results); err != nil {
			// Persistence failure only; the in-memory results stay valid.
			s.logger.Error("Cache write failed", "date", date, "error", err)
		} else {
			s.logger.Info("Snapshot cached", "date", date, "path", s.store.Path(date))
		}
	}

	return &DayResult{Date: date, Results: results, Source: SourceNetwork}, nil
}

// Range fetches multiple dates sequentially, containing each date's failure
// to that date. Dates with no data or failed fetches are simply absent from
// the returned map, so aggregation proceeds with partial data. Stops early
// when ctx is cancelled, returning what was gathered so far.
func (s *Service) Range(ctx context.Context, dates []string, opts Options) map[string]*archive.Snapshot {
	snapshots := make(map[string]*archive.Snapshot, len(dates))
	for _, date := range dates {
		if ctx.Err() != nil {
			s.logger.Info("Range fetch interrupted", "fetched", len(snapshots), "of", len(dates))
			return snapshots
		}
		day, err := s.Day(ctx, date, opts)
		if err != nil {
			s.logger.Error("Skipping date", "date", date, "error", err)
			continue
		}
		if day == nil {
			continue
		}
		snapshots[date] = &archive.Snapshot{
			Date:    date,
			Count:   len(day.Results),
			Results: day.Results,
		}
	}
	return snapshots
}

// DatesBack returns the n dates ending at end (inclusive), oldest first.
func DatesBack(end time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, end.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return dates
}

func splitDate(date string) (year, month, day int, err error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}
