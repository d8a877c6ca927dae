// Package cache provides the on-disk, date-keyed archive snapshot store.
//
// One JSON file per date under a configured root directory. There is no TTL:
// archive data for a concluded day never changes, so a snapshot stays valid
// until an explicit refresh overwrites it. Age is computed for diagnostics
// only.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bastienzim/quizwatch/internal/archive"
)

// Store is a date-keyed snapshot store rooted at a directory.
type Store struct {
	root string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Path returns the snapshot file path for a date.
func (s *Store) Path(date string) string {
	return filepath.Join(s.root, date+".json")
}

// Read loads the snapshot for a date. A missing file, unreadable JSON, or a
// structure without a results array all count as a cache miss, never a
// fatal error.
func (s *Store) Read(date string) (*archive.Snapshot, bool) {
	raw, err := os.ReadFile(s.Path(date))
	if err != nil {
		return nil, false
	}
	var snap archive.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false
	}
	if snap.Results == nil {
		return nil, false
	}
	return &snap, true
}

// Write serializes results for a date, stamping FetchedAt with the current
// time, and unconditionally overwrites any existing entry. Failures are
// returned for logging; by contract they are non-fatal and the in-memory
// results remain usable for the current run.
func (s *Store) Write(date string, results []archive.PlayerResult) (*archive.Snapshot, error) {
	if results == nil {
		results = []archive.PlayerResult{} // keep the stored shape readable
	}
	snap := &archive.Snapshot{
		Date:      date,
		FetchedAt: time.Now().UTC(),
		Count:     len(results),
		Results:   results,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return snap, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return snap, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(s.Path(date), data, 0o644); err != nil {
		return snap, fmt.Errorf("write snapshot: %w", err)
	}
	return snap, nil
}

// Age returns how long ago the snapshot was fetched. Zero when the snapshot
// carries no fetch timestamp (pre-seeded or synthetic entries).
func (s *Store) Age(snap *archive.Snapshot) time.Duration {
	if snap.FetchedAt.IsZero() {
		return 0
	}
	return time.Since(snap.FetchedAt)
}

// List returns the cached dates in ascending order.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates
}

// FormatAge renders a duration compactly for cache diagnostics: seconds
// under a minute, then minutes, hours, days.
func FormatAge(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", int(secs))
	case secs < 3600:
		return fmt.Sprintf("%.1fm", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%.1fh", secs/3600)
	default:
		return fmt.Sprintf("%.1fd", secs/86400)
	}
}
