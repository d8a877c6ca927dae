package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/bastienzim/quizwatch/internal/archive"
	"github.com/bastienzim/quizwatch/internal/cache"
)

const samplePage = `<html>junk var DC_RANKING = ` +
	`[{"good_responses":15,"user":"alice","rank":3,"elapsed_time":45},` +
	`{"good_responses":20,"user":"bob","rank":1,"elapsed_time":30}]; junk</html>`

// fakePager serves canned HTML and counts network calls.
type fakePager struct {
	html  string
	err   error
	calls int
}

func (f *fakePager) ArchivePage(ctx context.Context, year, month, day int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func newService(t *testing.T, pager ArchivePager) *Service {
	t.Helper()
	return New(pager, cache.New(t.TempDir()), nil)
}

func TestDayNetworkThenCache(t *testing.T) {
	pager := &fakePager{html: samplePage}
	svc := newService(t, pager)
	opts := Options{UseCache: true}

	day, err := svc.Day(context.Background(), "2025-10-14", opts)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if day.Source != SourceNetwork {
		t.Errorf("first fetch source = %s, want network", day.Source)
	}
	if len(day.Results) != 2 || day.Results[0].User != "alice" {
		t.Errorf("unexpected results: %+v", day.Results)
	}

	// Second call must be served from the cache with zero network calls.
	again, err := svc.Day(context.Background(), "2025-10-14", opts)
	if err != nil {
		t.Fatalf("Day (cached): %v", err)
	}
	if again.Source != SourceCache {
		t.Errorf("second fetch source = %s, want cache", again.Source)
	}
	if pager.calls != 1 {
		t.Errorf("network calls = %d, want 1", pager.calls)
	}
	if !reflect.DeepEqual(again.Results, day.Results) {
		t.Errorf("cached results differ: %+v vs %+v", again.Results, day.Results)
	}
}

func TestDayRefreshBypassesCache(t *testing.T) {
	pager := &fakePager{html: samplePage}
	svc := newService(t, pager)

	if _, err := svc.Day(context.Background(), "2025-10-14", Options{UseCache: true}); err != nil {
		t.Fatal(err)
	}
	day, err := svc.Day(context.Background(), "2025-10-14", Options{UseCache: true, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if day.Source != SourceNetwork {
		t.Errorf("refresh source = %s, want network", day.Source)
	}
	if pager.calls != 2 {
		t.Errorf("network calls = %d, want 2", pager.calls)
	}
}

func TestDayNoCacheOption(t *testing.T) {
	pager := &fakePager{html: samplePage}
	svc := newService(t, pager)

	if _, err := svc.Day(context.Background(), "2025-10-14", Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Day(context.Background(), "2025-10-14", Options{}); err != nil {
		t.Fatal(err)
	}
	if pager.calls != 2 {
		t.Errorf("network calls = %d, want 2 when cache is disabled", pager.calls)
	}
}

func TestDayNoPayload(t *testing.T) {
	svc := newService(t, &fakePager{html: "<html>quiz still running</html>"})
	day, err := svc.Day(context.Background(), "2025-10-14", Options{UseCache: true})
	if err != nil {
		t.Fatalf("no payload should not be an error, got %v", err)
	}
	if day != nil {
		t.Errorf("day = %+v, want nil for an unpublished date", day)
	}
}

func TestDayTransportFailure(t *testing.T) {
	svc := newService(t, &fakePager{err: fmt.Errorf("connection refused")})
	if _, err := svc.Day(context.Background(), "2025-10-14", Options{UseCache: true}); err == nil {
		t.Fatal("expected a transport error")
	}
}

func TestDayMalformedNeverCached(t *testing.T) {
	pager := &fakePager{html: `junk[{"good_responses":15,"user":"alice"`}
	store := cache.New(t.TempDir())
	svc := New(pager, store, nil)

	// Truncated payload: marker present but never closes -> no data, no error.
	day, err := svc.Day(context.Background(), "2025-10-14", Options{UseCache: true})
	if err != nil || day != nil {
		t.Fatalf("day=%v err=%v, want nil/nil", day, err)
	}

	// Decodable-looking but broken JSON -> parse error, nothing cached.
	pager.html = `junk[{"good_responses":}]junk`
	_, err = svc.Day(context.Background(), "2025-10-15", Options{UseCache: true})
	if !errors.Is(err, archive.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
	if _, ok := store.Read("2025-10-15"); ok {
		t.Error("malformed payload must never be cached")
	}
}

func TestDayCorruptCacheFallsThrough(t *testing.T) {
	pager := &fakePager{html: samplePage}
	store := cache.New(t.TempDir())
	svc := New(pager, store, nil)

	// Seed a corrupt entry by hand: Read treats it as a miss and the
	// orchestrator falls through to the network.
	if _, err := store.Write("2025-10-14", nil); err != nil {
		t.Fatal(err) // creates the cache dir
	}
	if err := os.WriteFile(store.Path("2025-10-14"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	day, err := svc.Day(context.Background(), "2025-10-14", Options{UseCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if day.Source != SourceNetwork {
		t.Errorf("source = %s, want network fallback", day.Source)
	}
	if pager.calls != 1 {
		t.Errorf("network calls = %d, want 1", pager.calls)
	}
}

func TestDayInvalidDate(t *testing.T) {
	svc := newService(t, &fakePager{html: samplePage})
	if _, err := svc.Day(context.Background(), "14/10/2025", Options{}); err == nil {
		t.Fatal("expected an invalid date error")
	}
}

func TestRangePartialData(t *testing.T) {
	pager := &fakePager{html: samplePage}
	svc := newService(t, pager)

	dates := []string{"2025-10-13", "2025-10-14", "2025-10-15"}
	snapshots := svc.Range(context.Background(), dates, Options{UseCache: true})
	if len(snapshots) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snapshots))
	}

	// A transport failure on one date is contained to that date.
	pager.err = fmt.Errorf("boom")
	snapshots = svc.Range(context.Background(), []string{"2025-10-16"}, Options{})
	if len(snapshots) != 0 {
		t.Errorf("failed date should be absent, got %v", snapshots)
	}
}

func TestRangeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newService(t, &fakePager{html: samplePage})
	snapshots := svc.Range(ctx, []string{"2025-10-14"}, Options{})
	if len(snapshots) != 0 {
		t.Errorf("cancelled range should fetch nothing, got %v", snapshots)
	}
}

func TestDatesBack(t *testing.T) {
	end := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	got := DatesBack(end, 3)
	want := []string{"2025-10-12", "2025-10-13", "2025-10-14"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DatesBack = %v, want %v", got, want)
	}
}
