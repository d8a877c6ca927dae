package api

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bastienzim/quizwatch/internal/aggregate"
	"github.com/bastienzim/quizwatch/internal/archive"
	"github.com/bastienzim/quizwatch/internal/cache"
	"github.com/bastienzim/quizwatch/internal/config"
	"github.com/bastienzim/quizwatch/internal/leaderboard"
)

//go:embed openapi.json
var openAPISpec []byte

type handler struct {
	store *cache.Store
	cfg   *config.Config
}

func newHandler(store *cache.Store, cfg *config.Config) *handler {
	return &handler{store: store, cfg: cfg}
}

// Root serves API info at /.
func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "quizwatch API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs/",
	})
}

// Health returns basic health status plus cache reachability.
func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"cached_dates": len(h.store.List()),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// OpenAPISpec serves the embedded OpenAPI document for the swagger UI.
func (h *handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPISpec)
}

// GetDaily returns the derived tracked-player leaderboard for one cached
// date. 404 when no snapshot exists; the server does not fetch.
func (h *handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "expected YYYY-MM-DD")
		return
	}
	snap, ok := h.store.Read(date)
	if !ok {
		writeError(w, http.StatusNotFound, "not_cached", "no snapshot cached for this date")
		return
	}
	rows := leaderboard.Derive(snap.Results, h.cfg.TrackedPlayers)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":         date,
		"fetched_at":   snap.FetchedAt,
		"participants": len(snap.Results),
		"leaderboard":  rows,
	})
}

// GetWeekly aggregates the last N cached days (default 7, cap 90). Missing
// dates simply contribute no snapshot.
func (h *handler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 90 {
			writeError(w, http.StatusBadRequest, "invalid_days", "days must be between 1 and 90")
			return
		}
		days = n
	}

	end := time.Now().AddDate(0, 0, -1)
	snapshots := make(map[string]*archive.Snapshot, days)
	var covered []string
	for i := 0; i < days; i++ {
		date := end.AddDate(0, 0, -i).Format("2006-01-02")
		if snap, ok := h.store.Read(date); ok {
			snapshots[date] = snap
			covered = append(covered, date)
		}
	}

	summaries := aggregate.Aggregate(snapshots, h.cfg.TrackedPlayers)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days_requested": days,
		"days_covered":   covered,
		"summaries":      summaries,
	})
}

// GetCacheIndex lists cached dates with entry counts and ages.
func (h *handler) GetCacheIndex(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
		Age   string `json:"age"`
	}
	var entries []entry
	for _, date := range h.store.List() {
		snap, ok := h.store.Read(date)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			Date:  date,
			Count: snap.Count,
			Age:   cache.FormatAge(h.store.Age(snap)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dates": entries,
		"total": len(entries),
	})
}

// --------------------------------------------------------------------------
// Response helpers
// --------------------------------------------------------------------------

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	writeJSON(w, status, resp)
}
