// Package api serves the read-only HTTP surface over the archive cache and
// the derivation layer. The server never triggers network fetches toward
// the source site; it only exposes what the CLI has already cached.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/bastienzim/quizwatch/internal/cache"
	"github.com/bastienzim/quizwatch/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(store *cache.Store, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// --- Handler dependencies ---
	h := newHandler(store, cfg)

	// --- Routes ---
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Swagger UI over the hand-maintained OpenAPI document.
	r.Get("/docs/openapi.json", h.OpenAPISpec)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/daily/{date}", h.GetDaily)
		r.Get("/weekly", h.GetWeekly)
		r.Get("/cache", h.GetCacheIndex)
	})

	return r
}

// requestLogger emits one slog line per request with latency.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Millisecond))
		})
	}
}
