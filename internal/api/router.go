package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RouterConfig carries the optional pieces of the router.
type RouterConfig struct {
	// AdminToken enables the search-log endpoints when set (and a search log exists).
	AdminToken string

	// RateLimitPerMinute caps requests per client IP.
	RateLimitPerMinute int

	// Static serves /static/*.
	Static fs.FS

	// DB and Redis are pinged by the health endpoint; nil means not configured.
	DB    Pinger
	Redis Pinger
}

// NewRouter builds and returns the Chi router with all routes configured.
// The page, JSON search and health endpoints are public; search-log routes require bearer auth.
// Rate limiting is applied globally per IP.
func NewRouter(handlers *Handlers, cfg RouterConfig, log *slog.Logger) *chi.Mux {
	rate := cfg.RateLimitPerMinute
	if rate < 1 {
		rate = 60
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(httprate.LimitByIP(rate, time.Minute))

	r.Get("/", handlers.ShowPage)
	r.Post("/search", handlers.SubmitSearch)
	if cfg.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(cfg.Static)))
	}

	r.Get("/api/v1/health", HealthHandlerFunc(cfg.DB, cfg.Redis, log))
	r.Get("/api/v1/search", handlers.SearchAPI)

	if cfg.AdminToken != "" && handlers.searchLog != nil {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(cfg.AdminToken))
			r.Get("/api/v1/searches", handlers.ListSearches)
			r.Get("/api/v1/searches/top", handlers.TopDestinations)
		})
	}

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
