package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cofundable/cofundable/internal/adapter/http/handler"
	"github.com/cofundable/cofundable/internal/adapter/http/middleware"
	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
	"github.com/cofundable/cofundable/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	UserHandler        *handler.UserHandler
	CauseHandler       *handler.CauseHandler
	TagHandler         *handler.TagHandler
	BookmarkHandler    *handler.BookmarkHandler
	TransactionHandler *handler.TransactionHandler
	AdminHandler       *handler.AdminHandler
	HealthHandler      *handler.HealthHandler

	// TokenVerifier enables bearer authentication. When nil the current user
	// is picked by the X-User-Handle header and admin routes are open.
	TokenVerifier middleware.TokenVerifier
	UserResolver  middleware.UserResolver

	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Unauthenticated endpoints
	r.Get("/", cfg.HealthHandler.Root)
	r.Get("/health-check", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.BearerAuth(cfg.TokenVerifier, cfg.Metrics))
		} else {
			r.Use(middleware.HandleAuth(cfg.UserResolver, cfg.Metrics))
		}
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		idempotent := func(h http.HandlerFunc) http.Handler {
			if cfg.IdempotencyStore == nil {
				return h
			}
			return middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, 0, cfg.Metrics).Wrap(h)
		}

		r.Route("/users", func(r chi.Router) {
			r.Post("/", cfg.UserHandler.Create)
			r.Get("/{handle}", cfg.UserHandler.GetByHandle)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.Me)
			r.Get("/bookmarks/", cfg.BookmarkHandler.List)
			r.Put("/bookmarks/{cause_handle}", cfg.BookmarkHandler.Put)
			r.Get("/transactions", cfg.TransactionHandler.ListForUser)
			r.Method(http.MethodPost, "/transactions/transfer", idempotent(cfg.TransactionHandler.Transfer))
		})

		r.Route("/causes", func(r chi.Router) {
			r.Post("/", cfg.CauseHandler.Create)
			r.Get("/", cfg.CauseHandler.List)
			r.Get("/{cause}", cfg.CauseHandler.Get)
			r.Get("/{cause}/transactions", cfg.TransactionHandler.ListForCause)
		})

		r.Get("/tags/", cfg.TagHandler.List)

		r.Route("/api/v1/admin", func(r chi.Router) {
			if cfg.TokenVerifier != nil {
				r.Use(middleware.RequireRole(domain.RoleAdmin, cfg.Metrics))
			}
			r.Method(http.MethodPost, "/grants", idempotent(cfg.AdminHandler.Grant))
			r.Get("/ledger/consistency", cfg.AdminHandler.Consistency)
			r.Get("/accounts/{id}/reconcile", cfg.AdminHandler.Reconcile)
			r.Get("/reconciliation", cfg.AdminHandler.Report)
			r.Delete("/causes/{cause}", cfg.CauseHandler.Delete)
			r.Delete("/users/{id}", cfg.UserHandler.Delete)
		})
	})

	return r
}
