package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"finance-dashboard/metrics"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// RateLimiter is optional; nil disables limiting.
	RateLimiter *RateLimiter
	RateWindow  time.Duration
}

func NewRouter(
	cfg RouterConfig,
	debt *DebtPlanHandler,
	recurring *RecurringHandler,
	accounts *AccountHandler,
	m *metrics.Metrics,
) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware(m))

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(RateLimitMiddleware(cfg.RateLimiter, cfg.RateWindow))
			}
			r.Post("/debt/calculate", debt.Calculate)
		})

		r.Route("/recurring", recurring.Routes)
		r.Route("/accounts", accounts.Routes)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
