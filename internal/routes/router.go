package routes

import (
	"net/http"

	"campaign-lab/polystore/internal/api"
	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Options tunes the router. A nil Limiter disables rate limiting.
type Options struct {
	AllowedOrigins []string
	Limiter        common.Limiter
}

func RegisterRoutes(deps *api.Dependencies, opts Options) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	// health check stays outside the limiter so probes are never throttled
	r.Get("/healthCheck", handlers.HealthCheck())

	r.Group(func(limited chi.Router) {
		if opts.Limiter != nil {
			limited.Use(middleware.RateLimitMiddleware(opts.Limiter, deps.Metrics))
		}
		RegisterAPIRoutes(limited, handlers)
	})

	logging.Info("Router initialized",
		"backends", deps.Dispatcher.Configured(),
		"rate_limited", opts.Limiter != nil,
	)
	return r
}
