package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaign-lab/polystore/internal/api"
	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/config"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/metrics"
	"campaign-lab/polystore/internal/routes"
	"campaign-lab/polystore/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	limiterIdleTTL  = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Polystore starting up",
		"environment", cfg.AppEnv,
		"backends", cfg.EnabledBackends,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsReg := metrics.NewMetricsRegistry(registry)

	stores, err := services.OpenBackends(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to open backends", "error", err)
	}
	dispatcher := services.NewDispatcher(stores, metricsReg)
	defer dispatcher.Close()

	upSince := time.Now()
	router := routes.RegisterRoutes(api.NewDependencies(dispatcher, metricsReg, upSince), routes.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        newLimiter(cfg),
	})

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.Handle("/", router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
}

// newLimiter shares limits across replicas through Redis when it is
// configured and falls back to an in-process limiter otherwise. The Redis
// window admits RATE_LIMIT_BURST requests per second.
func newLimiter(cfg *config.Config) common.Limiter {
	if addr := cfg.RedisAddr(); addr != "" {
		logging.Info("Using Redis rate limiter", "addr", addr)
		return common.NewRedisLimiter(common.NewRedisClient(addr, cfg.RedisPassword), int64(cfg.RateLimitBurst), time.Second)
	}
	return common.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, limiterIdleTTL)
}
