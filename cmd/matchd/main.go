// Package main is the entry point for the matching daemon.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gigdesk/matchcore/internal/api"
	"github.com/gigdesk/matchcore/internal/application"
	"github.com/gigdesk/matchcore/internal/config"
	"github.com/gigdesk/matchcore/internal/db"
	"github.com/gigdesk/matchcore/internal/geomatch"
	"github.com/gigdesk/matchcore/internal/health"
	"github.com/gigdesk/matchcore/internal/jobs"
	"github.com/gigdesk/matchcore/internal/listing"
	"github.com/gigdesk/matchcore/internal/location"
	"github.com/gigdesk/matchcore/internal/match"
	"github.com/gigdesk/matchcore/internal/middleware"
	"github.com/gigdesk/matchcore/internal/profile"
	"github.com/gigdesk/matchcore/internal/tracing"
)

func main() {
	configFile := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Matchcore Daemon")
		fmt.Println()
		fmt.Println("Usage: matchd [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	for key, val := range cfg.LogSummary() {
		logger.Debug("config", key, val)
	}

	// Database
	conn, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Redis is optional; without it presence and the coverage cache are
	// simply disabled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	// Tracing
	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "matchd",
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingProtocol,
		OTLPEndpoint: cfg.TracingEndpoint,
		SamplingRate: 1.0,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	matchMetrics := match.NewMetrics()
	geoMetrics := geomatch.NewMetrics()
	jobMetrics := jobs.NewMetrics()
	for _, register := range []func(prometheus.Registerer) error{
		matchMetrics.Register,
		geoMetrics.Register,
		jobMetrics.Register,
	} {
		if err := register(registry); err != nil {
			logger.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
	}

	// Scoring weights, optionally calibrated from file
	weights := match.DefaultWeights()
	if cfg.CalibrationFile != "" {
		loaded, err := match.LoadCalibration(cfg.CalibrationFile)
		if err != nil {
			logger.Error("failed to load calibration", "file", cfg.CalibrationFile, "error", err)
			os.Exit(1)
		}
		weights = loaded
	}

	// Stores and repositories
	listings := listing.NewPostgresRepository(conn, logger)
	profiles := profile.NewPostgresRepository(conn, logger)
	applications := application.NewPostgresRepository(conn, logger)
	locations := location.NewPostgresStore(conn, logger)

	var presence *location.Presence
	var coverageCache *geomatch.CoverageCache
	if redisClient != nil {
		presence = location.NewPresence(redisClient, cfg.PresenceTTL)
		coverageCache = geomatch.NewCoverageCache(redisClient, 0)
	}

	engine := match.NewEngine(match.EngineConfig{
		Weights: weights,
		Logger:  logger,
		Metrics: matchMetrics,
	}, listings, profiles, applications)

	matcher := geomatch.NewMatcher(geomatch.MatcherConfig{
		Locations:     locations,
		Profiles:      profiles,
		Presence:      presence,
		Cache:         coverageCache,
		Logger:        logger,
		Metrics:       geoMetrics,
		DefaultRadius: cfg.GeoRadiusKm,
	})

	// Background sweep keeps the durable online flags honest.
	sweep := location.NewSweepJob(location.SweepJobConfig{
		Interval:   cfg.SweepInterval,
		MaxAge:     cfg.LocationMaxAge,
		Logger:     logger,
		JobMetrics: jobMetrics,
	}, locations)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sweep.Start(ctx); err != nil {
		logger.Error("failed to start sweep job", "error", err)
		os.Exit(1)
	}

	// Health checkers
	checkers := map[string]health.Checker{
		"database": health.NewDBChecker(conn),
	}
	if redisClient != nil {
		checkers["redis"] = health.NewRedisChecker(redisClient)
	}

	mux := http.NewServeMux()
	api.NewMatchHandlers(engine, matcher, listings).Register(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		results := health.CheckAll(r.Context(), checkers)

		status := http.StatusOK
		body := map[string]string{"status": "healthy"}
		for name, err := range results {
			if err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	})

	// Apply middleware: RequestID -> Tracing -> Logging
	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing("matchd")(handler)
	}
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting matchd", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sweep.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", "error", err)
	}

	logger.Info("matchd stopped", "location_upserts", locations.Stats().String())
}
