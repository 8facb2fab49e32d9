// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/tripplanner/backend/internal/auth"
	"github.com/tripplanner/backend/internal/config"
	"github.com/tripplanner/backend/internal/handler"
	"github.com/tripplanner/backend/internal/itinerary"
	"github.com/tripplanner/backend/internal/middleware"
	"github.com/tripplanner/backend/internal/payment"
	"github.com/tripplanner/backend/internal/repo"
	"github.com/tripplanner/backend/internal/service"
	"github.com/tripplanner/backend/migrations"
	"github.com/tripplanner/backend/spec"
)

// shutdownGrace is how long in-flight requests get to finish after a signal.
const shutdownGrace = 15 * time.Second

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal in containers; the environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(context.Background(), sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	// --- Itinerary generator ----------------------------------------------
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = itinerary.NewRedisClient(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
	} else {
		slog.Info("REDIS_URL not set, itinerary cache disabled")
	}

	provider, err := itinerary.New(cfg.AI.Provider, itinerary.LLMConfig{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
	if err != nil {
		slog.Error("failed to configure itinerary provider", "error", err)
		os.Exit(1)
	}
	generator := itinerary.NewGuard(provider, itinerary.NewRedisCache(rdb, cfg.CacheTTL, logger), itinerary.GuardConfig{
		CallTimeout:      cfg.AI.Timeout,
		ConcurrencyLimit: cfg.AI.ConcurrencyLimit,
		AcquireTimeout:   cfg.AI.AcquireTimeout,
		BreakerFailures:  cfg.AI.BreakerFailures,
		BreakerCooldown:  cfg.AI.BreakerCooldown,
	}, logger)
	slog.Info("itinerary provider configured", "provider", cfg.AI.Provider)

	// --- Services ---------------------------------------------------------
	repos := repo.NewRepos(pool)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	srvHandler := handler.NewServer(handler.Deps{
		Auth:      service.NewAuthService(repos.Users, tokens, logger),
		Trips:     service.NewTripService(repos.Trips, generator, logger),
		Bookings:  service.NewBookingService(repos.Trips, repos.Bookings, logger),
		Payments:  service.NewPaymentService(repos.Trips, repos.Payments, repo.NewTransactor(pool), payment.NewMockGateway(cfg.PaymentSigningSecret), logger),
		DB:        pool,
		Generator: generator,
		OpenAPI:   spec.OpenAPI,
	}, logger)

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → Logger → Recoverer → Timeout → CORS → body limit.
	// Timeout cancels the request context; generation honours it.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", srvHandler.Routes(middleware.NewAuthenticator(tokens)))

	// --- HTTP Server ------------------------------------------------------
	// The write timeout sits above the request timeout so a slow generation
	// still gets its 504 written.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
