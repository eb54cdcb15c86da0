package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/vehicle_registry_app/internal/adapters/quotes"
	"github.com/SscSPs/vehicle_registry_app/internal/adapters/ratecache"
	"github.com/SscSPs/vehicle_registry_app/internal/core/ports/rates"
	"github.com/SscSPs/vehicle_registry_app/internal/core/services"
	"github.com/SscSPs/vehicle_registry_app/internal/handlers"
	"github.com/SscSPs/vehicle_registry_app/internal/metrics"
	"github.com/SscSPs/vehicle_registry_app/internal/middleware"
	"github.com/SscSPs/vehicle_registry_app/internal/platform/config"
	"github.com/SscSPs/vehicle_registry_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/vehicle_registry_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Vehicle Registry API
// @version 1.0
// @description CRUD API for vehicle records with JWT authentication and BRL to USD price conversion.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		logger.Error("Database migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	exchangeMetrics := metrics.NewExchangeMetrics(registry)

	rateCache := ratecache.Connect(ctx, cfg.Exchange.RedisURL, cfg.Exchange.HTTPTimeout, ratecache.Options{
		RetryInterval: cfg.Exchange.RedisRetryInterval,
		Logger:        logger.With(slog.String("component", "ratecache")),
		Metrics:       exchangeMetrics,
	})
	defer func() {
		if cerr := rateCache.Close(); cerr != nil {
			logger.Warn("Error closing rate cache", slog.String("error", cerr.Error()))
		}
	}()

	quoteClient := quotes.NewClient(cfg.Exchange.HTTPTimeout)
	providers := []rates.Provider{
		quotes.NewAwesomeAPI(quoteClient, cfg.Exchange.AwesomeAPIBaseURL),
		quotes.NewFrankfurter(quoteClient, cfg.Exchange.FrankfurterBaseURL),
	}
	exchangeService := services.NewExchangeService(cfg.Exchange, rateCache, providers,
		services.WithExchangeMetrics(exchangeMetrics),
	)
	if cfg.Exchange.FixedRate != nil {
		logger.Info("Using fixed USD/BRL rate", slog.Float64("rate", *cfg.Exchange.FixedRate))
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, exchangeService)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, registry); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
