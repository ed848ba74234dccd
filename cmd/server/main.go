package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"carrental/internal/app"
	"carrental/internal/config"
	"carrental/internal/handler"
	"carrental/internal/logging"
	"carrental/internal/metrics"
	internalRedis "carrental/internal/redis"
	"carrental/internal/repository/postgres"
	"carrental/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	zerolog.DefaultContextLogger = logger

	if cfg.App.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Register()

	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize New Relic")
		} else {
			logger.Info().Str("app", cfg.NewRelic.AppName).Msg("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	logger.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("connected to PostgreSQL")

	if err := app.PrepareDatabase(ctx, db, cfg.Database); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare database")
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
	} else {
		logger.Info().Msg("Redis disabled: car cache, booking lock and idempotency replay are off")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, logger, cfg)

	// Start server in goroutine.
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Environment).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(cfg.Server.ShutdownTimeout)
	}

	logger.Info().Msg("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, logger *zerolog.Logger, cfg *config.Config) *http.Server {
	// Redis stores stay nil interfaces when Redis is disabled.
	var (
		carCache  internalRedis.CarCacheInterface
		lockStore internalRedis.LockStoreInterface
	)
	if redisClient != nil {
		carCache = internalRedis.NewCacheStore(redisClient)
		lockStore = internalRedis.NewLockStore(redisClient)
	}

	// Initialize repositories.
	carRepo := postgres.NewCarRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	returnRepo := postgres.NewReturnRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService()
	receiptService := service.NewReceiptService()
	carService := service.NewCarService(db, carRepo, carCache)
	bookingService := service.NewBookingService(db, carRepo, bookingRepo, lockStore, carCache, notificationService)
	returnService := service.NewReturnService(db, bookingRepo, returnRepo, carCache, notificationService, receiptService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CarHandler:     handler.NewCarHandler(carService),
		BookingHandler: handler.NewBookingHandler(bookingService),
		ReturnHandler:  handler.NewReturnHandler(returnService),
		HealthHandler:  handler.NewHealthHandler(db),
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		Logger:         logger,
		RateLimit:      cfg.RateLimit,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
}
