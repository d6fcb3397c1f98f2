package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tienda/internal/app"
	"tienda/internal/cache"
	"tienda/internal/config"
	"tienda/internal/database"
	"tienda/internal/payments"
	"tienda/pkg/logging"
	"tienda/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, lg)
	if err != nil {
		lg.Fatal("Failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		lg.Fatal("Failed to migrate database", zap.Error(err))
	}

	deps := app.Deps{
		DB:               db,
		Log:              lg,
		Gateway:          payments.NewCulqiClient(cfg.CulqiAPIURL, cfg.CulqiSecretKey),
		JWTSecret:        cfg.JWTSecret,
		TokenTTL:         cfg.TokenTTL,
		RequestTimeout:   cfg.RequestTimeout,
		StrictOrderTotal: cfg.StrictOrderTotal,
		Currency:         cfg.CulqiCurrency,
		AccessLog:        true,
	}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, lg)
		if err != nil {
			lg.Fatal("Failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		deps.Publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent(lg)); err != nil {
			lg.Warn("Failed to start RabbitMQ consumer", zap.Error(err))
		}
	} else {
		lg.Info("RABBITMQ_URL not set, order events disabled")
	}

	// --- Redis (optional) ---
	if cfg.RedisAddr != "" {
		rdb := cache.NewClient(cfg.RedisAddr)
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Warn("Redis not reachable, idempotency keys may be ignored", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		deps.Idempotency = cache.NewIdempotencyStore(rdb, cfg.IdempotencyTTL)
	}

	server := app.New(deps)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		if err := server.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			lg.Error("Failed to bootstrap admin account", zap.Error(err))
		}
		cancel()
	}

	// --- Start HTTP Server ---
	lg.Info("Starting server", zap.String("port", cfg.AppPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Fiber.Listen(cfg.AppPort); err != nil {
			lg.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	lg.Info("Shutting down server...")

	if err := server.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		lg.Error("Error during Fiber shutdown", zap.Error(err))
	}

	lg.Info("Server gracefully stopped")
}
