package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/telemetry"
	"inventory/internal/validation"
	"inventory/pkg/rabbitmq"
	"inventory/pkg/redisstore"

	"github.com/gofiber/fiber/v2"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Telemetry ---
	tel, err := telemetry.NewTelemetry(ctx, telemetry.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.AppEnv,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			tel.Logger.Error("Error during telemetry shutdown", slog.String("error", err.Error()))
		}
	}()
	logger := tel.Logger
	slog.SetDefault(logger)

	server, cleanup, err := newServer(ctx, cfg, tel)
	if err != nil {
		return err
	}
	defer cleanup()

	// --- Start HTTP Server ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("port", cfg.AppPort))
		errCh <- server.Listen(cfg.AppPort)
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error during Fiber shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server gracefully stopped")
	return nil
}

// newServer wires the stores, optional integrations and services into the
// Fiber app. cleanup releases whatever was opened, also on error.
func newServer(ctx context.Context, cfg *config.Config, tel *telemetry.Telemetry) (server *fiber.App, cleanup func(), err error) {
	logger := tel.Logger
	var cleanups []func()
	cleanup = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// --- Initialize Repositories ---
	var (
		productRepo repositories.ProductRepository
		userRepo    repositories.UserRepository
	)
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		productRepo = repositories.NewMemoryProductRepository()
		userRepo = repositories.NewMemoryUserRepository()
	} else {
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, cleanup, err
		}
		cleanups = append(cleanups, func() {
			if err := database.Close(db); err != nil {
				logger.Error("Error closing database", slog.String("error", err.Error()))
			}
		})
		logger.Info("Database ready", slog.String("driver", cfg.DBDriver))
		productRepo = repositories.NewGORMProductRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return nil, cleanup, err
		}
		cleanups = append(cleanups, func() { _ = mqClient.Close() })
		publisher = mqClient
		logger.Info("Publishing product events", slog.String("exchange", cfg.RabbitMQExchange))
	}

	// --- Initialize CSRF storage (optional Redis) ---
	var csrfStorage fiber.Storage
	if cfg.RedisAddr != "" {
		store, err := redisstore.New(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "csrf:",
		})
		if err != nil {
			return nil, cleanup, err
		}
		cleanups = append(cleanups, func() { _ = store.Close() })
		csrfStorage = store
		logger.Info("Storing CSRF tokens in Redis", slog.String("addr", cfg.RedisAddr))
	}

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo, publisher, tel.Tracer, tel.Meter, logger)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AuthTokenTTL)

	if cfg.SeedAdmin != nil {
		created, err := authService.EnsureUser(ctx, &models.User{
			Username: cfg.SeedAdmin.Username,
			Email:    cfg.SeedAdmin.Email,
			Password: cfg.SeedAdmin.Password,
		})
		if err != nil {
			return nil, cleanup, err
		}
		if created {
			logger.Info("Seeded admin user", slog.String("username", cfg.SeedAdmin.Username))
		}
	}

	// --- Initialize Fiber App ---
	server = app.New(app.Options{
		ProductService: productService,
		AuthService:    authService,
		Validator:      validation.New(),
		Telemetry:      tel,
		CSRFStorage:    csrfStorage,
		SecureCookies:  cfg.CookieSecure,
	})

	return server, cleanup, nil
}
