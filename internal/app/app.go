// Package app assembles the Fiber application.
package app

import (
	"io"
	"time"

	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/services"
	"inventory/internal/telemetry"
	"inventory/internal/validation"
	"inventory/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries the services and settings the app is built from.
type Options struct {
	ProductService *services.ProductService
	AuthService    *services.AuthService
	Validator      *validation.Validator
	Telemetry      *telemetry.Telemetry

	// CSRFStorage holds anti-forgery tokens. Nil keeps them in memory.
	CSRFStorage fiber.Storage
	// SecureCookies restricts the auth and csrf cookies to HTTPS.
	SecureCookies bool
	// AccessLog receives the request log. Nil writes to stdout.
	AccessLog io.Writer
}

// New builds the Fiber app with every route registered.
func New(opts Options) *fiber.App {
	log := opts.Telemetry.Logger

	app := fiber.New(fiber.Config{
		Views:             views.NewEngine(),
		PassLocalsToViews: true,
		ErrorHandler:      handlers.ErrorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	loggerConfig := logger.Config{}
	if opts.AccessLog != nil {
		loggerConfig.Output = opts.AccessLog
	}
	app.Use(logger.New(loggerConfig))
	app.Use(middleware.Tracing(opts.Telemetry.Tracer, opts.Telemetry.Meter))
	app.Use(middleware.CSRF(opts.CSRFStorage, opts.SecureCookies))

	// --- Operational routes ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(opts.Telemetry.Registry, promhttp.HandlerOpts{}),
	))

	// --- Account routes (public) ---
	authHandler := handlers.NewAuthHandler(opts.AuthService, opts.Validator.Engine(), log, opts.SecureCookies)
	authHandler.RegisterRoutes(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/products", fiber.StatusFound)
	})

	// --- Protected routes ---
	// The group's middleware matches every path registered after it, so it
	// comes last.
	protected := app.Group("", middleware.AuthRequired(opts.AuthService, handlers.LoginPath, log))
	productHandler := handlers.NewProductHandler(opts.ProductService, opts.Validator, log)
	productHandler.RegisterRoutes(protected)

	return app
}
