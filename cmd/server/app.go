package main

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/handlers"
	"github.com/localnerve/ecommerce-api/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// newApp builds the fiber app with every route mounted.
// Resource routes answer both at the root and under /api.
func newApp(cfg *config.Config, db *gorm.DB, log zerolog.Logger, registry prometheus.Registerer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID(log))
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())

	// Prometheus metrics
	prom := fiberprometheus.NewWithRegistry(registry, cfg.AppName, "http", "", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	handlers.Register(api, db, cfg)

	handlers.Register(app, db, cfg)

	app.Use(handlers.NotFound)

	return app
}
