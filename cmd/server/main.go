package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/localnerve/ecommerce-api/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	_ "github.com/localnerve/ecommerce-api/docs/api" // Swagger docs
)

// @title Ecommerce API
// @version 1.0.0
// @description Users, products and orders over a relational store
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/ecommerce-api
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	l := logger.New(cfg)

	db, err := database.Connect(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Str("db_type", cfg.DBType).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			l.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	if cfg.DBAutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			l.Fatal().Err(err).Msg("Failed to run migrations")
		}
		l.Info().Msg("Schema migrated")
	}

	app := newApp(cfg, db, l, prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("port", cfg.Port).Msg("Starting server")
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		<-ctx.Done()
		l.Info().Msg("Gracefully shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Error().Err(err).Msg("Server stopped with error")
		return
	}

	l.Info().Msg("Server stopped")
}
