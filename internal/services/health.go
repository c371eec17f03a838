package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Schema       string            `json:"schema"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every check passed
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// HealthCheck pings the database and confirms every table exists.
// Both checks run concurrently and never return an error; failures are
// recorded in the result.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB) HealthCheckResult {
	log := zerolog.Ctx(ctx)

	result := HealthCheckResult{
		Status:   "healthy",
		Database: "ok",
		Schema:   "ok",
		Details:  make(map[string]string),
	}

	var mu sync.Mutex
	fail := func(key, message string, err error) {
		mu.Lock()
		defer mu.Unlock()
		result.Status = "unhealthy"
		result.Details[key] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("%s: %v", message, err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; %s: %v", message, err)
		}
		log.Warn().Err(err).Str("check", key).Msg("Health check failed")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			mu.Lock()
			result.Database = "error"
			mu.Unlock()
			fail("database_error", "Database connection error", err)
			return nil
		}
		if err := sqlDB.PingContext(gctx); err != nil {
			mu.Lock()
			result.Database = "unreachable"
			mu.Unlock()
			fail("database_ping_error", "Database ping failed", err)
		}
		return nil
	})

	g.Go(func() error {
		migrator := db.WithContext(gctx).Migrator()
		for _, model := range models.All() {
			if !migrator.HasTable(model) {
				mu.Lock()
				result.Schema = "incomplete"
				mu.Unlock()
				fail("schema_error", "Schema check failed", fmt.Errorf("missing table for %T", model))
				return nil
			}
		}
		return nil
	})

	_ = g.Wait()

	if result.Healthy() {
		result.Details["database_type"] = cfg.DBType
		if cfg.DBDatabase != "" {
			result.Details["database_name"] = cfg.DBDatabase
		}
		log.Debug().Msg("Health check passed - all systems operational")
	}

	return result
}
