package services_test

import (
	"context"
	"testing"

	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/localnerve/ecommerce-api/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	cfg := config.Default()
	cfg.DBType = "sqlite-go"

	result := services.HealthCheck(context.Background(), cfg, db)

	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "ok", result.Schema)
	assert.Equal(t, "sqlite-go", result.Details["database_type"])
	assert.Empty(t, result.ErrorMessage)
}

func TestHealthCheckMissingTable(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.OrderProduct{}))

	result := services.HealthCheck(context.Background(), config.Default(), db)

	assert.False(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "incomplete", result.Schema)
	assert.Contains(t, result.ErrorMessage, "OrderProduct")
}

func TestHealthCheckClosedDatabase(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	require.NoError(t, database.Close(db))

	result := services.HealthCheck(context.Background(), config.Default(), db)

	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Database)
	assert.NotEmpty(t, result.Details["database_ping_error"])
}
