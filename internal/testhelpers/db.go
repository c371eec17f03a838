package testhelpers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MemoryDSN is a private in-memory SQLite database with foreign keys enforced
const MemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// NewTestDB creates a migrated in-memory SQLite database for testing.
// The pool is pinned to one connection because every connection to
// :memory: would otherwise see its own empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(MemoryDSN), zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
