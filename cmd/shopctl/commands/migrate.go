package commands

import (
	"fmt"
	"io"

	"github.com/localnerve/ecommerce-api/cmd/shopctl/output"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// migrateCmd creates or updates the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	Long: `Run the same schema migration the server runs at startup when
DB_AUTO_MIGRATE is true. Use this when the server is started with
DB_AUTO_MIGRATE=false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return runMigrate(cmd.OutOrStdout(), db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(w io.Writer, db *gorm.DB) error {
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	for _, model := range models.All() {
		name, err := tableName(db, model)
		if err != nil {
			return err
		}
		output.Muted(w, "  %s", name)
	}
	output.Success(w, "Schema is up to date (%d tables)", len(models.All()))
	return nil
}

// tableName resolves the table GORM maps model to
func tableName(db *gorm.DB, model interface{}) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("failed to parse %T: %w", model, err)
	}
	return stmt.Schema.Table, nil
}
