package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/localnerve/ecommerce-api/cmd/shopctl/output"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var errUnhealthy = errors.New("database is unhealthy")

// healthcheckCmd is the container HEALTHCHECK
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the database and schema",
	Long: `Ping the database and confirm every table exists.
Exits 1 when either check fails.

Examples:
  shopctl healthcheck
  shopctl healthcheck --json`,
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

		return runHealthcheck(cmd.Context(), cmd.OutOrStdout(), cfg, db)
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}

func runHealthcheck(ctx context.Context, w io.Writer, cfg *config.Config, db *gorm.DB) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = commandLogger(cfg).WithContext(ctx)

	result := services.HealthCheck(ctx, cfg, db)

	if jsonOutput {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal health check result: %w", err)
		}
		fmt.Fprintln(w, string(out))
	} else {
		fmt.Fprintf(w, "%s database %s\n", output.StatusIcon(result.Database), result.Database)
		fmt.Fprintf(w, "%s schema   %s\n", output.StatusIcon(result.Schema), result.Schema)
		if result.ErrorMessage != "" {
			output.Error(w, "%s", result.ErrorMessage)
		}
	}

	if !result.Healthy() {
		return errUnhealthy
	}
	return nil
}
