// root.go
//
// A relational e-commerce data service for users, products and orders
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of ecommerce-api.
// ecommerce-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// ecommerce-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with ecommerce-api.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package commands

import (
	"fmt"
	"os"

	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/localnerve/ecommerce-api/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbType     string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Maintenance tasks for the ecommerce API database",
	Long: `shopctl works on the database the ecommerce API is configured for.
Connection settings come from the same environment variables (and .env file)
the server reads.

Commands:
  migrate      Create or update the schema
  healthcheck  Check the database and schema, exit 1 when unhealthy
  schema       Show the tables and columns, or the initdb DDL
  wait         Block until the database accepts connections`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbType, "db-type", "", "Override DB_TYPE")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL and progress")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbType != "" {
		cfg.DBType = dbType
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// commandLogger is silent unless --verbose is set
func commandLogger(cfg *config.Config) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	debug := *cfg
	debug.LogLevel = "debug"
	return logger.New(&debug)
}

// connect opens the configured database
func connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg, commandLogger(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBType, err)
	}
	return db, nil
}
