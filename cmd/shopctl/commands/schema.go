package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/ecommerce-api/cmd/shopctl/output"
	"github.com/localnerve/ecommerce-api/data"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/database"
	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Schema flags
	showDDL    bool
	fromMemory bool
)

// ColumnInfo describes one column as the database reports it
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// TableInfo describes one mapped table
type TableInfo struct {
	Name    string       `json:"name"`
	Exists  bool         `json:"exists"`
	Columns []ColumnInfo `json:"columns"`
}

// schemaCmd shows the schema
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the tables and columns",
	Long: `Show the tables the models map to, as the database reports them.

Examples:
  shopctl schema              # Inspect the configured database
  shopctl schema --memory     # Migrate a scratch in-memory database and inspect that
  shopctl schema --ddl        # Print the initdb DDL for DB_TYPE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if showDDL {
			return runDDL(cmd.OutOrStdout(), cfg.DBType)
		}

		var db *gorm.DB
		if fromMemory {
			db, err = memoryDB(cfg)
		} else {
			db, err = connect(cfg)
		}
		if err != nil {
			return err
		}
		defer database.Close(db)

		return runSchema(cmd.OutOrStdout(), db)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&showDDL, "ddl", false, "Print the initdb DDL instead of inspecting")
	schemaCmd.Flags().BoolVar(&fromMemory, "memory", false, "Inspect a freshly migrated in-memory database")
}

// memoryDB migrates a scratch in-memory database.
// One connection only, each new one would see an empty database.
func memoryDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(sqlite.Open(":memory:"), commandLogger(cfg))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func runDDL(w io.Writer, dbType string) error {
	ddl := data.InitdbTables(dbType)
	if ddl == "" {
		return fmt.Errorf("no initdb DDL for database type %s", dbType)
	}
	fmt.Fprint(w, ddl)
	return nil
}

func runSchema(w io.Writer, db *gorm.DB) error {
	tables, err := inspectTables(db)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}

	for _, table := range tables {
		output.Section(w, table.Name)
		if !table.Exists {
			output.Warning(w, "table does not exist")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "COLUMN\tTYPE\tNULL\tPK")
		for _, col := range table.Columns {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%t\n", col.Name, col.Type, col.Nullable, col.PrimaryKey)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func inspectTables(db *gorm.DB) ([]TableInfo, error) {
	migrator := db.Migrator()
	tables := make([]TableInfo, 0, len(models.All()))

	for _, model := range models.All() {
		name, err := tableName(db, model)
		if err != nil {
			return nil, err
		}

		info := TableInfo{Name: name, Columns: []ColumnInfo{}}
		if info.Exists = migrator.HasTable(model); !info.Exists {
			tables = append(tables, info)
			continue
		}

		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
		}
		for _, ct := range columnTypes {
			nullable, _ := ct.Nullable()
			pk, _ := ct.PrimaryKey()
			info.Columns = append(info.Columns, ColumnInfo{
				Name:       ct.Name(),
				Type:       ct.DatabaseTypeName(),
				Nullable:   nullable,
				PrimaryKey: pk,
			})
		}
		tables = append(tables, info)
	}

	return tables, nil
}
