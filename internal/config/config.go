package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	AppName string `koanf:"app_name" validate:"required"`
	Port    string `koanf:"port" validate:"required,numeric"`

	// Database configuration
	DBType            string        `koanf:"db_type" validate:"required,oneof=mysql mariadb postgres postgresql sqlite sqlite-go sqlserver mssql"`
	DBHost            string        `koanf:"db_host"`
	DBPort            string        `koanf:"db_port"`
	DBDatabase        string        `koanf:"db_database" validate:"required_without=DBDSN"`
	DBUser            string        `koanf:"db_user"`
	DBPassword        string        `koanf:"db_password"`
	DBDSN             string        `koanf:"db_dsn"`
	DBConnectionLimit int           `koanf:"db_connection_limit" validate:"min=1"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`
	DBAutoMigrate     bool          `koanf:"db_auto_migrate"`

	// DuplicateAssociation decides what adding an already attached product to an order does
	DuplicateAssociation string `koanf:"duplicate_association" validate:"oneof=ignore reject"`

	// Logging configuration
	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`
}

// Default returns the configuration used when no environment overrides are present
func Default() *Config {
	return &Config{
		AppName:              "ecommerce",
		Port:                 "3000",
		DBType:               "mysql",
		DBHost:               "localhost",
		DBPort:               "3306",
		DBConnectionLimit:    5,
		DBConnMaxLifetime:    5 * time.Minute,
		DBAutoMigrate:        true,
		DuplicateAssociation: "ignore",
		LogLevel:             "info",
		LogFormat:            "console",
	}
}

// Load loads configuration from environment variables.
// A .env file in the working directory is loaded first, if present.
// DB_DSN (or DATABASE_URL) replaces the individual connection variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// DATABASE_URL is accepted as another name for DB_DSN
	if cfg.DBDSN == "" {
		cfg.DBDSN = k.String("database_url")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RejectDuplicateAssociations reports whether attaching an already attached product is an error
func (c *Config) RejectDuplicateAssociations() bool {
	return c.DuplicateAssociation == "reject"
}
