// Package data holds the SQL used to initialize databases that are not
// migrated by the service itself.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/postgres/001-ddl-tables.sql
var InitdbPostgresTables string

// InitdbTables returns the table DDL for dbType, or "" when there is none
func InitdbTables(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return InitdbMariaDBTables
	case "postgres", "postgresql":
		return InitdbPostgresTables
	}
	return ""
}
