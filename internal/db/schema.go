package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var schemas = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_name TEXT NOT NULL,
			product_type TEXT NOT NULL,
			price TEXT NOT NULL,
			tax TEXT NOT NULL,
			image TEXT,
			is_synced INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_products_is_synced ON products (is_synced)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			product_type TEXT NOT NULL,
			price NUMERIC NOT NULL,
			tax NUMERIC NOT NULL,
			image TEXT,
			is_synced BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_products_is_synced ON products (is_synced)`,
	},
}

// Migrate creates the products table for driver when it is missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
