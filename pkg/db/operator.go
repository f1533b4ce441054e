// Package db defines the contract of a PostgreSQL connection used by the
// vernacular name store and by schema management.
package db

import (
	"context"

	"github.com/gnames/gnvern/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages the lifecycle of a PostgreSQL connection pool.
// High-level components (the name store, SchemaManager) run their own
// SQL through Pool().
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	// Used to decide if schema creation should ask for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropTables drops given tables if they exist.
	DropTables(ctx context.Context, tables ...string) error
}
