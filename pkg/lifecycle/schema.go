// Package lifecycle defines contracts of store maintenance operations.
package lifecycle

import (
	"context"

	"github.com/gnames/gnvern/pkg/config"
)

// SchemaManager creates and updates tables of the PostgreSQL vernacular
// name store. Both operations are idempotent.
type SchemaManager interface {
	// Create creates the tables and their indexes. Existing tables are
	// dropped first only if force is true.
	Create(ctx context.Context, cfg *config.Config, force bool) error

	// Migrate updates the tables to the latest version using GORM
	// AutoMigrate and recreates missing indexes.
	Migrate(ctx context.Context, cfg *config.Config) error
}
