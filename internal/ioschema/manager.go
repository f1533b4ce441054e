// Package ioschema implements SchemaManager interface for
// the vernacular name store. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/db"
	"github.com/gnames/gnvern/pkg/lifecycle"
	"github.com/gnames/gnvern/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates tables of the store and their indexes.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
	force bool,
) error {
	tables := tablesFromConfig(cfg)
	if force {
		err := m.operator.DropTables(ctx, tables.Vernacular, tables.MasterList)
		if err != nil {
			return err
		}
	}

	gormDB, err := m.gormDB()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx), tables); err != nil {
		return CreateSchemaError(err)
	}
	slog.Info("Created store tables",
		"vernacular", tables.Vernacular, "master_list", tables.MasterList)

	return m.createIndexes(ctx, tables)
}

// Migrate updates the store tables to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	tables := tablesFromConfig(cfg)
	gormDB, err := m.gormDB()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx), tables); err != nil {
		return MigrateSchemaError(err)
	}
	slog.Info("Migrated store tables",
		"vernacular", tables.Vernacular, "master_list", tables.MasterList)

	return m.createIndexes(ctx, tables)
}

func (m *manager) gormDB() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

// createIndexes adds case-insensitive lookup indexes.
func (m *manager) createIndexes(
	ctx context.Context,
	tables schema.Tables,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	for _, ddl := range schema.IndexDDL(tables) {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return IndexError(ddl, err)
		}
	}
	return nil
}

func tablesFromConfig(cfg *config.Config) schema.Tables {
	res := schema.DefaultTables()
	if cfg.Store.Table != "" {
		res.Vernacular = cfg.Store.Table
	}
	if cfg.Store.MasterListTable != "" {
		res.MasterList = cfg.Store.MasterListTable
	}
	return res
}
