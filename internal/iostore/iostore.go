// Package iostore creates the name store selected in the configuration.
package iostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnames/gnvern/internal/iopgstore"
	"github.com/gnames/gnvern/internal/iosqlapi"
	"github.com/gnames/gnvern/internal/iosqlite"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/store"
)

// Store types known to New.
const (
	Postgres = "postgres"
	SQLAPI   = "sqlapi"
	SQLite   = "sqlite"
)

// New opens the store of cfg.Store.Type.
func New(ctx context.Context, cfg *config.Config) (store.Store, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Store.Type))
	switch typ {
	case Postgres:
		return iopgstore.New(ctx, cfg)
	case SQLAPI:
		if cfg.Store.URL == "" {
			return nil, MissingSettingError(typ, "store.url")
		}
		return iosqlapi.New(cfg), nil
	case SQLite:
		if cfg.Store.SQLitePath == "" {
			return nil, MissingSettingError(typ, "store.sqlite_path")
		}
		s, err := iosqlite.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, UnknownTypeError(cfg.Store.Type)
	}
}

// MasterList returns the master list view of a store.
func MasterList(s store.Store) (store.MasterList, error) {
	ml, ok := s.(store.MasterList)
	if !ok {
		return nil, NoMasterListError(fmt.Sprintf("%T", s))
	}
	return ml, nil
}
