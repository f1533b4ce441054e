package iosqlite

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/gnames/gnvern/pkg/store"
)

// OpenError is returned when a SQLite file cannot be opened.
func OpenError(path string, err error) error {
	msg := `Cannot open SQLite snapshot <em>%s</em>

<em>How to fix:</em>
  1. Check the <em>store.sqlite_path</em> setting
  2. Make sure the file is readable`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("open sqlite %s: %w", path, err),
	}
}

// QueryError is returned when SQLite fails a statement.
func QueryError(path string, err error) error {
	msg := "SQLite request to <em>%s</em> failed: %s"
	vars := []any{path, err.Error()}

	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("sqlite query: %w",
			&store.QueryError{Diagnostic: err.Error(), Err: err}),
	}
}

// ScanError is returned when a row cannot be read.
func ScanError(path string, err error) error {
	msg := "Cannot read vernacular names from <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.StoreScanError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("sqlite scan: %w", err),
	}
}
