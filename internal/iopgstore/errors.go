package iopgstore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/gnames/gnvern/pkg/store"
)

// QueryError is returned when PostgreSQL rejects or fails a request.
func QueryError(names int, err error) error {
	msg := `Vernacular names query for <em>%d</em> names failed

<em>PostgreSQL said:</em> %s`
	diag := diagnostic(err)
	vars := []any{names, diag}

	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("postgres query: %w",
			&store.QueryError{Diagnostic: diag, Err: err}),
	}
}

// MasterListError is returned when a master list request fails.
func MasterListError(err error) error {
	msg := `Master list query failed

<em>PostgreSQL said:</em> %s`
	diag := diagnostic(err)
	vars := []any{diag}

	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("postgres master list query: %w",
			&store.QueryError{Diagnostic: diag, Err: err}),
	}
}

// ScanError is returned when a row cannot be read.
func ScanError(err error) error {
	return &gn.Error{
		Code: errcode.StoreScanError,
		Msg:  "Cannot read vernacular names returned by PostgreSQL",
		Err:  fmt.Errorf("postgres scan: %w", err),
	}
}
