package iosqlapi

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/gnames/gnvern/pkg/store"
)

// RequestError is returned when a request cannot reach the SQL API.
func RequestError(endpoint string, err error) error {
	msg := `Cannot reach SQL API at <em>%s</em>

<em>How to fix:</em>
  1. Check the <em>store.url</em> setting
  2. Check network connectivity`
	vars := []any{endpoint}

	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("sql api request: %w",
			&store.QueryError{Err: err}),
	}
}

// ResponseError is returned when the SQL API rejects a query.
func ResponseError(endpoint string, status int, diag string) error {
	msg := "SQL API at <em>%s</em> answered with status %d: %s"
	vars := []any{endpoint, status, diag}

	return &gn.Error{
		Code: errcode.StoreResponseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("sql api response: %w",
			&store.QueryError{Status: status, Diagnostic: diag}),
	}
}

// DecodeError is returned when the SQL API response is not valid JSON.
func DecodeError(endpoint string, err error) error {
	msg := "Cannot decode SQL API response from <em>%s</em>"
	vars := []any{endpoint}

	return &gn.Error{
		Code: errcode.StoreDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("sql api decode: %w", err),
	}
}
