package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
)

// UnknownTypeError is returned for a store type New does not know.
func UnknownTypeError(typ string) error {
	msg := `Unknown store type <em>%s</em>

Use one of: postgres, sqlapi, sqlite`
	vars := []any{typ}

	return &gn.Error{
		Code: errcode.StoreUnknownTypeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown store type %q", typ),
	}
}

// MissingSettingError is returned when a store lacks a required setting.
func MissingSettingError(typ, key string) error {
	msg := "Store <em>%s</em> requires <em>%s</em> setting"
	vars := []any{typ, key}

	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("store %s: missing %s", typ, key),
	}
}

// NoMasterListError is returned when a store cannot list datasets of the
// master list.
func NoMasterListError(typ string) error {
	msg := `Store <em>%s</em> does not provide the master list

Use a postgres, sqlapi or sqlite store for dataset reports and search`
	vars := []any{typ}

	return &gn.Error{
		Code: errcode.StoreNoMasterListError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("store %s: no master list", typ),
	}
}
