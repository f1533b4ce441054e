package resolver

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
)

// DuplicateNameError is returned when a name appears twice in one result.
// It means that chunking or grouping is broken, never bad data.
func DuplicateNameError(name string) error {
	msg := "Name <em>%s</em> was resolved twice in one batch"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ResolverDuplicateNameError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: duplicate name %q in result",
			fn.Name(), name),
	}
}

// MissingRecordError is returned when a single name lookup produced no
// record, for example for a blank name.
func MissingRecordError(name string) error {
	msg := "No resolution record for <em>%q</em>"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ResolverMissingRecordError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no record for %q",
			fn.Name(), name),
	}
}
