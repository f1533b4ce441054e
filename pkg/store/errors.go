package store

import "fmt"

// QueryError describes a failed store request. Status and Diagnostic
// keep what the backend reported, so the text can be shown to users.
type QueryError struct {
	// Status is the backend status code, 0 if the request did not reach
	// the backend.
	Status int

	// Diagnostic is the raw diagnostic text of the backend.
	Diagnostic string

	// Err is the underlying transport or driver error, if any.
	Err error
}

func (e *QueryError) Error() string {
	switch {
	case e.Status != 0 && e.Diagnostic != "":
		return fmt.Sprintf("store request failed with status %d: %s",
			e.Status, e.Diagnostic)
	case e.Status != 0:
		return fmt.Sprintf("store request failed with status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("store request failed: %s", e.Err)
	default:
		return "store request failed: " + e.Diagnostic
	}
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
