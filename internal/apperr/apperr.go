// Package apperr defines the result codes surfaced by persistence and order
// operations.  A failure is an *Error carrying one Code; callers compare with
// errors.Is against the exported sentinels, which match by code.
package apperr

import "errors"

// Code is a stable, machine-readable failure identifier.
type Code string

const (
	CodeNoData             Code = "NO_DATA"
	CodeInvalidJSON        Code = "INVALID_JSON"
	CodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	CodeMissingSnapshot    Code = "MISSING_SNAPSHOT"
	CodeApplyFailed        Code = "APPLY_FAILED"
	CodeNotAvailable       Code = "NOT_AVAILABLE"
	CodeNotInOrder         Code = "NOT_IN_ORDER"
	CodeInvalid            Code = "INVALID"
	CodeStorage            Code = "STORAGE_ERROR"
)

// Error is a coded failure, optionally wrapping its cause.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// New returns an *Error with the given code wrapping err (which may be nil).
func New(code Code, err error) *Error { return &Error{Code: code, Err: err} }

// Sentinels for errors.Is.
var (
	ErrNoData             = &Error{Code: CodeNoData}
	ErrInvalidJSON        = &Error{Code: CodeInvalidJSON}
	ErrUnsupportedVersion = &Error{Code: CodeUnsupportedVersion}
	ErrMissingSnapshot    = &Error{Code: CodeMissingSnapshot}
	ErrApplyFailed        = &Error{Code: CodeApplyFailed}
	ErrNotAvailable       = &Error{Code: CodeNotAvailable}
	ErrNotInOrder         = &Error{Code: CodeNotInOrder}
	ErrInvalid            = &Error{Code: CodeInvalid}
	ErrStorage            = &Error{Code: CodeStorage}
)

// CodeOf extracts the code of err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Message turns a code into the single human-readable message shown to the
// user.
func Message(code Code) string {
	switch code {
	case CodeNoData:
		return "There is no saved layout yet."
	case CodeInvalidJSON:
		return "The layout text could not be read as JSON."
	case CodeUnsupportedVersion:
		return "The layout was saved by an unsupported version of the editor."
	case CodeMissingSnapshot:
		return "The layout file is incomplete: it has no snapshot."
	case CodeApplyFailed:
		return "The layout is inconsistent: its cell count does not match its size."
	case CodeNotAvailable:
		return "That seat or table is not available."
	case CodeNotInOrder:
		return "That seat or table is not part of the order."
	case CodeInvalid:
		return "Invalid request."
	case CodeStorage:
		return "The storage backend failed."
	}
	return "Unexpected error."
}
