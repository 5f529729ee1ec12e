package db

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/jKV/lib/value"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint64

const (
	ErrCInternal           ErrCode = iota // 0: unexpected internal failure.
	ErrCInvalidValue                      // 1: a mutation received a value that is not a record.
	ErrCNotFound                          // 2: the key does not exist.
	ErrCUnsupportedBackend                // 3: the requested codec is not available.
	ErrCCorruptStore                      // 4: the store file exists but cannot be decoded.
	ErrCInvalidOption                     // 5: invalid construction option.
	ErrCCommitFailed                      // 6: writing the store file failed.
)

func (c ErrCode) String() string {
	switch c {
	case ErrCInternal:
		return "Internal"
	case ErrCInvalidValue:
		return "InvalidValue"
	case ErrCNotFound:
		return "NotFound"
	case ErrCUnsupportedBackend:
		return "UnsupportedBackend"
	case ErrCCorruptStore:
		return "CorruptStore"
	case ErrCInvalidOption:
		return "InvalidOption"
	case ErrCCommitFailed:
		return "CommitFailed"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrInvalidValue       = &Error{Code: ErrCInvalidValue}
	ErrNotFound           = &Error{Code: ErrCNotFound}
	ErrUnsupportedBackend = &Error{Code: ErrCUnsupportedBackend}
	ErrCorruptStore       = &Error{Code: ErrCCorruptStore}
	ErrInvalidOption      = &Error{Code: ErrCInvalidOption}
	ErrCommitFailed       = &Error{Code: ErrCCommitFailed}
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by database operations. It carries a code, the
// key the operation was about (if any), a message and an optional cause.
type Error struct {
	Code ErrCode
	Key  string
	Msg  string
	Err  error
}

// NewError creates a new Error with the given code, key and message.
func NewError(code ErrCode, key, msg string) *Error {
	return &Error{Code: code, Key: key, Msg: msg}
}

// WrapError creates a new Error with the given code wrapping cause.
func WrapError(code ErrCode, key string, cause error) *Error {
	return &Error{Code: code, Key: key, Err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := e.Code.String()
	if e.Key != "" {
		s += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches errors with the same code, so errors.Is(err, ErrNotFound) works for any
// not-found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// --------------------------------------------------------------------------
// Record Validation
// --------------------------------------------------------------------------

// ValidateRecord returns ErrInvalidValue if rec is nil or holds invalid values.
func ValidateRecord(key string, rec value.Record) error {
	if rec == nil {
		return NewError(ErrCInvalidValue, key, "value must be a record, got nil")
	}
	if err := rec.Validate(); err != nil {
		return WrapError(ErrCInvalidValue, key, err)
	}
	return nil
}

// RecordOf converts untyped input (such as decoder output) into a record. Values
// that are not mappings fail with ErrInvalidValue.
func RecordOf(v any) (value.Record, error) {
	rec, err := value.RecordFromAny(v)
	if err != nil {
		return nil, WrapError(ErrCInvalidValue, "", err)
	}
	return rec, nil
}
