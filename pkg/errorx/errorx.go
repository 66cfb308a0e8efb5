package errorx

import (
	"errors"
	"fmt"
	"strings"
)

// CodeError is an application error carrying a business code.
// It implements the error interface, supports %w wrapping and is
// recognised by errors.Is/errors.As.
type CodeError struct {
	Code  int    // business code
	Msg   string // human readable message
	cause error  // wrapped underlying error
}

// Error returns "msg: cause" when an underlying error is present,
// otherwise just the message.
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap exposes the wrapped error to errors.Is/errors.As.
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without an underlying cause.
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a business code and message to an underlying error.
// Usage: errorx.Wrap(err, CodeNotFound, "conversation not found")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode extracts the business code from an error chain,
// falling back to CodeServerBusy for unknown errors.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business code constants. The taxonomy mirrors the failure modes the
// API exposes: every handler maps one of these onto the response envelope.
const (
	CodeSuccess         = 1000 // success
	CodeInvalidParam    = 1001 // malformed or self-referential argument
	CodeUnauthenticated = 1002 // no caller identity presented
	CodeUserNotFound    = 1003 // identity resolved to no local user
	CodeNotFound        = 1004 // user/conversation/message/request absent
	CodeConflict        = 1005 // duplicate contact/request, invalid membership count
	CodeServerBusy      = 1006 // internal failure, retry manually
	CodeDBError         = 1010 // database error
	CodeCacheError      = 1011 // cache error
)

// Predefined error instances. Usable directly as return values and as
// targets for errors.Is.
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid request parameter")
	ErrUnauthenticated = New(CodeUnauthenticated, "not authenticated")
	ErrUserNotFound    = New(CodeUserNotFound, "user not found")
	ErrServerBusy      = New(CodeServerBusy, "server busy")
)

// IsNotFound reports whether err is a "not found" class error,
// including gorm.ErrRecordNotFound surfacing from the DAO layer.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && (codeErr.Code == CodeNotFound || codeErr.Code == CodeUserNotFound) {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsConflict reports whether err carries CodeConflict.
func IsConflict(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code == CodeConflict
	}
	return false
}

// IsDuplicateKey reports whether err is a storage-level unique constraint
// violation. Pairwise invariants (one contact per pair, one pending request
// per ordered pair) rely on unique indexes rather than check-then-insert,
// so a concurrent loser surfaces here and must map to CodeConflict.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	// MySQL: Error 1062 "Duplicate entry"; SQLite: "UNIQUE constraint failed"
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
