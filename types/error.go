package types

import (
	"errors"
	"fmt"
)

// Error wraps an ErrorCode as a Go error, carrying the opcode and 1-based
// ordinal of the failing instruction when the failure happened inside the
// execution loop.
type Error struct {
	Code   ErrorCode
	Detail string
	Opcode string // opcode of the failing instruction, "" outside the loop
	Order  int    // 1-based source ordinal, 0 outside the loop
}

func (e *Error) Error() string {
	if e.Opcode != "" {
		return fmt.Sprintf("%s: %s (%s order %d)", e.Code, e.Detail, e.Opcode, e.Order)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// NewError creates an Error with a formatted detail message
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// At attaches instruction context to an error. Existing context wins so the
// innermost failure site is reported.
func (e *Error) At(opcode string, order int) *Error {
	if e.Opcode == "" {
		e.Opcode = opcode
		e.Order = order
	}
	return e
}

// CodeOf extracts the ErrorCode from an error chain.
// Non-interpreter errors map to E_INTERNAL.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return E_OK
	}
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code
	}
	return E_INTERNAL
}
