package xpath

import (
	"errors"
	"fmt"
)

// ErrorCode is the QName local part of an XPath error, e.g. XPTY0004.
type ErrorCode string

const (
	CodeType             ErrorCode = "XPTY0004"
	CodeDivisionByZero   ErrorCode = "FOAR0001"
	CodeNumericOverflow  ErrorCode = "FOAR0002"
	CodeInvalidCast      ErrorCode = "FORG0001"
	CodeInvalidValue     ErrorCode = "FOCA0002"
	CodeStaticEmpty      ErrorCode = "XPST0005"
	CodeNaNOperand       ErrorCode = "FOCA0005"
	CodeDurationOverflow ErrorCode = "FODT0002"
	CodeSyntax           ErrorCode = "XPST0003"
	CodeUnknownFunction  ErrorCode = "XPST0017"
)

// Error is the signal returned by every failing engine operation.
//
// Two errors match with errors.Is when their codes are equal, so callers can test
// against the sentinels below regardless of the message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrType             = &Error{Code: CodeType}
	ErrDivisionByZero   = &Error{Code: CodeDivisionByZero}
	ErrNumericOverflow  = &Error{Code: CodeNumericOverflow}
	ErrInvalidCast      = &Error{Code: CodeInvalidCast}
	ErrInvalidValue     = &Error{Code: CodeInvalidValue}
	ErrStaticEmpty      = &Error{Code: CodeStaticEmpty}
	ErrNaNOperand       = &Error{Code: CodeNaNOperand}
	ErrDurationOverflow = &Error{Code: CodeDurationOverflow}
	ErrSyntax           = &Error{Code: CodeSyntax}
	ErrUnknownFunction  = &Error{Code: CodeUnknownFunction}
)

// CodeOf extracts the error code of err, if it carries one.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func newError(code ErrorCode, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func typeError(op Operator, lhs, rhs Kind) error {
	return newError(CodeType, "operator %s is not defined for %s and %s", op, lhs, rhs)
}
