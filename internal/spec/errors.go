package spec

import (
	"errors"
	"strconv"
	"strings"
)

// ErrorCode categorizes description errors.
type ErrorCode string

const (
	// ArgumentError: a builder method was called without its required argument.
	ArgumentError ErrorCode = "ArgumentError"
	// MethodNotFoundError: a dispatched name is outside the type/location vocabulary.
	MethodNotFoundError ErrorCode = "MethodNotFoundError"
	// OperationNotFoundError: a declared operation has no producer method.
	OperationNotFoundError ErrorCode = "OperationNotFoundError"
	// InvalidOperationError: a producer did not return a well-formed operation.
	InvalidOperationError ErrorCode = "InvalidOperationError"
	// ConfigurationError: a group or middleware does not satisfy its contract.
	ConfigurationError ErrorCode = "ConfigurationError"
)

// Sentinels matched by errors.Is against any *Error with the same code.
var (
	ErrArgument          = errors.New("spec: argument error")
	ErrMethodNotFound    = errors.New("spec: method not found")
	ErrOperationNotFound = errors.New("spec: operation not found")
	ErrInvalidOperation  = errors.New("spec: invalid operation")
	ErrConfiguration     = errors.New("spec: configuration error")
)

// Error is a structured description error.
type Error struct {
	Code      ErrorCode
	Message   string
	Class     string // type the method was called on, e.g. "Param"
	Method    string // offending method name
	Operation string // operation name, when known
	Cause     error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Operation != "" && !strings.Contains(e.Message, e.Operation) {
		sb.WriteString(" (operation ")
		sb.WriteString(quote(e.Operation))
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e's code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrArgument:
		return e.Code == ArgumentError
	case ErrMethodNotFound:
		return e.Code == MethodNotFoundError
	case ErrOperationNotFound:
		return e.Code == OperationNotFoundError
	case ErrInvalidOperation:
		return e.Code == InvalidOperationError
	case ErrConfiguration:
		return e.Code == ConfigurationError
	}
	return false
}

func newArgumentError(class, method string) *Error {
	return &Error{
		Code:    ArgumentError,
		Message: "too few arguments to function " + class + "::" + method + "(), 0 passed",
		Class:   class,
		Method:  method,
	}
}

func newMethodNotFoundError(class, method string) *Error {
	return &Error{
		Code:    MethodNotFoundError,
		Message: "call to undefined method " + class + "::" + method + "()",
		Class:   class,
		Method:  method,
	}
}

// NewConfigurationError reports a group or middleware that cannot be used.
func NewConfigurationError(msg string) *Error {
	return &Error{Code: ConfigurationError, Message: msg}
}

func quote(s string) string { return strconv.Quote(s) }

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }
