package errors

import (
	"errors"
	"fmt"
)

// Error codes of the agent taxonomy.
const (
	CodeDevice       = "device"
	CodeNetwork      = "network"
	CodeValidation   = "validation"
	CodeAuthInit     = "auth_init"
	CodeAuthCallback = "auth_callback"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no active media session")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// NewWithCode creates an error carrying a taxonomy code and no cause.
func NewWithCode(code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Device(err error, message string) error {
	if err == nil {
		return NewWithCode(CodeDevice, message)
	}
	return WrapWithCode(err, CodeDevice, message)
}

func Network(err error, message string) error {
	if err == nil {
		return NewWithCode(CodeNetwork, message)
	}
	return WrapWithCode(err, CodeNetwork, message)
}

func Validation(message string) error {
	return WrapWithCode(ErrInvalidInput, CodeValidation, message)
}

// AuthInit carries the backend's message verbatim.
func AuthInit(message string) error {
	return NewWithCode(CodeAuthInit, message)
}

// AuthCallback carries the backend's message verbatim.
func AuthCallback(message string) error {
	return NewWithCode(CodeAuthCallback, message)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the outermost error code if one exists
func GetCode(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Code != "" {
			return e.Code
		}
		err = e.Err
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsDevice(err error) bool       { return GetCode(err) == CodeDevice }
func IsNetwork(err error) bool      { return GetCode(err) == CodeNetwork }
func IsValidation(err error) bool   { return GetCode(err) == CodeValidation }
func IsAuthInit(err error) bool     { return GetCode(err) == CodeAuthInit }
func IsAuthCallback(err error) bool { return GetCode(err) == CodeAuthCallback }

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
