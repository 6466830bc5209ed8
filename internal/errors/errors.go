// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates malformed or incomplete input
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeUnknownSupplier indicates a supplier name that maps to no known endpoint
	TypeUnknownSupplier Type = "UNKNOWN_SUPPLIER"

	// TypeLookup indicates a failed live tariff fetch
	TypeLookup Type = "LOOKUP_ERROR"

	// TypeCacheMiss indicates an absent cache entry
	TypeCacheMiss Type = "CACHE_MISS"

	// TypeStorage indicates a storage failure
	TypeStorage Type = "STORAGE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// AsError extracts a domain error from err, if it is one
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(TypeValidation, message)
}

// UnknownSupplier creates an unknown supplier error
func UnknownSupplier(name string) *Error {
	return Newf(TypeUnknownSupplier, "no known supplier matches %q", name)
}

// Lookup creates a lookup error
func Lookup(message string, cause error) *Error {
	return Wrap(TypeLookup, message, cause)
}

// CacheMiss creates a cache miss error
func CacheMiss(supplierKey, area string) *Error {
	return Newf(TypeCacheMiss, "no cached tariff for %s/%s", supplierKey, area)
}

// Storage creates a storage error
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
