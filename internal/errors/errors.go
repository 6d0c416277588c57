// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeRuleMismatch indicates a specification reached a rule with no matching branch
	TypeRuleMismatch Type = "RULE_MISMATCH"

	// TypeCatalogMiss indicates a reference key has no catalog entry
	TypeCatalogMiss Type = "CATALOG_MISS"

	// TypeCatalogUnavailable indicates the catalog could not be loaded at all
	TypeCatalogUnavailable Type = "CATALOG_UNAVAILABLE"

	// TypeUnitFailure indicates a resolution unit failed unexpectedly
	TypeUnitFailure Type = "UNIT_FAILURE"

	// TypePriceInvalid indicates a catalog price could not be parsed
	TypePriceInvalid Type = "PRICE_INVALID"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
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

// OfType reports whether e has type t. Use IsType for wrapped errors.
func (e *Error) OfType(t Type) bool {
	return e.Type == t
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

// IsType checks if err, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.OfType(t)
	}
	return false
}

// TypeOf returns the type of the first *Error in err's chain, or
// TypeInternal
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// CatalogUnavailable creates a catalog load error
func CatalogUnavailable(store string, cause error) *Error {
	return Wrap(TypeCatalogUnavailable, "catalog "+store+" could not be loaded", cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
