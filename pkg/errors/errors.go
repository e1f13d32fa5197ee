package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConstraint represents store-level uniqueness/shape violations
	ErrorTypeConstraint ErrorType = "constraint"
	// ErrorTypeQuerySyntax represents malformed generated Cypher
	ErrorTypeQuerySyntax ErrorType = "query_syntax"
	// ErrorTypeConnectivity represents an unreachable or unauthenticated store
	ErrorTypeConnectivity ErrorType = "connectivity"
	// ErrorTypeMapping represents records that cannot be coerced to a model
	ErrorTypeMapping ErrorType = "mapping"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// errorType lets IsErrorType see the category through the types that
// embed BaseError
func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Store errors

// ErrConstraintViolation is returned when a write violates a store constraint
type ErrConstraintViolation struct {
	*BaseError
	Label string
}

func NewConstraintViolation(label string, err error) *ErrConstraintViolation {
	return &ErrConstraintViolation{
		BaseError: NewBaseError(ErrorTypeConstraint, fmt.Sprintf("constraint violated for label %s", label), err),
		Label:     label,
	}
}

// ErrQueryFailed is returned when a generated query fails to execute
type ErrQueryFailed struct {
	*BaseError
	Query string
}

func NewQueryFailed(query string, err error) *ErrQueryFailed {
	return &ErrQueryFailed{
		BaseError: NewBaseError(ErrorTypeQuerySyntax, "query failed", err),
		Query:     query,
	}
}

// ErrConnectionFailed is returned when the Neo4j connection fails
type ErrConnectionFailed struct {
	*BaseError
	URI string
}

func NewConnectionFailed(uri string, err error) *ErrConnectionFailed {
	return &ErrConnectionFailed{
		BaseError: NewBaseError(ErrorTypeConnectivity, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// Mapping errors

// ErrRecordMapping is returned when a raw record cannot be coerced to a model
type ErrRecordMapping struct {
	*BaseError
	Label string
}

func NewRecordMapping(label string, err error) *ErrRecordMapping {
	return &ErrRecordMapping{
		BaseError: NewBaseError(ErrorTypeMapping, fmt.Sprintf("failed to map record for label %s", label), err),
		Label:     label,
	}
}

// Config errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if typed, ok := err.(interface{ errorType() ErrorType }); ok {
			return typed.errorType() == errType
		}
		wrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = wrapped.Unwrap()
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Connectivity failures are retried on next use after a reconnect
	return IsErrorType(err, ErrorTypeConnectivity)
}
