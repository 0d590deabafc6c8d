package domain

import (
	"errors"
	"fmt"
)

// ErrAssistantDisabled is returned when no completion service is configured
var ErrAssistantDisabled = errors.New("assistant is not configured")

// ConnectionError means the analytical database or the completion service could not be reached
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means a statement reached the database and was rejected
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error during %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ParseError means user input or a stored payload could not be interpreted
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
