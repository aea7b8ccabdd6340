package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrTweetNotFound signals a missing tweet.
	ErrTweetNotFound = errors.New("Tweet not found") //nolint:staticcheck,revive // message is part of the API
	// ErrInvalidID signals a malformed document identifier.
	ErrInvalidID = errors.New("ID must be a 12-byte input or a 24-character hex string")
	// ErrInvalidParameter signals a malformed query parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParameterError wraps ErrInvalidParameter with the offending parameter name.
type ParameterError struct {
	Name   string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// NewParameterError creates a parameter error.
func NewParameterError(name, reason string) error {
	return &ParameterError{Name: name, Reason: reason}
}
