package model

import (
	"errors"
	"fmt"
)

// Error classes. Every error surfaced by the repository and service layers
// matches exactly one of these through errors.Is, which is what the HTTP
// layer uses to pick a status code.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrEmptyResult      = errors.New("empty result")
	ErrCredentials      = errors.New("invalid credentials")
	ErrForbidden        = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError wraps a failure of a backing store (MongoDB, Postgres, Redis).
// It is never converted into an empty or absent result.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewStoreError wraps err as a StoreError for op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
