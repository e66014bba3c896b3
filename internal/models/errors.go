// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package models

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a well-formed identifier matched no record.
// Routers translate it to HTTP 404; every other manager error that is not
// a *ValidationError maps to HTTP 500.
var ErrNotFound = errors.New("not found")

// ValidationError is a malformed or conflicting input: missing field, wrong
// type, duplicate unique key, out-of-range value. Routers translate it to
// HTTP 400. Validation failures never mutate storage.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
