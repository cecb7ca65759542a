// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Taxonomy
// =============================================================================
//
// Two failure classes exist in this service:
//
//   - Validation failures: bad input detected before any backend call.
//     Reported immediately; the operation never starts.
//   - Backend failures: a remote ask/create/configure call failed. Caught
//     per persona and downgraded to a failed PersonaAnswer; a partial
//     result set is the normal outcome shape, not an exceptional path.
//
// No error in this taxonomy is fatal to the process.

// ErrSessionNotFound indicates an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoValidPersonas indicates the requested persona subset filtered out
// every persona bound to the session.
var ErrNoValidPersonas = errors.New("no valid personas for query")

// ErrNoResults indicates a synthesis was requested before any query
// strategy stored per-persona answers.
var ErrNoResults = errors.New("no query results to synthesize")

// ValidationError reports invalid caller input (unknown persona key,
// empty persona list, bad strategy name). It aborts the operation before
// any backend call is made.
type ValidationError struct {
	// Field names the offending input.
	Field string

	// Reason is a human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError or one
// of the validation sentinels. Handlers use this to pick a 4xx status.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrNoValidPersonas) ||
		errors.Is(err, ErrNoResults)
}
