// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package backend defines the client contract for the external research
// service (notebook contexts, source ingestion, grounded question
// answering, artifact generation) and an HTTP adapter implementing it.
//
// The remote service itself is an external collaborator: this package
// only fixes the request/response contract and resolves every optional
// response field once, at the adapter boundary, so callers never probe
// dynamically for fields that may be missing.
package backend

import (
	"errors"
	"fmt"
)

// =============================================================================
// Result Types
// =============================================================================

// Notebook is an opaque research context on the backend.
type Notebook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Source is one ingested document/URL/text blob in a notebook.
type Source struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Citation is one grounding reference attached to an answer.
type Citation struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// AskResult is the backend's answer to a grounded question.
//
// Citations and ConversationID are optional backend features. The adapter
// normalizes their absence to a nil slice / empty string; callers branch
// on those values instead of probing the wire format.
type AskResult struct {
	Answer string `json:"answer"`

	// Citations is nil when the backend returned no references.
	Citations []Citation `json:"citations,omitempty"`

	// ConversationID is empty when the backend does not support or did
	// not open a follow-up conversation.
	ConversationID string `json:"conversation_id,omitempty"`
}

// ResearchJob is a running web/drive deep-research task.
type ResearchJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Artifact is a generated downloadable output (report, audio, quiz).
type Artifact struct {
	TaskID string `json:"task_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

// =============================================================================
// Capability Probes
// =============================================================================

// Capability reports the outcome of an optional backend feature call.
// Distinguishing "the backend does not offer this" from "the call failed"
// keeps optional-feature errors from being silently swallowed.
type Capability int

const (
	// CapabilitySupported means the feature ran successfully.
	CapabilitySupported Capability = iota

	// CapabilityUnsupported means the backend does not offer the feature.
	CapabilityUnsupported

	// CapabilityFailed means the feature exists but the call failed.
	CapabilityFailed
)

// String returns "supported", "unsupported", or "failed".
func (c Capability) String() string {
	switch c {
	case CapabilitySupported:
		return "supported"
	case CapabilityUnsupported:
		return "unsupported"
	case CapabilityFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Errors
// =============================================================================

// BackendError wraps any failure of a remote research-service call.
// Strategies catch it per persona and downgrade it to a failed answer;
// it never aborts a whole strategy.
type BackendError struct {
	// Op names the failed operation (e.g. "ask", "create_notebook").
	Op string

	// StatusCode is the HTTP status when the failure was an HTTP error,
	// zero for transport failures.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error { return e.Err }

// IsBackend reports whether err is (or wraps) a BackendError.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
