// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package backend

import "context"

// =============================================================================
// Interfaces
// =============================================================================

// ResearchService defines the contract for the external research backend
// that hosts notebooks, ingests sources, and answers grounded questions.
//
// # Description
//
// The orchestrator never talks HTTP directly; every strategy, the setup
// flow, and synthesis depend only on this interface. The HTTP adapter in
// this package is the production implementation; tests substitute an
// in-memory mock.
//
// Calls that hit the backend per persona are fanned out concurrently by
// the query strategies, so every method takes a context for cancellation
// and tracing.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type ResearchService interface {
	// CreateNotebook creates a fresh research context titled title and
	// returns its backend id.
	CreateNotebook(ctx context.Context, title string) (*Notebook, error)

	// ListNotebooks enumerates existing research contexts.
	ListNotebooks(ctx context.Context) ([]Notebook, error)

	// AddURLSource ingests a URL into a notebook.
	AddURLSource(ctx context.Context, notebookID, url string) (*Source, error)

	// AddTextSource ingests a raw text blob into a notebook under the
	// given title. Used to persist synthesis reports back into the
	// session's research context.
	AddTextSource(ctx context.Context, notebookID, title, text string) (*Source, error)

	// ConfigurePersona installs a system prompt on a notebook so later
	// asks answer in that persona's voice. The returned Capability
	// distinguishes an unsupported backend from a failed call; callers
	// fall back to ingesting the prompt as a text source when the backend
	// does not support persona configuration.
	ConfigurePersona(ctx context.Context, notebookID, systemPrompt string) (Capability, error)

	// Ask poses a grounded question against a notebook. A non-empty
	// conversationID threads the question into an existing backend
	// conversation as a follow-up.
	Ask(ctx context.Context, notebookID, question, conversationID string) (*AskResult, error)

	// StartResearch kicks off a deep-research job (web or drive mode)
	// seeded with the topic. The Capability result marks backends that do
	// not offer research jobs.
	StartResearch(ctx context.Context, notebookID, topic, mode string) (*ResearchJob, Capability, error)

	// GenerateArtifact requests a generated output (report, audio, quiz)
	// from a notebook's sources.
	GenerateArtifact(ctx context.Context, notebookID, kind, instructions string) (*Artifact, error)

	// PollArtifact fetches the current status of a generation task.
	PollArtifact(ctx context.Context, notebookID, taskID string) (*Artifact, error)
}
