// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/AleutianAI/AleutianResearch/services/backend"
)

// =============================================================================
// Mock Research Backend
// =============================================================================

// askCall records one Ask invocation for verification.
type askCall struct {
	NotebookID     string
	Prompt         string
	ConversationID string
}

// MockResearch implements backend.ResearchService for testing. Function
// fields override individual operations; unset fields use permissive
// defaults. Call tracking is mutex-guarded because strategies invoke the
// mock concurrently.
type MockResearch struct {
	mu sync.Mutex

	// AskFunc overrides Ask. The default echoes the notebook id.
	AskFunc func(notebookID, question, conversationID string) (*backend.AskResult, error)

	// CreateNotebookFunc overrides CreateNotebook.
	CreateNotebookFunc func(title string) (*backend.Notebook, error)

	// ConfigureCapability is returned by ConfigurePersona.
	ConfigureCapability backend.Capability
	// ConfigureErr is returned alongside CapabilityFailed.
	ConfigureErr error

	// ResearchCapability is returned by StartResearch.
	ResearchCapability backend.Capability

	// AddURLErr fails every AddURLSource when set.
	AddURLErr error
	// AddTextErr fails every AddTextSource when set.
	AddTextErr error

	// Asks records every Ask call in arrival order.
	Asks []askCall
	// CreatedTitles records every CreateNotebook title.
	CreatedTitles []string
	// TextSources records every AddTextSource title.
	TextSources []string
	// ConfiguredPrompts records every ConfigurePersona prompt.
	ConfiguredPrompts []string
	// ResearchStarts counts StartResearch calls.
	ResearchStarts int
}

var _ backend.ResearchService = (*MockResearch)(nil)

func (m *MockResearch) CreateNotebook(ctx context.Context, title string) (*backend.Notebook, error) {
	m.mu.Lock()
	m.CreatedTitles = append(m.CreatedTitles, title)
	n := len(m.CreatedTitles)
	m.mu.Unlock()
	if m.CreateNotebookFunc != nil {
		return m.CreateNotebookFunc(title)
	}
	return &backend.Notebook{ID: fmt.Sprintf("nb-%d", n), Title: title}, nil
}

func (m *MockResearch) ListNotebooks(ctx context.Context) ([]backend.Notebook, error) {
	return nil, nil
}

func (m *MockResearch) AddURLSource(ctx context.Context, notebookID, url string) (*backend.Source, error) {
	if m.AddURLErr != nil {
		return nil, m.AddURLErr
	}
	return &backend.Source{ID: "src-url", Title: url, Status: "ready"}, nil
}

func (m *MockResearch) AddTextSource(ctx context.Context, notebookID, title, text string) (*backend.Source, error) {
	if m.AddTextErr != nil {
		return nil, m.AddTextErr
	}
	m.mu.Lock()
	m.TextSources = append(m.TextSources, title)
	m.mu.Unlock()
	return &backend.Source{ID: "src-text", Title: title, Status: "ready"}, nil
}

func (m *MockResearch) ConfigurePersona(ctx context.Context, notebookID, systemPrompt string) (backend.Capability, error) {
	m.mu.Lock()
	m.ConfiguredPrompts = append(m.ConfiguredPrompts, systemPrompt)
	m.mu.Unlock()
	return m.ConfigureCapability, m.ConfigureErr
}

func (m *MockResearch) Ask(ctx context.Context, notebookID, question, conversationID string) (*backend.AskResult, error) {
	m.mu.Lock()
	m.Asks = append(m.Asks, askCall{
		NotebookID:     notebookID,
		Prompt:         question,
		ConversationID: conversationID,
	})
	m.mu.Unlock()
	if m.AskFunc != nil {
		return m.AskFunc(notebookID, question, conversationID)
	}
	return &backend.AskResult{Answer: "answer from " + notebookID}, nil
}

func (m *MockResearch) StartResearch(ctx context.Context, notebookID, topic, mode string) (*backend.ResearchJob, backend.Capability, error) {
	m.mu.Lock()
	m.ResearchStarts++
	m.mu.Unlock()
	if m.ResearchCapability != backend.CapabilitySupported {
		return nil, m.ResearchCapability, nil
	}
	return &backend.ResearchJob{ID: "job-1", Status: "running"}, backend.CapabilitySupported, nil
}

func (m *MockResearch) GenerateArtifact(ctx context.Context, notebookID, kind, instructions string) (*backend.Artifact, error) {
	return &backend.Artifact{TaskID: "task-1", Kind: kind, Status: "pending"}, nil
}

func (m *MockResearch) PollArtifact(ctx context.Context, notebookID, taskID string) (*backend.Artifact, error) {
	return &backend.Artifact{TaskID: taskID, Status: "done"}, nil
}

// recordedAsks returns a snapshot of the Ask log.
func (m *MockResearch) recordedAsks() []askCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]askCall, len(m.Asks))
	copy(out, m.Asks)
	return out
}
