// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import "sync"

// ConversationRegistry tracks the backend conversation handle per
// notebook, shared across all query strategies. When a query runs with
// continue_conversation, each persona's ask is extended with the handle
// recorded here so the backend treats it as a follow-up; successful asks
// store any new handle the backend returns.
//
// # Thread Safety
//
// Safe for concurrent use; a mutex guards the map. Strategies doing
// read-modify-write against the registry go through Get/Set only.
type ConversationRegistry struct {
	mu     sync.Mutex
	active map[string]string // notebook id → conversation id
}

// NewConversationRegistry creates an empty registry.
func NewConversationRegistry() *ConversationRegistry {
	return &ConversationRegistry{active: make(map[string]string)}
}

// Get returns the conversation handle for a notebook, empty when none is
// recorded.
func (r *ConversationRegistry) Get(notebookID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[notebookID]
}

// Set records a notebook's conversation handle. Empty handles are
// ignored so a backend that returns no handle never clears a live one.
func (r *ConversationRegistry) Set(notebookID, conversationID string) {
	if conversationID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[notebookID] = conversationID
}

// Forget drops the handles for the given notebooks. The TTL reaper calls
// this when it deletes a session.
func (r *ConversationRegistry) Forget(notebookIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range notebookIDs {
		delete(r.active, id)
	}
}

// Len returns the number of tracked conversations.
func (r *ConversationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
