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

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
)

// =============================================================================
// Session Store
// =============================================================================

// Store is the process-wide registry of active sessions. It is the only
// component permitted to create, look up, enumerate, or delete sessions.
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single RWMutex guards the
// whole registry; per-session locking is deliberately not used — the
// spec-level requirement is only that concurrent result writes within one
// query are never lost, and the coarse lock satisfies it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewStoreWithClock creates a store with an injected clock for tests.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	s.now = now
	return s
}

// Create registers a new session for topic with the given persona →
// notebook bindings and configs, in order. It validates the session
// invariant that every notebook key has a config entry, generates a
// collision-checked id, and returns the stored session.
func (st *Store) Create(topic, language string, order []string,
	notebooks map[string]string, configs map[string]personas.Config) (*Session, error) {

	if len(notebooks) == 0 {
		return nil, datatypes.NewValidationError("notebooks", "at least one persona notebook is required")
	}
	for key := range notebooks {
		if _, ok := configs[key]; !ok {
			return nil, datatypes.NewValidationError("personas",
				"notebook %q has no persona configuration", key)
		}
	}

	nbCopy := make(map[string]string, len(notebooks))
	for k, v := range notebooks {
		nbCopy[k] = v
	}
	cfgCopy := make(map[string]personas.Config, len(configs))
	for k, v := range configs {
		cfgCopy[k] = v
	}
	orderCopy := make([]string, len(order))
	copy(orderCopy, order)

	now := st.now()
	sess := &Session{
		Topic:        topic,
		Language:     language,
		CreatedAt:    now,
		LastActivity: now,
		Order:        orderCopy,
		Notebooks:    nbCopy,
		Personas:     cfgCopy,
		LastResults:  make(map[string]string),
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Short random ids are not formally unique; re-generate under the
	// lock until the id is unused.
	for {
		id := generateID()
		if _, taken := st.sessions[id]; !taken {
			sess.ID = id
			break
		}
	}
	st.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the live session for id or ErrSessionNotFound. The
// returned pointer's mutable fields (LastResults, QueryHistory,
// LastActivity) are only written under the store lock; callers that read
// them outside a store method must use Snapshot instead. Immutable
// fields (ID, Topic, Order, Notebooks, Personas) are safe to read
// directly.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", datatypes.ErrSessionNotFound, id)
	}
	return sess, nil
}

// Snapshot returns a deep copy of the session for id, or
// ErrSessionNotFound. The copy is detached from the store: rendering and
// synthesis read it without racing concurrent result or history writes.
func (st *Store) Snapshot(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", datatypes.ErrSessionNotFound, id)
	}
	return copySession(sess), nil
}

// List returns a deep copy of every session sorted by creation time,
// oldest first. Copies keep callers from iterating live maps while a
// query strategy writes results.
func (st *Store) List() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		out = append(out, copySession(sess))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// copySession deep-copies a session. Callers hold at least the read
// lock.
func copySession(sess *Session) *Session {
	cp := *sess
	cp.Order = append([]string(nil), sess.Order...)
	cp.QueryHistory = append([]QueryRecord(nil), sess.QueryHistory...)
	cp.Notebooks = make(map[string]string, len(sess.Notebooks))
	for k, v := range sess.Notebooks {
		cp.Notebooks[k] = v
	}
	cp.Personas = make(map[string]personas.Config, len(sess.Personas))
	for k, v := range sess.Personas {
		cp.Personas[k] = v
	}
	cp.LastResults = make(map[string]string, len(sess.LastResults))
	for k, v := range sess.LastResults {
		cp.LastResults[k] = v
	}
	return &cp
}

// Len returns the number of active sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Delete removes a session. It reports whether the id existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// IDs returns every session id, unsorted.
func (st *Store) IDs() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		out = append(out, id)
	}
	return out
}

// =============================================================================
// Result / History Mutation
// =============================================================================
//
// Strategies run many goroutines against one session; every
// read-modify-write below holds the store lock so no concurrent answer
// update is lost.

// SetResult records one persona's latest answer.
func (st *Store) SetResult(id, personaKey, answer string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		sess.LastResults[personaKey] = answer
	}
}

// ReplaceResults overwrites the session's latest-answer map wholesale
// (independent and cascading strategies). Wholesale means exactly that:
// a query targeting a persona subset drops the untargeted personas'
// previous answers, so a later synthesis reflects only the latest
// dispatch. Strategies that must preserve untargeted answers use
// MergeResults.
func (st *Store) ReplaceResults(id string, results map[string]string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return
	}
	fresh := make(map[string]string, len(results))
	for k, v := range results {
		fresh[k] = v
	}
	sess.LastResults = fresh
}

// MergeResults merges answers key-by-key into the latest-answer map,
// leaving untargeted keys intact (red_blue strategy).
func (st *Store) MergeResults(id string, results map[string]string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return
	}
	for k, v := range results {
		sess.LastResults[k] = v
	}
}

// AppendHistory appends one query record and bumps the activity stamp.
func (st *Store) AppendHistory(id string, rec QueryRecord) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		sess.QueryHistory = append(sess.QueryHistory, rec)
		sess.LastActivity = st.now()
	}
}

// Touch bumps the session's activity stamp.
func (st *Store) Touch(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		sess.LastActivity = st.now()
	}
}

// ExpiredBefore returns the ids of sessions whose last activity is older
// than cutoff. Used by the TTL reaper.
func (st *Store) ExpiredBefore(cutoff time.Time) []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []string
	for id, sess := range st.sessions {
		if sess.LastActivity.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out
}

// generateID builds a short readable session id: "ps-" + 8 hex chars of
// a random UUID.
func generateID() string {
	raw := uuid.New()
	return fmt.Sprintf("ps-%x", raw[:4])
}
