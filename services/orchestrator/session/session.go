// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session holds the process-wide registry of active multi-persona
// research sessions and the backend conversation-handle registry.
//
// A session binds a topic to a fixed set of persona → notebook pairs and
// accumulates query/answer history. Sessions live in memory for the
// process lifetime (no persistence); the ttl package reaps idle sessions
// when a TTL is configured.
package session

import (
	"time"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
)

// QueryRecord is one entry in a session's append-only query log.
type QueryRecord struct {
	Question     string    `json:"question"`
	Strategy     string    `json:"strategy"`
	Timestamp    time.Time `json:"timestamp"`
	PersonaCount int       `json:"persona_count"`
}

// Target is one (persona key, notebook id) pair selected for a query.
type Target struct {
	Key      string
	Notebook string
}

// Session tracks one multi-persona research engagement.
//
// # Invariants
//
//   - Every key in Notebooks has a corresponding entry in Personas and
//     appears exactly once in Order (checked at Create).
//   - Notebooks is immutable after creation; personas are never added or
//     removed post hoc.
//   - LastResults is overwritten wholesale by the independent and
//     cascading strategies and merged key-by-key by red_blue.
//
// # Thread Safety
//
// Session fields are not self-guarded; all mutation goes through Store
// methods, which hold the store lock. Readers of the mutable fields
// (LastResults, QueryHistory, LastActivity) outside the store work on
// detached copies from Store.Snapshot or Store.List, never on the live
// pointer from Store.Get.
type Session struct {
	// ID is the store-generated session identifier ("ps-" + 8 hex).
	ID string `json:"session_id"`

	Topic    string `json:"topic"`
	Language string `json:"language"`

	CreatedAt time.Time `json:"created_at"`

	// LastActivity is bumped on every query/synthesis and drives TTL
	// eviction.
	LastActivity time.Time `json:"last_activity"`

	// Order preserves the setup-time persona sequence. Go maps do not
	// keep insertion order, and the cascading strategy depends on it.
	Order []string `json:"order"`

	// Notebooks maps persona key to its backend notebook id, one per
	// persona, created by setup before the session is registered.
	Notebooks map[string]string `json:"notebooks"`

	// Personas maps persona key to its topic-customized configuration.
	Personas map[string]personas.Config `json:"personas"`

	// QueryHistory is the append-only log of past queries.
	QueryHistory []QueryRecord `json:"query_history"`

	// LastResults maps persona key to its most recent answer text.
	LastResults map[string]string `json:"last_results"`
}

// Persona returns the config for key, with a zero Config for unknown keys.
func (s *Session) Persona(key string) personas.Config {
	return s.Personas[key]
}

// Targets resolves the personas a query addresses, in session order. A
// nil or empty subset selects every persona; subset keys not bound to the
// session are dropped silently. When subset is non-empty the supplied
// subset order wins, matching the cascading strategy's contract.
func (s *Session) Targets(subset []string) []Target {
	if len(subset) == 0 {
		out := make([]Target, 0, len(s.Order))
		for _, key := range s.Order {
			if nb, ok := s.Notebooks[key]; ok {
				out = append(out, Target{Key: key, Notebook: nb})
			}
		}
		return out
	}
	var out []Target
	seen := make(map[string]bool, len(subset))
	for _, key := range subset {
		if seen[key] {
			continue
		}
		seen[key] = true
		if nb, ok := s.Notebooks[key]; ok {
			out = append(out, Target{Key: key, Notebook: nb})
		}
	}
	return out
}

// FirstNotebook returns the notebook id of the first persona in session
// order. Setup guarantees at least one notebook exists.
func (s *Session) FirstNotebook() string {
	for _, key := range s.Order {
		if nb, ok := s.Notebooks[key]; ok {
			return nb
		}
	}
	return ""
}
