// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the request, response, and error types shared
// by the orchestrator's handlers and services.
package datatypes

// Strategy names accepted by the query operation.
const (
	StrategyIndependent = "independent"
	StrategyCascading   = "cascading"
	StrategyRedBlue     = "red_blue"
)

// Synthesis report types accepted by the synthesize operation.
const (
	SynthesisComprehensive  = "comprehensive"
	SynthesisDecisionMatrix = "decision_matrix"
	SynthesisDebateSummary  = "debate_summary"
)

// DefaultLanguage is the language persona prompts are written in. Any
// other language code appends an explicit response-language directive.
const DefaultLanguage = "en"

// RecommendRequest asks for persona recommendations for a topic.
type RecommendRequest struct {
	Topic string `json:"topic" binding:"required"`

	// MaxPersonas is clamped to [1,4]; zero means the default of 4.
	MaxPersonas int    `json:"max_personas"`
	Language    string `json:"language"`
}

// SetupRequest creates the research environment for a set of personas:
// one backend notebook per persona, shared sources, per-notebook persona
// prompts, and an optional initial web research run.
type SetupRequest struct {
	Topic       string   `json:"topic" binding:"required"`
	PersonaKeys []string `json:"persona_keys" binding:"required,min=1"`
	URLs        []string `json:"urls"`

	// SharedSources adds every URL to every notebook when true (the
	// default); otherwise sources land only in the first notebook.
	SharedSources *bool  `json:"shared_sources"`
	WebResearch   *bool  `json:"web_research"`
	ResearchMode  string `json:"research_mode"`
	Language      string `json:"language"`
}

// QueryRequest dispatches a question to a session's personas.
type QueryRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`

	// Strategy is one of independent, cascading, red_blue. Empty selects
	// independent.
	Strategy string `json:"strategy" binding:"omitempty,strategy"`

	// PersonaKeys optionally restricts the query to a subset of the
	// session's personas. Keys not bound to the session are ignored.
	// Under the independent and cascading strategies a subset query
	// replaces the session's stored answers wholesale, discarding the
	// untargeted personas' previous answers; only red_blue merges.
	PersonaKeys []string `json:"persona_keys"`

	// ContinueConversation threads each persona's previous backend
	// conversation handle into the ask, so the backend treats the
	// question as a follow-up.
	ContinueConversation bool `json:"continue_conversation"`
}

// SynthesizeRequest merges a session's stored per-persona answers into a
// single aggregation query against the backend.
type SynthesizeRequest struct {
	SessionID         string `json:"session_id" binding:"required"`
	SynthesisType     string `json:"synthesis_type" binding:"omitempty,synthesis_type"`
	CustomInstruction string `json:"custom_instruction"`
	Language          string `json:"language"`
}
