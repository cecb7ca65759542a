// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package personas provides the pre-defined persona catalog, keyword-based
// domain classification, and the hybrid recommendation engine that selects
// a diverse, stance-balanced persona set for a research topic.
package personas

import "strings"

// =============================================================================
// Core Types
// =============================================================================

// Stance describes how a persona argues toward a topic.
type Stance string

const (
	// StanceSupportive personas argue for the opportunity side.
	StanceSupportive Stance = "supportive"

	// StanceCritical personas hunt for counter-evidence and risk.
	StanceCritical Stance = "critical"

	// StanceNeutral personas weigh both sides.
	StanceNeutral Stance = "neutral"
)

// SourceBias describes which evidence a persona preferentially cites.
type SourceBias string

const (
	BiasBalanced        SourceBias = "balanced"
	BiasSupportive      SourceBias = "supportive"
	BiasCounterEvidence SourceBias = "counter_evidence"
	BiasPractical       SourceBias = "practical"
	BiasRegulatory      SourceBias = "regulatory"
)

// WildcardDomain marks a persona as applicable to any domain.
const WildcardDomain = "*"

// topicPlaceholder is the substitution marker inside prompt templates.
const topicPlaceholder = "{topic}"

// Template is an immutable pre-defined persona. Templates are created
// once at process start and never mutated; all components read them
// through the catalog.
type Template struct {
	// Key uniquely identifies the persona (e.g. "skeptic").
	Key string

	// Name is the display name (e.g. "Devil's Advocate").
	Name string

	// Role is a one-line role title.
	Role string

	// Description summarizes what the persona contributes.
	Description string

	// PromptTemplate is the system prompt with a {topic} placeholder.
	PromptTemplate string

	// Bias tags the persona's preferred evidence.
	Bias SourceBias

	// Stance tags which side the persona argues.
	Stance Stance

	// Domains lists applicable domain tags; WildcardDomain means any.
	Domains []string
}

// IsWildcard reports whether the template applies to any domain.
func (t Template) IsWildcard() bool {
	for _, d := range t.Domains {
		if d == WildcardDomain {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the template covers the given domain tag.
func (t Template) AppliesTo(domain string) bool {
	if t.IsWildcard() {
		return true
	}
	for _, d := range t.Domains {
		if d == domain {
			return true
		}
	}
	return false
}

// Config is a persona resolved for a concrete topic: the template
// metadata plus the topic-substituted system prompt. This is what the
// recommendation engine returns and what sessions store per persona.
type Config struct {
	Key          string     `json:"key"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Description  string     `json:"description"`
	SystemPrompt string     `json:"system_prompt"`
	Bias         SourceBias `json:"source_bias"`
	Stance       Stance     `json:"stance"`
}

// ResolvePrompt substitutes the topic into a template's prompt and, for
// any language other than the default, appends an explicit
// response-language directive.
func ResolvePrompt(t Template, topic, language string) string {
	prompt := strings.ReplaceAll(t.PromptTemplate, topicPlaceholder, topic)
	if language != "" && language != "en" {
		prompt += "\n\nIMPORTANT: Respond in " + LanguageName(language) + "."
	}
	return prompt
}

// Resolve builds the topic-customized Config for a template.
func Resolve(t Template, topic, language string) Config {
	return Config{
		Key:          t.Key,
		Name:         t.Name,
		Role:         t.Role,
		Description:  t.Description,
		SystemPrompt: ResolvePrompt(t, topic, language),
		Bias:         t.Bias,
		Stance:       t.Stance,
	}
}

// LanguageName converts a language code to its English name, falling back
// to the code itself for unknown values.
func LanguageName(code string) string {
	names := map[string]string{
		"ko": "Korean",
		"en": "English",
		"ja": "Japanese",
		"zh": "Chinese",
		"es": "Spanish",
		"fr": "French",
		"de": "German",
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
