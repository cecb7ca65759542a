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
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// The caller of every operation is an AI-agent-facing textual interface,
// so responses are formatted human-readable text blocks, not structured
// objects.

// sectionRule separates persona answer blocks.
var sectionRule = strings.Repeat("=", 60)

// teamBadge maps a stance to the debate-team badge used in answer
// headers. Neutral personas carry no badge.
func teamBadge(s personas.Stance) string {
	switch s {
	case personas.StanceCritical:
		return " [RED]"
	case personas.StanceSupportive:
		return " [BLUE]"
	default:
		return ""
	}
}

// recommendBadge is the badge used in recommendation listings, where
// neutral is shown explicitly.
func recommendBadge(s personas.Stance) string {
	switch s {
	case personas.StanceCritical:
		return "[RED]"
	case personas.StanceSupportive:
		return "[BLUE]"
	default:
		return "[NEUTRAL]"
	}
}

// personaName returns the display name, falling back to the key for a
// zero config.
func personaName(cfg personas.Config, key string) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return key
}

// truncateRunes bounds s to at most n runes. Truncation is rune-based so
// multibyte answers are never cut mid-character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// promptPreviewRunes bounds the system prompt preview in recommendation
// listings.
const promptPreviewRunes = 150

// =============================================================================
// Rendering
// =============================================================================

// RenderRecommendations formats the recommendation result: detected
// domains, one block per persona, and the follow-up guidance.
func RenderRecommendations(topic string, domains []string, recs []personas.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Persona Recommendations for: %s ===\n\n", topic)
	if len(domains) > 5 {
		domains = domains[:5]
	}
	fmt.Fprintf(&b, "Detected domains: %s\n\n", strings.Join(domains, ", "))
	fmt.Fprintf(&b, "Recommended %d persona(s):\n\n", len(recs))

	for i, rec := range recs {
		fmt.Fprintf(&b, "--- Persona %d: %s %s ---\n", i+1, rec.Name, recommendBadge(rec.Stance))
		fmt.Fprintf(&b, "  Key: %s\n", rec.Key)
		fmt.Fprintf(&b, "  Role: %s\n", rec.Role)
		fmt.Fprintf(&b, "  Description: %s\n", rec.Description)
		fmt.Fprintf(&b, "  Source bias: %s\n", rec.Bias)
		fmt.Fprintf(&b, "  System prompt preview: %s...\n\n", truncateRunes(rec.SystemPrompt, promptPreviewRunes))
	}

	b.WriteString("=== Next Step ===\n")
	b.WriteString("Pass these personas to the setup operation to create the research environment.\n")
	b.WriteString("You can modify the list or swap personas before setup.\n")
	fmt.Fprintf(&b, "\nAvailable persona keys: %s", strings.Join(personas.Keys(), ", "))
	return b.String()
}

// RenderSessionList formats the active-session overview. Store.List
// hands out detached copies, so the history and result fields read here
// never race concurrent query writes.
func RenderSessionList(sessions []*session.Session) string {
	if len(sessions) == 0 {
		return "No active sessions. Run setup to create one."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Multi-Persona Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		names := make([]string, 0, len(sess.Order))
		for _, key := range sess.Order {
			names = append(names, personaName(sess.Persona(key), key))
		}
		fmt.Fprintf(&b, "  [%s] %s\n", sess.ID, sess.Topic)
		fmt.Fprintf(&b, "    Personas: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(&b, "    Queries: %d\n", len(sess.QueryHistory))
		fmt.Fprintf(&b, "    Created: %s\n\n", sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSession formats the full detail view of one session. sess must
// be a detached copy (Store.Snapshot); the view iterates the result map.
func RenderSession(sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Session: %s ===\n", sess.ID)
	fmt.Fprintf(&b, "Topic: %s\n", sess.Topic)
	fmt.Fprintf(&b, "Language: %s\n", sess.Language)
	fmt.Fprintf(&b, "Created: %s\n\n", sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))

	b.WriteString("--- Personas & Notebooks ---\n")
	for _, key := range sess.Order {
		cfg := sess.Persona(key)
		fmt.Fprintf(&b, "  [%s] %s\n", key, personaName(cfg, key))
		fmt.Fprintf(&b, "    Notebook ID: %s\n", sess.Notebooks[key])
		fmt.Fprintf(&b, "    Stance: %s\n", strings.ToUpper(string(cfg.Stance)))
		fmt.Fprintf(&b, "    Source bias: %s\n\n", cfg.Bias)
	}

	if len(sess.QueryHistory) > 0 {
		b.WriteString("--- Query History ---\n")
		for i, q := range sess.QueryHistory {
			fmt.Fprintf(&b, "  %d. [%s] %s... (%d personas, %s)\n",
				i+1, q.Strategy, truncateRunes(q.Question, 80),
				q.PersonaCount, q.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
		}
	} else {
		b.WriteString("--- No queries yet ---\n")
	}

	if len(sess.LastResults) > 0 {
		b.WriteString("\n--- Last Results Preview ---\n")
		for _, key := range sess.Order {
			answer, ok := sess.LastResults[key]
			if !ok {
				continue
			}
			preview := strings.ReplaceAll(truncateRunes(answer, 200), "\n", " ")
			fmt.Fprintf(&b, "  [%s]: %s...\n", key, preview)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCatalog formats the pre-defined persona pool, optionally filtered
// by domain.
func RenderCatalog(domain string) string {
	var pool []personas.Template
	if domain == "" {
		pool = personas.All()
	} else {
		pool = personas.ForDomain(domain)
	}
	if len(pool) == 0 {
		return fmt.Sprintf("No personas found for domain '%s'.", domain)
	}

	title := "Available Personas (all)"
	if domain != "" {
		title = fmt.Sprintf("Available Personas (domain: %s)", domain)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n\n", title)
	for _, p := range pool {
		badge := teamBadge(p.Stance)
		fmt.Fprintf(&b, "  %s — %s%s\n", p.Key, p.Name, badge)
		fmt.Fprintf(&b, "    %s\n", p.Description)
		fmt.Fprintf(&b, "    Domains: %s\n\n", strings.Join(p.Domains, ", "))
	}
	fmt.Fprintf(&b, "Total: %d persona(s)\n", len(pool))
	fmt.Fprintf(&b, "\nAvailable domain filters: %s", strings.Join(personas.Domains(), ", "))
	return b.String()
}
