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
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianResearch/services/backend"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// =============================================================================
// Synthesis Templates
// =============================================================================
//
// Each template interpolates the session topic and the formatted block of
// stored per-persona answers. The placeholders mirror the persona prompt
// convention.

const (
	topicPlaceholder   = "{topic}"
	answersPlaceholder = "{persona_answers}"
)

var synthesisTemplates = map[string]string{
	datatypes.SynthesisComprehensive: "The following are analyses of '{topic}' from different expert perspectives.\n\n" +
		"{persona_answers}\n\n" +
		"Synthesize all of the perspectives above into a unified analysis report covering:\n" +
		"1. **Core agreements**: points every perspective agrees on\n" +
		"2. **Key disputes**: where the perspectives diverge, with each side's reasoning\n" +
		"3. **Overall judgment**: a balanced conclusion weighing all the evidence\n" +
		"4. **Further research**: areas still too uncertain to settle\n" +
		"5. **Recommended actions**: concrete steps available right now",

	datatypes.SynthesisDecisionMatrix: "The following are analyses of '{topic}' from different expert perspectives.\n\n" +
		"{persona_answers}\n\n" +
		"Based on the analyses above, build a decision matrix:\n\n" +
		"| Criterion | Supporting evidence | Opposing evidence | Confidence (1-5) | Sources |\n" +
		"|-----------|--------------------|--------------------|------------------|---------|\n\n" +
		"After the matrix, add:\n" +
		"1. **Overall assessment**: the opportunity/risk balance\n" +
		"2. **Decisive factors**: the three factors that matter most to the decision\n" +
		"3. **Conditional recommendation**: advice in the form 'if X then A, if Y then B'",

	datatypes.SynthesisDebateSummary: "The following are analyses of '{topic}' from different expert perspectives.\n\n" +
		"{persona_answers}\n\n" +
		"Organize the perspectives above as a debate summary:\n\n" +
		"## Consensus\n" +
		"Points all or most experts agree on\n\n" +
		"## Key Debates\n" +
		"For each debate: statement of the issue, arguments for, arguments against, evidence assessment\n\n" +
		"## Open Questions\n" +
		"Questions the current information cannot settle\n\n" +
		"## Verdict\n" +
		"Your overall judgment as moderator, with reasoning",
}

// FormatPersonaAnswers renders the stored per-persona answers as labeled
// blocks, in session order. sess must be a detached copy (Store.Snapshot
// or Store.List); the answer map is iterated without the store lock.
func FormatPersonaAnswers(sess *session.Session) string {
	var b strings.Builder
	for _, key := range sess.Order {
		answer, ok := sess.LastResults[key]
		if !ok {
			continue
		}
		cfg := sess.Persona(key)
		fmt.Fprintf(&b, "\n### [%s] (%s)\n%s\n", personaName(cfg, key), cfg.Role, answer)
	}
	return b.String()
}

// BuildSynthesisPrompt builds the aggregation prompt for a session's
// stored answers. An unknown synthesisType falls back to comprehensive.
// Fails with ErrNoResults when no query strategy has stored answers yet.
// sess must be a detached copy, as for FormatPersonaAnswers.
func BuildSynthesisPrompt(sess *session.Session, synthesisType, customInstruction, language string) (string, error) {
	if len(sess.LastResults) == 0 {
		return "", fmt.Errorf("%w: session %s", datatypes.ErrNoResults, sess.ID)
	}

	template, ok := synthesisTemplates[synthesisType]
	if !ok {
		template = synthesisTemplates[datatypes.SynthesisComprehensive]
	}

	prompt := strings.NewReplacer(
		topicPlaceholder, sess.Topic,
		answersPlaceholder, FormatPersonaAnswers(sess),
	).Replace(template)

	if customInstruction != "" {
		prompt += "\n\nAdditional instructions: " + customInstruction
	}
	if language != "" && language != datatypes.DefaultLanguage {
		prompt += "\n\nIMPORTANT: Respond in " + personas.LanguageName(language) + "."
	}
	return prompt, nil
}

// =============================================================================
// Synthesis Service
// =============================================================================

// SynthesisService merges a session's stored per-persona answers into one
// aggregation ask against the backend.
type SynthesisService struct {
	store    *session.Store
	research backend.ResearchService
	metrics  *observability.PersonaMetrics
	logger   *slog.Logger
}

// NewSynthesisService creates a SynthesisService. metrics may be nil
// (tests); a nil logger falls back to slog.Default.
func NewSynthesisService(
	store *session.Store,
	research backend.ResearchService,
	metrics *observability.PersonaMetrics,
	logger *slog.Logger,
) *SynthesisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SynthesisService{store: store, research: research, metrics: metrics, logger: logger}
}

// Synthesize builds the synthesis prompt for the session's stored
// answers, runs it against the session's first notebook, and returns the
// formatted report.
//
// The combined answer block is first ingested into that notebook as a
// text source, best effort, so the synthesis ask can ground itself in
// the personas' own outputs. The synthesis ask itself is the only fatal
// backend call.
func (s *SynthesisService) Synthesize(ctx context.Context, req *datatypes.SynthesizeRequest) (string, error) {
	synthesisType := req.SynthesisType
	if synthesisType == "" {
		synthesisType = datatypes.SynthesisComprehensive
	}

	// Snapshot detaches the read from concurrent query strategies writing
	// results and history into the same session.
	sess, err := s.store.Snapshot(req.SessionID)
	if err != nil {
		return "", err
	}

	ctx, span := personaTracer.Start(ctx, "persona.synthesize")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sess.ID),
		attribute.String("synthesis.type", synthesisType),
	)

	prompt, err := BuildSynthesisPrompt(sess, synthesisType, req.CustomInstruction, req.Language)
	if err != nil {
		return "", err
	}

	firstNotebook := sess.FirstNotebook()
	if _, err := s.research.AddTextSource(ctx, firstNotebook,
		"Multi-Persona Analysis: "+sess.Topic, FormatPersonaAnswers(sess)); err != nil {
		s.logger.Warn("failed to add synthesis context as source",
			"session_id", sess.ID, "error", err)
	}

	res, err := s.research.Ask(ctx, firstNotebook, prompt, "")
	if err != nil {
		s.metrics.RecordSynthesis(synthesisType, false)
		return "", fmt.Errorf("synthesis ask failed: %w", err)
	}
	s.metrics.RecordSynthesis(synthesisType, true)
	s.store.Touch(sess.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "=== Synthesis Report (%s) ===\n", synthesisType)
	fmt.Fprintf(&b, "Topic: %s\n", sess.Topic)
	keys := make([]string, 0, len(sess.Order))
	for _, key := range sess.Order {
		if _, ok := sess.LastResults[key]; ok {
			keys = append(keys, key)
		}
	}
	fmt.Fprintf(&b, "Personas: %s\n", strings.Join(keys, ", "))
	fmt.Fprintf(&b, "Based on: %d query round(s)\n\n", len(sess.QueryHistory))
	b.WriteString(res.Answer)
	return b.String(), nil
}
