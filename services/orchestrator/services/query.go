// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package services contains the business logic of the persona
// orchestrator, separated from HTTP handlers.
//
// Services here orchestrate calls to the external research backend, apply
// validation, and own the three query dispatch strategies. They are
// designed to be:
//   - Testable: Dependencies are injected via constructors
//   - Composable: Services can call other services
//   - Traceable: All methods accept context for distributed tracing
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianResearch/services/backend"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// personaTracer is the OpenTelemetry tracer for persona orchestration.
var personaTracer = otel.Tracer("aleutian.research.services.persona")

// =============================================================================
// Per-Persona Results
// =============================================================================

// PersonaAnswer is the typed outcome of one persona's backend ask. A
// failed ask carries its error and a rendered marker; it is a normal
// result, never a strategy-level failure.
type PersonaAnswer struct {
	// Key is the persona key the answer belongs to.
	Key string

	// Answer is the backend's answer text, empty when the ask failed.
	Answer string

	// Err is the ask failure, nil on success.
	Err error

	// Marker is the inline error text substituted for a failed answer.
	Marker string
}

// Failed reports whether the ask failed.
func (a PersonaAnswer) Failed() bool { return a.Err != nil }

// Text returns the answer, or the error marker for a failed ask.
func (a PersonaAnswer) Text() string {
	if a.Err != nil {
		return a.Marker
	}
	return a.Answer
}

func countFailed(answers []PersonaAnswer) int {
	n := 0
	for _, a := range answers {
		if a.Failed() {
			n++
		}
	}
	return n
}

// =============================================================================
// Query Service
// =============================================================================

// QueryService dispatches research questions to a session's personas
// using one of three strategies and records results back into the
// session.
//
// # Thread Safety
//
// Safe for concurrent use; all session mutation goes through the store's
// locked methods and conversation handles through the registry.
type QueryService struct {
	store         *session.Store
	conversations *session.ConversationRegistry
	research      backend.ResearchService
	metrics       *observability.PersonaMetrics
	logger        *slog.Logger
}

// NewQueryService creates a QueryService. metrics may be nil (tests);
// a nil logger falls back to slog.Default.
func NewQueryService(
	store *session.Store,
	conversations *session.ConversationRegistry,
	research backend.ResearchService,
	metrics *observability.PersonaMetrics,
	logger *slog.Logger,
) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		store:         store,
		conversations: conversations,
		research:      research,
		metrics:       metrics,
		logger:        logger,
	}
}

// Query dispatches a question to a session's personas per the requested
// strategy and returns the formatted multi-perspective result text.
//
// # Description
//
// Validation failures (unknown session, empty persona subset, bad
// strategy) abort before any backend call. Per-persona backend failures
// do not: they are downgraded to inline error markers and the remaining
// personas' answers are returned, so a partial result is the normal
// outcome shape. Every dispatch, regardless of per-persona failures,
// appends one entry to the session's query history.
//
// # Inputs
//
//   - ctx: Context for cancellation and tracing.
//   - req: Validated query request; an empty Strategy selects independent.
//
// # Outputs
//
//   - string: Formatted answer blocks, one per targeted persona.
//   - error: ErrSessionNotFound, ErrNoValidPersonas, or a ValidationError.
func (s *QueryService) Query(ctx context.Context, req *datatypes.QueryRequest) (string, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = datatypes.StrategyIndependent
	}

	sess, err := s.store.Get(req.SessionID)
	if err != nil {
		return "", err
	}

	targets := sess.Targets(req.PersonaKeys)
	if len(targets) == 0 {
		return "", fmt.Errorf("%w: session %s", datatypes.ErrNoValidPersonas, sess.ID)
	}

	ctx, span := personaTracer.Start(ctx, "persona.query")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sess.ID),
		attribute.String("query.strategy", strategy),
		attribute.Int("query.personas", len(targets)),
	)

	var (
		answers []PersonaAnswer
		text    string
	)
	switch strategy {
	case datatypes.StrategyIndependent:
		answers, text = s.runIndependent(ctx, sess, targets, req.Question, req.ContinueConversation)
	case datatypes.StrategyCascading:
		answers, text = s.runCascading(ctx, sess, targets, req.Question, req.ContinueConversation)
	case datatypes.StrategyRedBlue:
		answers, text = s.runRedBlue(ctx, sess, targets, req.Question, req.ContinueConversation)
	default:
		return "", datatypes.NewValidationError("strategy",
			"unknown strategy %q (want independent, cascading, or red_blue)", strategy)
	}

	failed := countFailed(answers)
	s.metrics.RecordQuery(strategy, len(answers), failed)
	if failed > 0 {
		s.logger.Warn("query completed with persona failures",
			"session_id", sess.ID,
			"strategy", strategy,
			"failed", failed,
			"total", len(answers))
	}

	s.store.AppendHistory(sess.ID, session.QueryRecord{
		Question:     req.Question,
		Strategy:     strategy,
		Timestamp:    time.Now().UTC(),
		PersonaCount: len(targets),
	})

	return text, nil
}

// askPersona performs one backend ask with conversation threading and
// metrics, downgrading any failure to a failed PersonaAnswer.
func (s *QueryService) askPersona(ctx context.Context, strategy, key, notebookID, prompt string, continueConversation bool) PersonaAnswer {
	conversationID := ""
	if continueConversation {
		conversationID = s.conversations.Get(notebookID)
	}

	start := time.Now()
	res, err := s.research.Ask(ctx, notebookID, prompt, conversationID)
	s.metrics.RecordAsk(strategy, time.Since(start).Seconds(), err == nil)

	if err != nil {
		s.logger.Warn("persona ask failed",
			"persona", key,
			"notebook_id", notebookID,
			"strategy", strategy,
			"error", err)
		return PersonaAnswer{Key: key, Err: err, Marker: fmt.Sprintf("[Error: %v]", err)}
	}

	s.conversations.Set(notebookID, res.ConversationID)
	return PersonaAnswer{Key: key, Answer: res.Answer}
}
