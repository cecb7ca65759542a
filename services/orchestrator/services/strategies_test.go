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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianResearch/services/backend"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// personaSpec describes one test persona binding.
type personaSpec struct {
	key    string
	stance personas.Stance
	bias   personas.SourceBias
}

// newTestSession creates a session binding each spec'd persona to the
// notebook "nb-<key>".
func newTestSession(t *testing.T, store *session.Store, specs []personaSpec) *session.Session {
	t.Helper()
	order := make([]string, 0, len(specs))
	notebooks := make(map[string]string, len(specs))
	configs := make(map[string]personas.Config, len(specs))
	for _, s := range specs {
		order = append(order, s.key)
		notebooks[s.key] = "nb-" + s.key
		configs[s.key] = personas.Config{
			Key:    s.key,
			Name:   strings.ToUpper(s.key[:1]) + s.key[1:],
			Role:   s.key + " expert",
			Stance: s.stance,
			Bias:   s.bias,
		}
	}
	sess, err := store.Create("test topic", "en", order, notebooks, configs)
	require.NoError(t, err, "session creation should succeed")
	return sess
}

func newTestQueryService(store *session.Store, mock *MockResearch) *QueryService {
	return NewQueryService(store, session.NewConversationRegistry(), mock, nil, nil)
}

// =============================================================================
// Independent Strategy
// =============================================================================

func TestIndependentStrategy(t *testing.T) {
	t.Run("one failure yields N results with exactly one marker", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{
			AskFunc: func(notebookID, question, conversationID string) (*backend.AskResult, error) {
				if notebookID == "nb-beta" {
					return nil, &backend.BackendError{Op: "ask", StatusCode: 503, Err: errors.New("overloaded")}
				}
				return &backend.AskResult{Answer: "answer from " + notebookID}, nil
			},
		}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceSupportive, personas.BiasSupportive},
			{"beta", personas.StanceCritical, personas.BiasCounterEvidence},
			{"gamma", personas.StanceNeutral, personas.BiasBalanced},
		})

		text, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  "what is the market size?",
			Strategy:  datatypes.StrategyIndependent,
		})
		require.NoError(t, err, "partial failure should not fail the query")

		assert.Equal(t, 1, strings.Count(text, "[Error:"), "exactly one error marker expected")
		assert.Contains(t, text, "answer from nb-alpha")
		assert.Contains(t, text, "answer from nb-gamma")

		got, err := store.Get(sess.ID)
		require.NoError(t, err)
		assert.Len(t, got.LastResults, 3, "all three personas should have stored results")
		assert.Contains(t, got.LastResults["beta"], "[Error:", "failed persona stores its marker")
	})

	t.Run("every persona receives the unmodified question", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceSupportive, personas.BiasSupportive},
			{"beta", personas.StanceCritical, personas.BiasCounterEvidence},
		})

		question := "how big is the opportunity?"
		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  question,
		})
		require.NoError(t, err)

		asks := mock.recordedAsks()
		require.Len(t, asks, 2)
		for _, a := range asks {
			assert.Equal(t, question, a.Prompt, "independent asks must not reformulate the question")
		}
	})

	t.Run("appends history regardless of failures", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{
			AskFunc: func(notebookID, question, conversationID string) (*backend.AskResult, error) {
				return nil, errors.New("backend down")
			},
		}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceNeutral, personas.BiasBalanced},
		})

		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  "q",
		})
		require.NoError(t, err)

		got, _ := store.Get(sess.ID)
		require.Len(t, got.QueryHistory, 1)
		assert.Equal(t, "independent", got.QueryHistory[0].Strategy)
		assert.Equal(t, 1, got.QueryHistory[0].PersonaCount)
	})
}

// =============================================================================
// Cascading Strategy
// =============================================================================

func TestCascadingStrategy(t *testing.T) {
	t.Run("stage 1 verbatim, later stages embed the previous answer", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{
			AskFunc: func(notebookID, question, conversationID string) (*backend.AskResult, error) {
				return &backend.AskResult{Answer: "insight-" + notebookID}, nil
			},
		}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceSupportive, personas.BiasSupportive},
			{"beta", personas.StanceCritical, personas.BiasCounterEvidence},
			{"gamma", personas.StanceNeutral, personas.BiasBalanced},
		})

		question := "original question?"
		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  question,
			Strategy:  datatypes.StrategyCascading,
		})
		require.NoError(t, err)

		asks := mock.recordedAsks()
		require.Len(t, asks, 3, "strictly sequential dispatch, one ask per stage")
		assert.Equal(t, question, asks[0].Prompt, "stage 1 receives the question verbatim")

		assert.Contains(t, asks[1].Prompt, "insight-nb-alpha", "stage 2 embeds stage 1's answer")
		assert.Contains(t, asks[1].Prompt, "beta expert", "stage 2 is framed for its own role")
		assert.Contains(t, asks[1].Prompt, question, "stage 2 still carries the original question")
		assert.Contains(t, asks[2].Prompt, "insight-nb-beta", "stage 3 embeds stage 2's answer")
		assert.NotContains(t, asks[2].Prompt, "insight-nb-alpha", "stage 3 only sees the previous stage")
	})

	t.Run("previous answer excerpt is truncated", func(t *testing.T) {
		long := strings.Repeat("가", 3000)
		store := session.NewStore()
		mock := &MockResearch{
			AskFunc: func(notebookID, question, conversationID string) (*backend.AskResult, error) {
				return &backend.AskResult{Answer: long}, nil
			},
		}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceNeutral, personas.BiasBalanced},
			{"beta", personas.StanceNeutral, personas.BiasBalanced},
		})

		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  "q",
			Strategy:  datatypes.StrategyCascading,
		})
		require.NoError(t, err)

		asks := mock.recordedAsks()
		require.Len(t, asks, 2)
		assert.Contains(t, asks[1].Prompt, strings.Repeat("가", 2000))
		assert.NotContains(t, asks[1].Prompt, strings.Repeat("가", 2001),
			"excerpt must be capped at 2000 runes")
	})

	t.Run("failed stage feeds its marker into the next stage", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{
			AskFunc: func(notebookID, question, conversationID string) (*backend.AskResult, error) {
				if notebookID == "nb-alpha" {
					return nil, errors.New("boom")
				}
				return &backend.AskResult{Answer: "fine"}, nil
			},
		}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceNeutral, personas.BiasBalanced},
			{"beta", personas.StanceNeutral, personas.BiasBalanced},
		})

		text, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  "q",
			Strategy:  datatypes.StrategyCascading,
		})
		require.NoError(t, err, "a failed stage must not halt the cascade")

		asks := mock.recordedAsks()
		require.Len(t, asks, 2)
		assert.Contains(t, asks[1].Prompt, "[Error at stage 1", "stage 2 sees stage 1's marker")
		assert.Contains(t, text, "[Error at stage 1")
	})

	t.Run("replaces the latest-answer mapping wholesale", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceNeutral, personas.BiasBalanced},
			{"beta", personas.StanceNeutral, personas.BiasBalanced},
		})
		store.SetResult(sess.ID, "stale", "old answer")

		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID:   sess.ID,
			Question:    "q",
			Strategy:    datatypes.StrategyCascading,
			PersonaKeys: []string{"alpha"},
		})
		require.NoError(t, err)

		got, _ := store.Get(sess.ID)
		assert.Len(t, got.LastResults, 1, "cascading discards previous latest answers")
		assert.NotContains(t, got.LastResults, "stale")
	})
}

// =============================================================================
// Red/Blue Strategy
// =============================================================================

func TestRedBlueTeamAssignment(t *testing.T) {
	t.Run("regulatory-bias neutral joins the critical team", func(t *testing.T) {
		store := session.NewStore()
		sess := newTestSession(t, store, []personaSpec{
			{"c1", personas.StanceCritical, personas.BiasCounterEvidence},
			{"c2", personas.StanceCritical, personas.BiasCounterEvidence},
			{"s1", personas.StanceSupportive, personas.BiasSupportive},
			{"n1", personas.StanceNeutral, personas.BiasRegulatory},
		})

		red, blue := teamAssignment(sess, sess.Targets(nil))
		require.Len(t, red, 3, "two critical plus the regulatory neutral")
		require.Len(t, blue, 1)
		assert.Equal(t, "s1", blue[0].Key)
	})

	t.Run("empty blue team is repaired with the first red member", func(t *testing.T) {
		store := session.NewStore()
		sess := newTestSession(t, store, []personaSpec{
			{"c1", personas.StanceCritical, personas.BiasCounterEvidence},
			{"c2", personas.StanceCritical, personas.BiasCounterEvidence},
		})

		red, blue := teamAssignment(sess, sess.Targets(nil))
		require.Len(t, red, 1)
		require.Len(t, blue, 1)
		assert.Equal(t, "c1", blue[0].Key, "the first red member moves to blue")
		assert.Equal(t, "c2", red[0].Key)
	})

	t.Run("empty red team is repaired with the last blue member", func(t *testing.T) {
		store := session.NewStore()
		sess := newTestSession(t, store, []personaSpec{
			{"s1", personas.StanceSupportive, personas.BiasSupportive},
			{"s2", personas.StanceSupportive, personas.BiasSupportive},
		})

		red, blue := teamAssignment(sess, sess.Targets(nil))
		require.Len(t, red, 1)
		require.Len(t, blue, 1)
		assert.Equal(t, "s2", red[0].Key, "the last blue member moves to red")
		assert.Equal(t, "s1", blue[0].Key)
	})
}

func TestRedBlueStrategy(t *testing.T) {
	t.Run("teams get stance-specific prompts and results merge", func(t *testing.T) {
		store := session.NewStore()
		mock := &MockResearch{}
		svc := newTestQueryService(store, mock)
		sess := newTestSession(t, store, []personaSpec{
			{"c1", personas.StanceCritical, personas.BiasCounterEvidence},
			{"s1", personas.StanceSupportive, personas.BiasSupportive},
			{"n1", personas.StanceNeutral, personas.BiasBalanced},
		})
		store.SetResult(sess.ID, "untouched", "previous answer")

		text, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID:   sess.ID,
			Question:    "should we invest?",
			Strategy:    datatypes.StrategyRedBlue,
			PersonaKeys: []string{"c1", "s1"},
		})
		require.NoError(t, err)

		assert.Contains(t, text, "RED TEAM", "output carries the red team section")
		assert.Contains(t, text, "BLUE TEAM", "output carries the blue team section")

		var redPrompt, bluePrompt string
		for _, a := range mock.recordedAsks() {
			switch a.NotebookID {
			case "nb-c1":
				redPrompt = a.Prompt
			case "nb-s1":
				bluePrompt = a.Prompt
			}
		}
		assert.Contains(t, redPrompt, "Red Team", "critical member gets the red framing")
		assert.Contains(t, redPrompt, "should we invest?")
		assert.Contains(t, bluePrompt, "Blue Team", "supportive member gets the blue framing")

		got, _ := store.Get(sess.ID)
		assert.Equal(t, "previous answer", got.LastResults["untouched"],
			"red_blue merges without disturbing untargeted keys")
		assert.Contains(t, got.LastResults, "c1")
		assert.Contains(t, got.LastResults, "s1")
	})
}

// =============================================================================
// Validation and Conversation Continuity
// =============================================================================

func TestQueryValidation(t *testing.T) {
	store := session.NewStore()
	svc := newTestQueryService(store, &MockResearch{})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: "ps-missing",
			Question:  "q",
		})
		assert.ErrorIs(t, err, datatypes.ErrSessionNotFound)
	})

	t.Run("subset filters out every persona", func(t *testing.T) {
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceNeutral, personas.BiasBalanced},
		})
		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID:   sess.ID,
			Question:    "q",
			PersonaKeys: []string{"nobody"},
		})
		assert.ErrorIs(t, err, datatypes.ErrNoValidPersonas)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		sess := newTestSession(t, store, []personaSpec{
			{"alpha", personas.StanceNeutral, personas.BiasBalanced},
		})
		_, err := svc.Query(context.Background(), &datatypes.QueryRequest{
			SessionID: sess.ID,
			Question:  "q",
			Strategy:  "shotgun",
		})
		assert.True(t, datatypes.IsValidation(err), "unknown strategy is a validation failure")
	})
}

func TestConversationContinuity(t *testing.T) {
	store := session.NewStore()
	calls := 0
	mock := &MockResearch{
		AskFunc: func(notebookID, question, conversationID string) (*backend.AskResult, error) {
			calls++
			return &backend.AskResult{
				Answer:         fmt.Sprintf("answer %d", calls),
				ConversationID: "conv-1",
			}, nil
		},
	}
	svc := newTestQueryService(store, mock)
	sess := newTestSession(t, store, []personaSpec{
		{"alpha", personas.StanceNeutral, personas.BiasBalanced},
	})

	req := &datatypes.QueryRequest{
		SessionID:            sess.ID,
		Question:             "q",
		ContinueConversation: true,
	}
	_, err := svc.Query(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Query(context.Background(), req)
	require.NoError(t, err)

	asks := mock.recordedAsks()
	require.Len(t, asks, 2)
	assert.Empty(t, asks[0].ConversationID, "first ask has no prior conversation")
	assert.Equal(t, "conv-1", asks[1].ConversationID,
		"follow-up threads the recorded conversation handle")
}
