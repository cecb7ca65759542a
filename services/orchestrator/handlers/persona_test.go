// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianResearch/services/backend"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/handlers"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/routes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/services"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// stubResearch is a do-nothing backend; handler tests exercise binding,
// routing, and error mapping, not strategy behavior.
type stubResearch struct{}

func (stubResearch) CreateNotebook(_ context.Context, title string) (*backend.Notebook, error) {
	return &backend.Notebook{ID: "nb-stub", Title: title}, nil
}

func (stubResearch) ListNotebooks(context.Context) ([]backend.Notebook, error) {
	return nil, nil
}

func (stubResearch) AddURLSource(_ context.Context, _, url string) (*backend.Source, error) {
	return &backend.Source{Title: url}, nil
}

func (stubResearch) AddTextSource(_ context.Context, _, title, _ string) (*backend.Source, error) {
	return &backend.Source{Title: title}, nil
}

func (stubResearch) ConfigurePersona(context.Context, string, string) (backend.Capability, error) {
	return backend.CapabilitySupported, nil
}

func (stubResearch) Ask(_ context.Context, _, _, _ string) (*backend.AskResult, error) {
	return &backend.AskResult{Answer: "stub answer"}, nil
}

func (stubResearch) StartResearch(context.Context, string, string, string) (*backend.ResearchJob, backend.Capability, error) {
	return nil, backend.CapabilityUnsupported, nil
}

func (stubResearch) GenerateArtifact(context.Context, string, string, string) (*backend.Artifact, error) {
	return nil, nil
}

func (stubResearch) PollArtifact(context.Context, string, string) (*backend.Artifact, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()

	store := session.NewStore()
	conversations := session.NewConversationRegistry()
	research := stubResearch{}

	router := gin.New()
	routes.SetupRoutes(router, routes.Deps{
		Store:     store,
		Setup:     services.NewSetupService(store, research, nil, nil),
		Query:     services.NewQueryService(store, conversations, research, nil, nil),
		Synthesis: services.NewSynthesisService(store, research, nil, nil),
	})
	return router, store
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedSession(t *testing.T, store *session.Store) *session.Session {
	t.Helper()
	cfg := personas.Config{
		Key: "skeptic", Name: "Skeptic", Role: "devil's advocate",
		SystemPrompt: "You are the skeptic.",
		Stance:       personas.StanceCritical, Bias: personas.BiasCounterEvidence,
	}
	sess, err := store.Create("test topic", "en",
		[]string{"skeptic"},
		map[string]string{"skeptic": "nb-stub"},
		map[string]personas.Config{"skeptic": cfg})
	require.NoError(t, err)
	return sess
}

func TestRecommendEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("returns a formatted text report", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/recommend",
			`{"topic": "AI semiconductor market outlook"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, w.Body.String(), "Persona Recommendations")
	})

	t.Run("missing topic fails binding", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/recommend", `{"max_personas": 3}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQueryEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	sess := seedSession(t, store)

	t.Run("unknown session maps to 404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/query",
			`{"session_id": "ps-ffffffff", "question": "why?"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown strategy fails binding with 400", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/query",
			`{"session_id": "`+sess.ID+`", "question": "why?", "strategy": "adversarial"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid query returns the rendered answers", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/query",
			`{"session_id": "`+sess.ID+`", "question": "why?", "strategy": "independent"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "stub answer")
	})
}

func TestSynthesizeEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	sess := seedSession(t, store)

	t.Run("unknown synthesis type fails binding", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/synthesize",
			`{"session_id": "`+sess.ID+`", "synthesis_type": "haiku"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("session without results maps to 400", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/v1/personas/synthesize",
			`{"session_id": "`+sess.ID+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionEndpoints(t *testing.T) {
	router, store := newTestRouter(t)

	t.Run("empty list renders a hint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No active")
	})

	sess := seedSession(t, store)

	t.Run("detail view shows the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sess.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "test topic")
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/ps-ffffffff", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCatalogAndHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("catalog lists the persona pool", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/personas", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "skeptic")
	})

	t.Run("domain filter narrows the catalog", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/personas?domain=medical", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "clinical_expert")
		assert.NotContains(t, w.Body.String(), "geopolitical_analyst")
	})

	t.Run("health reports ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})
}
