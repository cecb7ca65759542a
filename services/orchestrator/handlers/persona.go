// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers exposes the persona orchestration operations over
// HTTP. Every operation returns a formatted human-readable text block
// rather than a structured object: the caller is an AI-agent-facing
// textual interface.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianResearch/services/backend"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/datatypes"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/services"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// writeError maps the error taxonomy to HTTP statuses: unknown session
// to 404, other validation failures to 400, backend failures to 502,
// everything else to 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, datatypes.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case datatypes.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case backend.IsBackend(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Recommend analyzes a research topic and returns recommended persona
// combinations with topic-customized prompts.
func Recommend() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.RecommendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Info("persona recommendation requested", "topic", req.Topic)

		maxCount := personas.ClampMaxCount(req.MaxPersonas)
		domains := personas.Classify(req.Topic)
		recs := personas.Recommend(req.Topic, maxCount, req.Language)
		c.String(http.StatusOK, services.RenderRecommendations(req.Topic, domains, recs))
	}
}

// Setup creates the multi-persona research environment and registers a
// session.
func Setup(svc *services.SetupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Info("persona setup requested", "topic", req.Topic, "personas", len(req.PersonaKeys))

		text, err := svc.Setup(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.String(http.StatusOK, text)
	}
}

// Query dispatches a question to a session's personas using one of the
// three strategies.
func Query(svc *services.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Info("persona query requested",
			"session_id", req.SessionID, "strategy", req.Strategy)

		text, err := svc.Query(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.String(http.StatusOK, text)
	}
}

// Synthesize merges a session's stored per-persona answers into one
// synthesis report.
func Synthesize(svc *services.SynthesisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SynthesizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Info("persona synthesis requested",
			"session_id", req.SessionID, "type", req.SynthesisType)

		text, err := svc.Synthesize(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.String(http.StatusOK, text)
	}
}

// ListSessions returns the overview of all active persona sessions.
func ListSessions(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, services.RenderSessionList(store.List()))
	}
}

// GetSession returns the full detail view of one session.
func GetSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Snapshot(c.Param("sessionId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.String(http.StatusOK, services.RenderSession(sess))
	}
}

// ListCatalog browses the pre-defined persona pool, optionally filtered
// by the "domain" query parameter.
func ListCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, services.RenderCatalog(c.Query("domain")))
	}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
