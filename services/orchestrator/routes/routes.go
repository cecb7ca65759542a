// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/handlers"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/services"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// Deps carries the constructed services the routes close over.
type Deps struct {
	Store     *session.Store
	Setup     *services.SetupService
	Query     *services.QueryService
	Synthesis *services.SynthesisService
}

// SetupRoutes wires the persona orchestration API onto the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.GET("/personas", handlers.ListCatalog())
		v1.POST("/personas/recommend", handlers.Recommend())
		v1.POST("/personas/setup", handlers.Setup(deps.Setup))
		v1.POST("/personas/query", handlers.Query(deps.Query))
		v1.POST("/personas/synthesize", handlers.Synthesize(deps.Synthesis))
		// Session administration routes
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", handlers.ListSessions(deps.Store))
			sessions.GET("/:sessionId", handlers.GetSession(deps.Store))
		}
	}
}
