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

// maxSetupPersonas bounds how many personas one session may bind.
const maxSetupPersonas = 4

// SetupService creates the research environment for a persona set: one
// backend notebook per persona, shared or primary-only sources, a
// persona prompt per notebook, and an optional initial web research run
// on the primary notebook.
type SetupService struct {
	store    *session.Store
	research backend.ResearchService
	metrics  *observability.PersonaMetrics
	logger   *slog.Logger
}

// NewSetupService creates a SetupService. metrics may be nil (tests); a
// nil logger falls back to slog.Default.
func NewSetupService(
	store *session.Store,
	research backend.ResearchService,
	metrics *observability.PersonaMetrics,
	logger *slog.Logger,
) *SetupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetupService{store: store, research: research, metrics: metrics, logger: logger}
}

// Setup builds the multi-persona research environment and registers the
// session.
//
// # Description
//
// Runs four steps, tolerating per-item backend failures throughout:
//
//  1. Create a notebook per persona, titled "[persona:<key>] <topic>".
//     A persona whose notebook creation fails is dropped from the
//     session; setup only fails outright when no notebook at all could
//     be created.
//  2. Add the supplied URLs, to every notebook when shared sources are
//     on (the default), otherwise only to the first.
//  3. Install each persona's system prompt on its notebook. When the
//     backend does not support persona configuration, the prompt is
//     ingested as a text source instead so the persona framing still
//     reaches the notebook's context.
//  4. Optionally start web research on the first notebook only, to
//     avoid backend rate limits.
//
// Unknown persona keys are a validation failure detected before any
// backend call.
//
// # Outputs
//
//   - string: Setup transcript ending with the new session id.
//   - error: A ValidationError, or ErrNoValidPersonas-style failure when
//     every notebook creation failed.
func (s *SetupService) Setup(ctx context.Context, req *datatypes.SetupRequest) (string, error) {
	ctx, span := personaTracer.Start(ctx, "persona.setup")
	defer span.End()

	language := req.Language
	if language == "" {
		language = datatypes.DefaultLanguage
	}
	keys := req.PersonaKeys
	if len(keys) > maxSetupPersonas {
		keys = keys[:maxSetupPersonas]
	}

	// Validate every key before touching the backend.
	templates := make([]personas.Template, 0, len(keys))
	for _, key := range keys {
		t, ok := personas.Get(key)
		if !ok {
			return "", datatypes.NewValidationError("persona_keys",
				"unknown persona key %q (available: %s)", key, strings.Join(personas.Keys(), ", "))
		}
		templates = append(templates, t)
	}

	span.SetAttributes(
		attribute.String("setup.topic", req.Topic),
		attribute.Int("setup.personas", len(templates)),
	)

	var b strings.Builder
	b.WriteString("=== Setting up Multi-Persona Research ===\n")
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Personas: %d\n\n", len(templates))

	// Step 1: one notebook per persona.
	var order []string
	notebooks := make(map[string]string, len(templates))
	configs := make(map[string]personas.Config, len(templates))
	for _, t := range templates {
		cfg := personas.Resolve(t, req.Topic, language)
		nb, err := s.research.CreateNotebook(ctx, fmt.Sprintf("[persona:%s] %s", t.Key, req.Topic))
		if err != nil {
			s.logger.Warn("notebook creation failed", "persona", t.Key, "error", err)
			fmt.Fprintf(&b, "  [!] Failed to create notebook for %s: %v\n", t.Name, err)
			continue
		}
		order = append(order, t.Key)
		notebooks[t.Key] = nb.ID
		configs[t.Key] = cfg
		fmt.Fprintf(&b, "  [+] Notebook created: %s (ID: %s)\n", t.Name, nb.ID)
	}
	if len(notebooks) == 0 {
		return "", fmt.Errorf("setup failed: no notebooks were created")
	}

	// Step 2: sources.
	if len(req.URLs) > 0 {
		targets := order
		if req.SharedSources != nil && !*req.SharedSources {
			targets = order[:1]
		}
		added := 0
		for _, key := range targets {
			nbID := notebooks[key]
			for _, url := range req.URLs {
				if _, err := s.research.AddURLSource(ctx, nbID, url); err != nil {
					s.logger.Warn("source ingestion failed", "url", url, "notebook_id", nbID, "error", err)
					fmt.Fprintf(&b, "  [!] Failed to add %s to %s: %v\n", url, nbID, err)
					continue
				}
				added++
			}
		}
		fmt.Fprintf(&b, "\n  [+] Added %d source(s) across %d notebook(s)\n", added, len(targets))
	} else {
		b.WriteString("\n  [*] No initial URLs provided\n")
	}

	// Step 3: persona prompts.
	for _, key := range order {
		cfg := configs[key]
		nbID := notebooks[key]
		capability, err := s.research.ConfigurePersona(ctx, nbID, cfg.SystemPrompt)
		switch capability {
		case backend.CapabilitySupported:
			fmt.Fprintf(&b, "  [+] Configured persona: %s\n", cfg.Name)
		case backend.CapabilityUnsupported:
			if _, srcErr := s.research.AddTextSource(ctx, nbID,
				"Persona instructions", cfg.SystemPrompt); srcErr != nil {
				fmt.Fprintf(&b, "  [!] Failed to configure %s: %v\n", cfg.Name, srcErr)
			} else {
				fmt.Fprintf(&b, "  [+] Configured persona via source: %s\n", cfg.Name)
			}
		default:
			s.logger.Warn("persona configuration failed", "persona", key, "error", err)
			fmt.Fprintf(&b, "  [!] Failed to configure %s: %v\n", cfg.Name, err)
		}
	}

	// Step 4: web research on the first notebook only.
	if req.WebResearch == nil || *req.WebResearch {
		mode := req.ResearchMode
		if mode == "" {
			mode = "fast"
		}
		_, capability, err := s.research.StartResearch(ctx, notebooks[order[0]], req.Topic, mode)
		switch capability {
		case backend.CapabilitySupported:
			fmt.Fprintf(&b, "\n  [+] Web research started (%s mode)\n", mode)
		case backend.CapabilityUnsupported:
			b.WriteString("\n  [*] Web research not supported by backend\n")
		default:
			s.logger.Warn("web research failed", "error", err)
			fmt.Fprintf(&b, "\n  [!] Web research failed: %v\n", err)
		}
	}

	sess, err := s.store.Create(req.Topic, language, order, notebooks, configs)
	if err != nil {
		return "", err
	}
	s.metrics.SessionCreated()
	s.logger.Info("persona session created",
		"session_id", sess.ID,
		"topic", req.Topic,
		"personas", len(order))

	b.WriteString("\n=== Setup Complete ===\n")
	fmt.Fprintf(&b, "Session ID: %s\n", sess.ID)
	fmt.Fprintf(&b, "Notebooks: %d\n", len(notebooks))
	fmt.Fprintf(&b, "\nQuery session '%s' to start researching.", sess.ID)
	return b.String(), nil
}
