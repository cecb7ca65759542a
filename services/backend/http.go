// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// backendTracer is the OpenTelemetry tracer for research-gateway calls.
var backendTracer = otel.Tracer("aleutian.research.backend")

// Compile-time interface implementation check.
var _ ResearchService = (*HTTPClient)(nil)

const (
	// maxAskRetries bounds retry attempts for ask operations. Retries use
	// exponential backoff starting at initialRetryDelay.
	maxAskRetries = 3

	// initialRetryDelay is the delay before the first retry attempt.
	initialRetryDelay = 1 * time.Second

	// defaultRequestTimeout bounds a single backend HTTP round trip.
	// Grounded asks can take tens of seconds on large notebooks.
	defaultRequestTimeout = 120 * time.Second
)

// =============================================================================
// HTTP Client
// =============================================================================

// HTTPClient implements ResearchService against the research gateway's
// JSON API.
//
// # Thread Safety
//
// Safe for concurrent use; the embedded http.Client is itself concurrent
// and HTTPClient holds no mutable state.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a client for the gateway at baseURL. A nil logger
// falls back to slog.Default.
func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
		logger:  logger,
	}
}

// CreateNotebook creates a research context titled title.
func (c *HTTPClient) CreateNotebook(ctx context.Context, title string) (*Notebook, error) {
	var nb Notebook
	err := c.postJSON(ctx, "create_notebook", "/v1/notebooks",
		map[string]string{"title": title}, &nb)
	if err != nil {
		return nil, err
	}
	return &nb, nil
}

// ListNotebooks enumerates existing research contexts.
func (c *HTTPClient) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	var out struct {
		Notebooks []Notebook `json:"notebooks"`
	}
	if err := c.getJSON(ctx, "list_notebooks", "/v1/notebooks", &out); err != nil {
		return nil, err
	}
	return out.Notebooks, nil
}

// AddURLSource ingests a URL into a notebook.
func (c *HTTPClient) AddURLSource(ctx context.Context, notebookID, url string) (*Source, error) {
	var src Source
	err := c.postJSON(ctx, "add_url_source",
		fmt.Sprintf("/v1/notebooks/%s/sources", notebookID),
		map[string]string{"type": "url", "url": url}, &src)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// AddTextSource ingests a raw text blob into a notebook.
func (c *HTTPClient) AddTextSource(ctx context.Context, notebookID, title, text string) (*Source, error) {
	var src Source
	err := c.postJSON(ctx, "add_text_source",
		fmt.Sprintf("/v1/notebooks/%s/sources", notebookID),
		map[string]string{"type": "text", "title": title, "text": text}, &src)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// ConfigurePersona installs a system prompt on a notebook. A 404 or 501
// from the gateway means the feature is absent, not broken.
func (c *HTTPClient) ConfigurePersona(ctx context.Context, notebookID, systemPrompt string) (Capability, error) {
	err := c.postJSON(ctx, "configure_persona",
		fmt.Sprintf("/v1/notebooks/%s/persona", notebookID),
		map[string]string{"system_prompt": systemPrompt}, nil)
	if err == nil {
		return CapabilitySupported, nil
	}
	if be, ok := err.(*BackendError); ok {
		if be.StatusCode == http.StatusNotFound || be.StatusCode == http.StatusNotImplemented {
			return CapabilityUnsupported, nil
		}
	}
	return CapabilityFailed, err
}

// Ask poses a grounded question against a notebook, retrying transient
// failures with exponential backoff.
func (c *HTTPClient) Ask(ctx context.Context, notebookID, question, conversationID string) (*AskResult, error) {
	ctx, span := backendTracer.Start(ctx, "backend.ask")
	defer span.End()
	span.SetAttributes(
		attribute.String("notebook.id", notebookID),
		attribute.Bool("conversation.continued", conversationID != ""),
	)

	payload := map[string]string{"question": question}
	if conversationID != "" {
		payload["conversation_id"] = conversationID
	}

	var lastErr error
	delay := initialRetryDelay
	for attempt := 0; attempt <= maxAskRetries; attempt++ {
		if attempt > 0 {
			span.AddEvent("retry_attempt", trace.WithAttributes(
				attribute.Int("attempt", attempt),
				attribute.String("delay", delay.String()),
			))
			c.logger.Warn("retrying backend ask",
				"notebook_id", notebookID,
				"attempt", attempt,
				"delay", delay)
			select {
			case <-ctx.Done():
				span.SetStatus(codes.Error, "context canceled during retry")
				return nil, &BackendError{Op: "ask", Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= 2
		}

		var res AskResult
		err := c.postJSON(ctx, "ask",
			fmt.Sprintf("/v1/notebooks/%s/ask", notebookID), payload, &res)
		if err == nil {
			return &res, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
	}

	span.SetStatus(codes.Error, lastErr.Error())
	return nil, lastErr
}

// StartResearch kicks off a deep-research job seeded with the topic.
func (c *HTTPClient) StartResearch(ctx context.Context, notebookID, topic, mode string) (*ResearchJob, Capability, error) {
	var job ResearchJob
	err := c.postJSON(ctx, "start_research",
		fmt.Sprintf("/v1/notebooks/%s/research", notebookID),
		map[string]string{"topic": topic, "mode": mode}, &job)
	if err == nil {
		return &job, CapabilitySupported, nil
	}
	if be, ok := err.(*BackendError); ok {
		if be.StatusCode == http.StatusNotFound || be.StatusCode == http.StatusNotImplemented {
			return nil, CapabilityUnsupported, nil
		}
	}
	return nil, CapabilityFailed, err
}

// GenerateArtifact requests a generated output from a notebook's sources.
func (c *HTTPClient) GenerateArtifact(ctx context.Context, notebookID, kind, instructions string) (*Artifact, error) {
	var art Artifact
	err := c.postJSON(ctx, "generate_artifact",
		fmt.Sprintf("/v1/notebooks/%s/artifacts", notebookID),
		map[string]string{"kind": kind, "instructions": instructions}, &art)
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// PollArtifact fetches the status of a generation task.
func (c *HTTPClient) PollArtifact(ctx context.Context, notebookID, taskID string) (*Artifact, error) {
	var art Artifact
	err := c.getJSON(ctx, "poll_artifact",
		fmt.Sprintf("/v1/notebooks/%s/artifacts/%s", notebookID, taskID), &art)
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// =============================================================================
// Transport Helpers
// =============================================================================

// postJSON POSTs payload to path and decodes the response into out when
// out is non-nil. Non-2xx responses become a *BackendError carrying the
// status code and the response body.
func (c *HTTPClient) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &BackendError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &BackendError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

// getJSON GETs path and decodes the response into out.
func (c *HTTPClient) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &BackendError{Op: op, Err: err}
	}
	return c.do(op, req, out)
}

func (c *HTTPClient) do(op string, req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &BackendError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bounded read keeps a misbehaving gateway from ballooning error
		// messages.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &BackendError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(msg))),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &BackendError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// isRetryable reports whether an ask failure is worth retrying. Gateway
// overload and upstream hiccups are; client errors and context
// cancellation are not.
func isRetryable(err error) bool {
	be, ok := err.(*BackendError)
	if !ok {
		return false
	}
	switch be.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return true
	case 0:
		// Transport-level failure without a status; retry unless the
		// context is gone.
		if errors.Is(be.Err, context.Canceled) || errors.Is(be.Err, context.DeadlineExceeded) {
			return false
		}
		return be.Err != nil
	default:
		return false
	}
}
