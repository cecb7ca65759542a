// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiTimeout bounds one orchestrator call. Queries fan out to several
// backend asks, so this is generous.
const apiTimeout = 10 * time.Minute

var httpClient = &http.Client{Timeout: apiTimeout}

// callAPI sends a request to the orchestrator and returns the response
// body as text. Non-2xx responses become errors carrying the body.
func callAPI(method, path string, payload any) (string, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := strings.TrimRight(config.OrchestratorURL, "/") + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return "", err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+config.AuthToken)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("orchestrator unreachable at %s: %w", config.OrchestratorURL, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("orchestrator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return string(text), nil
}
