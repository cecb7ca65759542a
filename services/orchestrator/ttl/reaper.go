// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ttl evicts idle persona sessions from the in-memory store.
//
// Sessions otherwise live for the process lifetime. With a TTL
// configured, the reaper periodically deletes sessions whose last
// activity is older than the TTL and drops their backend conversation
// handles. A zero TTL disables reaping entirely.
package ttl

import (
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/observability"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// ReaperConfig holds configuration for the session reaper.
type ReaperConfig struct {
	// TTL is the idle lifetime of a session. Zero disables the reaper.
	TTL time.Duration

	// Interval is how often to sweep. Defaults to TTL/4, floored at one
	// minute.
	Interval time.Duration
}

// Reaper periodically deletes idle sessions.
//
// # Thread Safety
//
// Start and Stop are safe for concurrent use; a mutex guards the running
// state. The sweep itself relies on the store's own locking.
type Reaper struct {
	store         *session.Store
	conversations *session.ConversationRegistry
	metrics       *observability.PersonaMetrics
	logger        *slog.Logger
	config        ReaperConfig
	now           func() time.Time

	mu      sync.Mutex
	done    chan struct{}
	running bool
}

// NewReaper creates a session reaper. metrics may be nil; a nil logger
// falls back to slog.Default.
func NewReaper(
	store *session.Store,
	conversations *session.ConversationRegistry,
	metrics *observability.PersonaMetrics,
	logger *slog.Logger,
	config ReaperConfig,
) *Reaper {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = config.TTL / 4
		if config.Interval < time.Minute {
			config.Interval = time.Minute
		}
	}
	return &Reaper{
		store:         store,
		conversations: conversations,
		metrics:       metrics,
		logger:        logger,
		config:        config,
		now:           time.Now,
	}
}

// Start launches the background sweep goroutine using the ticker + done
// channel pattern. It is a no-op when the TTL is zero or the reaper is
// already running.
func (r *Reaper) Start() {
	if r.config.TTL <= 0 {
		r.logger.Info("session reaper disabled (no TTL configured)")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.done = make(chan struct{})

	r.logger.Info("session reaper started",
		"ttl", r.config.TTL,
		"interval", r.config.Interval)

	go func(done chan struct{}) {
		ticker := time.NewTicker(r.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}(r.done)
}

// Stop signals the sweep goroutine to exit. Safe to call when not
// running.
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.done)
	r.logger.Info("session reaper stopped")
}

// Sweep deletes every session idle longer than the TTL and forgets its
// conversation handles. It returns the number of sessions evicted.
func (r *Reaper) Sweep() int {
	cutoff := r.now().Add(-r.config.TTL)
	expired := r.store.ExpiredBefore(cutoff)
	reaped := 0
	for _, id := range expired {
		sess, err := r.store.Snapshot(id)
		if err != nil {
			continue
		}
		notebooks := make([]string, 0, len(sess.Notebooks))
		for _, nbID := range sess.Notebooks {
			notebooks = append(notebooks, nbID)
		}
		if !r.store.Delete(id) {
			continue
		}
		r.conversations.Forget(notebooks...)
		reaped++
		r.logger.Info("reaped idle session",
			"session_id", id,
			"topic", sess.Topic,
			"idle_since", sess.LastActivity)
	}
	r.metrics.SessionsReaped(reaped)
	return reaped
}
