// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the persona
// orchestrator.
//
// # Description
//
// Metrics cover the full query path:
//   - Query counters by strategy and outcome
//   - Per-persona backend ask counters and latency histograms
//   - Session lifecycle (created, active, reaped)
//   - Synthesis counters by report type
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for persona orchestration metrics
const personaSubsystem = "persona"

// PersonaMetrics holds all Prometheus metrics for persona orchestration.
// Initialize once at startup via InitMetrics().
type PersonaMetrics struct {
	// QueriesTotal counts query dispatches.
	// Labels: strategy (independent, cascading, red_blue),
	// status (success, partial, error)
	QueriesTotal *prometheus.CounterVec

	// PersonaAsksTotal counts individual backend asks.
	// Labels: strategy, status (success, error)
	PersonaAsksTotal *prometheus.CounterVec

	// AskDurationSeconds measures a single backend ask.
	// Labels: strategy
	AskDurationSeconds *prometheus.HistogramVec

	// SessionsCreatedTotal counts persona sessions created since start.
	SessionsCreatedTotal prometheus.Counter

	// ActiveSessions tracks live sessions in the store.
	ActiveSessions prometheus.Gauge

	// SessionsReapedTotal counts sessions evicted by the TTL reaper.
	SessionsReapedTotal prometheus.Counter

	// SynthesesTotal counts synthesis runs.
	// Labels: type (comprehensive, decision_matrix, debate_summary),
	// status (success, error)
	SynthesesTotal *prometheus.CounterVec
}

// InitMetrics creates and registers all persona orchestration metrics with
// the default Prometheus registry. Call exactly once at startup; promauto
// panics on duplicate registration.
func InitMetrics() *PersonaMetrics {
	return &PersonaMetrics{
		QueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "queries_total",
				Help:      "Total query dispatches by strategy and outcome.",
			},
			[]string{"strategy", "status"},
		),
		PersonaAsksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "asks_total",
				Help:      "Total per-persona backend asks by strategy and status.",
			},
			[]string{"strategy", "status"},
		),
		AskDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "ask_duration_seconds",
				Help:      "Duration of a single backend ask.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"strategy"},
		),
		SessionsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "sessions_created_total",
				Help:      "Total persona sessions created.",
			},
		),
		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "active_sessions",
				Help:      "Currently live persona sessions.",
			},
		),
		SessionsReapedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "sessions_reaped_total",
				Help:      "Sessions evicted by the TTL reaper.",
			},
		),
		SynthesesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: personaSubsystem,
				Name:      "syntheses_total",
				Help:      "Synthesis runs by report type and status.",
			},
			[]string{"type", "status"},
		),
	}
}

// RecordQuery records one finished query dispatch. failed counts personas
// whose ask failed; status resolves to success, partial, or error.
func (m *PersonaMetrics) RecordQuery(strategy string, total, failed int) {
	if m == nil {
		return
	}
	status := "success"
	switch {
	case total > 0 && failed == total:
		status = "error"
	case failed > 0:
		status = "partial"
	}
	m.QueriesTotal.WithLabelValues(strategy, status).Inc()
}

// RecordAsk records one per-persona backend ask.
func (m *PersonaMetrics) RecordAsk(strategy string, seconds float64, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.PersonaAsksTotal.WithLabelValues(strategy, status).Inc()
	m.AskDurationSeconds.WithLabelValues(strategy).Observe(seconds)
}

// SessionCreated bumps the creation counter and the active gauge.
func (m *PersonaMetrics) SessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreatedTotal.Inc()
	m.ActiveSessions.Inc()
}

// SessionsReaped records n sessions evicted by the TTL reaper.
func (m *PersonaMetrics) SessionsReaped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsReapedTotal.Add(float64(n))
	m.ActiveSessions.Sub(float64(n))
}

// RecordSynthesis records one synthesis run.
func (m *PersonaMetrics) RecordSynthesis(synthesisType string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.SynthesesTotal.WithLabelValues(synthesisType, status).Inc()
}
