// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package personas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampMaxCount(t *testing.T) {
	assert.Equal(t, 4, ClampMaxCount(0), "zero selects the default")
	assert.Equal(t, 4, ClampMaxCount(-3))
	assert.Equal(t, 1, ClampMaxCount(1))
	assert.Equal(t, 3, ClampMaxCount(3))
	assert.Equal(t, 4, ClampMaxCount(9))
}

func TestStanceCap(t *testing.T) {
	assert.Equal(t, 1, StanceCap(1))
	assert.Equal(t, 1, StanceCap(2))
	assert.Equal(t, 2, StanceCap(3))
	assert.Equal(t, 2, StanceCap(4))
}

func TestRecommend(t *testing.T) {
	topics := []string{
		"AI 반도체 시장 전망",
		"clinical trial design for a new vaccine",
		"startup fundraising strategy",
		"no keywords match this sentence at all",
	}

	t.Run("never exceeds maxCount and never duplicates keys", func(t *testing.T) {
		for _, topic := range topics {
			for maxCount := 1; maxCount <= 4; maxCount++ {
				t.Run(fmt.Sprintf("%s/max=%d", topic, maxCount), func(t *testing.T) {
					recs := Recommend(topic, maxCount, "en")
					require.NotEmpty(t, recs)
					assert.LessOrEqual(t, len(recs), maxCount)

					seen := map[string]bool{}
					for _, r := range recs {
						assert.False(t, seen[r.Key], "duplicate persona key %s", r.Key)
						seen[r.Key] = true
					}
				})
			}
		}
	})

	t.Run("full selections are stance balanced", func(t *testing.T) {
		for _, topic := range topics {
			for maxCount := 2; maxCount <= 4; maxCount++ {
				recs := Recommend(topic, maxCount, "en")
				if len(recs) < maxCount {
					continue
				}
				critical, supportive := 0, 0
				for _, r := range recs {
					switch r.Stance {
					case StanceCritical:
						critical++
					case StanceSupportive:
						supportive++
					}
				}
				assert.GreaterOrEqual(t, critical, 1,
					"topic %q max %d: full selection needs a critical voice", topic, maxCount)
				assert.GreaterOrEqual(t, supportive, 1,
					"topic %q max %d: full selection needs a supportive voice", topic, maxCount)
				capPerStance := StanceCap(maxCount)
				assert.LessOrEqual(t, critical, capPerStance)
				assert.LessOrEqual(t, supportive, capPerStance)
			}
		}
	})

	t.Run("domain-specific personas outrank wildcards", func(t *testing.T) {
		recs := Recommend("semiconductor fabrication process", 4, "en")
		require.NotEmpty(t, recs)
		first, ok := Get(recs[0].Key)
		require.True(t, ok)
		assert.False(t, first.IsWildcard(),
			"a topic with domain matches must select a domain-specific persona first")
	})

	t.Run("prompts are topic-customized", func(t *testing.T) {
		topic := "AI 반도체 시장 전망"
		for _, r := range Recommend(topic, 4, "en") {
			assert.Contains(t, r.SystemPrompt, topic)
			assert.NotContains(t, r.SystemPrompt, "{topic}")
		}
	})

	t.Run("non-default language appends a response directive", func(t *testing.T) {
		for _, r := range Recommend("startup strategy", 2, "ko") {
			assert.Contains(t, r.SystemPrompt, "Respond in Korean")
		}
		for _, r := range Recommend("startup strategy", 2, "en") {
			assert.NotContains(t, r.SystemPrompt, "Respond in")
		}
	})

	t.Run("topic without keywords still recommends personas", func(t *testing.T) {
		recs := Recommend("completely unrelated ramblings", 4, "en")
		assert.NotEmpty(t, recs, "classifier defaults must keep recommendation alive")
	})
}

// =============================================================================
// Forced Balance Passes
// =============================================================================

func mustGet(t *testing.T, key string) Template {
	t.Helper()
	tmpl, ok := Get(key)
	require.True(t, ok, "catalog should contain %s", key)
	return tmpl
}

func TestBalanceCritical(t *testing.T) {
	neutral := mustGet(t, "synthesizer")
	neutral2 := mustGet(t, "practitioner")
	supportive := mustGet(t, "futurist")

	t.Run("replaces the last neutral in a full selection", func(t *testing.T) {
		selected := []Template{supportive, neutral, neutral2}
		got := balanceCritical(selected, 3)
		require.Len(t, got, 3)
		assert.Equal(t, DefaultCriticalKey, got[2].Key, "last neutral becomes the skeptic")
		assert.Equal(t, supportive.Key, got[0].Key)
	})

	t.Run("replaces the last entry when none is neutral", func(t *testing.T) {
		tech := mustGet(t, "tech_optimist")
		got := balanceCritical([]Template{supportive, tech}, 2)
		require.Len(t, got, 2)
		assert.Equal(t, DefaultCriticalKey, got[1].Key)
	})

	t.Run("does nothing when the selection is not full", func(t *testing.T) {
		got := balanceCritical([]Template{neutral}, 3)
		require.Len(t, got, 1)
		assert.Equal(t, neutral.Key, got[0].Key)
	})

	t.Run("does nothing when a critical voice is present", func(t *testing.T) {
		critical := mustGet(t, "risk_assessor")
		got := balanceCritical([]Template{critical, neutral}, 2)
		assert.Equal(t, critical.Key, got[0].Key)
		assert.Equal(t, neutral.Key, got[1].Key)
	})
}

func TestBalanceSupportive(t *testing.T) {
	neutral := mustGet(t, "synthesizer")
	critical := mustGet(t, "skeptic")

	t.Run("replaces the last neutral with a supportive persona", func(t *testing.T) {
		got := balanceSupportive([]Template{critical, neutral}, 2)
		require.Len(t, got, 2)
		assert.Equal(t, StanceSupportive, got[1].Stance)
	})

	t.Run("gives up when no neutral entry remains", func(t *testing.T) {
		critical2 := mustGet(t, "risk_assessor")
		got := balanceSupportive([]Template{critical, critical2}, 2)
		assert.Equal(t, critical.Key, got[0].Key)
		assert.Equal(t, critical2.Key, got[1].Key)
	})
}
