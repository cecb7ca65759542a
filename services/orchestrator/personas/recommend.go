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

import "sort"

// =============================================================================
// Recommendation Engine
// =============================================================================

// domainSpecificBase is the score floor for personas with at least one
// matched domain tag. It keeps every domain-specific persona strictly
// above the wildcard base score, so domain relevance always outranks
// generic applicability.
const domainSpecificBase = 10.0

// wildcardBase is the score assigned to universal (wildcard) personas.
const wildcardBase = 1.0

// ClampMaxCount bounds a requested persona count to [1,4]. Zero selects
// the default of 4.
func ClampMaxCount(n int) int {
	if n <= 0 {
		return 4
	}
	if n > 4 {
		return 4
	}
	return n
}

// StanceCap returns the per-stance selection cap for the supportive and
// critical teams: max(1, (maxCount+1)/2). Neutral personas are uncapped.
func StanceCap(maxCount int) int {
	limit := (maxCount + 1) / 2
	if limit < 1 {
		limit = 1
	}
	return limit
}

// Recommend selects up to maxCount distinct, stance-balanced personas for
// a topic, each with a topic-customized system prompt.
//
// # Description
//
// The hybrid selection runs in four steps:
//
//  1. Classify the topic's domains (see Classify).
//  2. Score every catalog persona: wildcard personas get the base score
//     1.0; domain-specific personas get 10 + Σ 1/(rank+1) over their
//     domains present in the classified list, where rank is the domain's
//     zero-based position. Personas with no overlap and no wildcard are
//     excluded.
//  3. Greedily select by descending score (stable on catalog order),
//     skipping supportive or critical candidates whose stance already
//     reached max(1,(maxCount+1)/2) selections. Neutral is uncapped.
//  4. Balance the full selection: force-include the default critical
//     persona when no critical voice made it, then a supportive persona
//     when no supportive voice made it. Each pass replaces the last
//     neutral entry (or the last entry outright for the critical pass)
//     and runs at most once, critical first.
//
// # Inputs
//
//   - topic: Research topic used for classification and prompt resolution.
//   - maxCount: Selection bound; callers clamp to [1,4] via ClampMaxCount.
//   - language: Output language code; non-default values append a
//     response-language directive to each prompt.
//
// # Outputs
//
//   - []Config: At most maxCount persona configs, never with duplicate
//     keys. A topic matching no keyword still succeeds through the
//     classifier's default domains.
func Recommend(topic string, maxCount int, language string) []Config {
	domains := Classify(topic)

	rank := make(map[string]int, len(domains))
	for i, d := range domains {
		rank[d] = i
	}

	type scored struct {
		score float64
		tmpl  Template
	}
	var candidates []scored
	for _, t := range catalogOrder {
		if t.IsWildcard() {
			candidates = append(candidates, scored{wildcardBase, t})
			continue
		}
		weight := 0.0
		matched := false
		for _, d := range t.Domains {
			if r, ok := rank[d]; ok {
				weight += 1.0 / float64(r+1)
				matched = true
			}
		}
		if matched {
			candidates = append(candidates, scored{domainSpecificBase + weight, t})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	// Greedy selection under the per-stance cap.
	capPerStance := StanceCap(maxCount)
	var selected []Template
	selectedKeys := make(map[string]bool)
	stanceCount := map[Stance]int{}

	for _, c := range candidates {
		if len(selected) >= maxCount {
			break
		}
		if selectedKeys[c.tmpl.Key] {
			continue
		}
		s := c.tmpl.Stance
		if (s == StanceSupportive || s == StanceCritical) && stanceCount[s] >= capPerStance {
			continue
		}
		selected = append(selected, c.tmpl)
		selectedKeys[c.tmpl.Key] = true
		stanceCount[s]++
	}

	selected = balanceCritical(selected, maxCount)
	selected = balanceSupportive(selected, maxCount)

	configs := make([]Config, 0, len(selected))
	for _, t := range selected {
		configs = append(configs, Resolve(t, topic, language))
	}
	return configs
}

// balanceCritical force-includes the default critical persona when a full
// selection contains no critical stance. It replaces the last neutral
// entry, or the last entry outright when none is neutral.
func balanceCritical(selected []Template, maxCount int) []Template {
	if len(selected) < maxCount || countStance(selected, StanceCritical) > 0 {
		return selected
	}
	fallback, ok := Get(DefaultCriticalKey)
	if !ok || hasKey(selected, fallback.Key) {
		return selected
	}
	for i := len(selected) - 1; i >= 0; i-- {
		if selected[i].Stance == StanceNeutral {
			selected[i] = fallback
			return selected
		}
	}
	selected[len(selected)-1] = fallback
	return selected
}

// balanceSupportive replaces the last neutral entry with the first
// unselected supportive catalog persona when a full selection contains no
// supportive stance. Unlike the critical pass it gives up when no neutral
// entry remains.
func balanceSupportive(selected []Template, maxCount int) []Template {
	if len(selected) < maxCount || countStance(selected, StanceSupportive) > 0 {
		return selected
	}
	var candidate *Template
	for _, t := range catalogOrder {
		if t.Stance == StanceSupportive && !hasKey(selected, t.Key) {
			tt := t
			candidate = &tt
			break
		}
	}
	if candidate == nil {
		return selected
	}
	for i := len(selected) - 1; i >= 0; i-- {
		if selected[i].Stance == StanceNeutral {
			selected[i] = *candidate
			break
		}
	}
	return selected
}

func countStance(ts []Template, s Stance) int {
	n := 0
	for _, t := range ts {
		if t.Stance == s {
			n++
		}
	}
	return n
}

func hasKey(ts []Template, key string) bool {
	for _, t := range ts {
		if t.Key == key {
			return true
		}
	}
	return false
}
