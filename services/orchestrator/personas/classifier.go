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
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// Domain Classification
// =============================================================================

// shortKeywordRunes is the rune-length threshold below which a keyword
// must match as a whole word. Substring matching on two- and three-rune
// keywords like "AI" or "nm" produces spurious hits inside ordinary words.
const shortKeywordRunes = 3

// defaultDomains is returned when no keyword matches at all. Callers must
// never receive zero candidate domains.
var defaultDomains = []string{"technology", "business"}

// Classify maps a free-text topic to a ranked list of domain tags.
//
// # Description
//
// For each domain in the keyword table, Classify counts how many of its
// keywords appear in the topic. Long keywords match case-insensitively as
// substrings; keywords of 3 runes or fewer must be bounded by
// non-letter/non-digit runes on both sides. Domains with zero matches are
// dropped. The result is sorted by descending match count; ties keep the
// keyword table's encounter order.
//
// Classify is a pure function: deterministic for a fixed keyword table,
// no side effects.
//
// # Inputs
//
//   - topic: Free-text research topic, any language.
//
// # Outputs
//
//   - []string: Ranked domain tags, never empty. Topics matching nothing
//     fall back to ["technology", "business"].
func Classify(topic string) []string {
	topicLower := strings.ToLower(topic)
	topicRunes := []rune(topicLower)

	type domainScore struct {
		domain string
		count  int
	}
	var scores []domainScore

	for _, entry := range keywordTable {
		count := 0
		for _, kw := range entry.Keywords {
			kwLower := strings.ToLower(kw)
			if len([]rune(kwLower)) <= shortKeywordRunes {
				if containsWord(topicRunes, []rune(kwLower)) {
					count++
				}
			} else if strings.Contains(topicLower, kwLower) {
				count++
			}
		}
		if count > 0 {
			scores = append(scores, domainScore{entry.Domain, count})
		}
	}

	if len(scores) == 0 {
		out := make([]string, len(defaultDomains))
		copy(out, defaultDomains)
		return out
	}

	// Stable sort keeps table encounter order for equal counts.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].count > scores[j].count
	})

	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.domain
	}
	return out
}

// containsWord reports whether word occurs in text bounded by
// non-letter/non-digit runes. The manual rune walk is Unicode-correct for
// Korean, where regexp's \b (ASCII word boundaries) does not apply.
func containsWord(text, word []rune) bool {
	if len(word) == 0 || len(word) > len(text) {
		return false
	}
	for i := 0; i+len(word) <= len(text); i++ {
		if !runesEqual(text[i:i+len(word)], word) {
			continue
		}
		if i > 0 && isWordRune(text[i-1]) {
			continue
		}
		if end := i + len(word); end < len(text) && isWordRune(text[end]) {
			continue
		}
		return true
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
