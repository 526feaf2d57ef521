/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scanners

import (
	"regexp"
	"strings"
)

// sycophancyPhrases is the fixed list of flattery and agreement-seeking
// phrases that can bias a judge toward leniency.
var sycophancyPhrases = []string{
	"you're absolutely right",
	"excellent question",
	"i completely agree",
	"brilliant observation",
	"perfect analysis",
	"couldn't agree more",
	"exactly what i was thinking",
	"you're so smart",
	"great question",
	"trust me",
}

// punctuationRuns matches runs of 3+ exclamation or question marks.
var punctuationRuns = regexp.MustCompile(`[!?]{3,}`)

// SycophancyResult carries the sycophancy score and its evidence.
type SycophancyResult struct {
	Score float64 `json:"score"`
	// Phrases are the matched flattery phrases, in list order.
	Phrases []string `json:"phrases,omitempty"`
	// PunctuationRuns counts runs of 3+ consecutive '!' or '?'.
	PunctuationRuns int `json:"punctuation_runs"`
}

// Sycophancy scores text for flattery and agreement-seeking language.
// Score = min(1, matches/3) + min(0.3, runs/5), clamped to 1.
func Sycophancy(text string) SycophancyResult {
	lower := strings.ToLower(text)

	var phrases []string
	for _, phrase := range sycophancyPhrases {
		if strings.Contains(lower, phrase) {
			phrases = append(phrases, phrase)
		}
	}

	runs := len(punctuationRuns.FindAllStringIndex(text, -1))

	base := min(1, float64(len(phrases))/3)
	punct := min(0.3, float64(runs)/5)

	return SycophancyResult{
		Score:           min(1, base+punct),
		Phrases:         phrases,
		PunctuationRuns: runs,
	}
}
