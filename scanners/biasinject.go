/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scanners

import "strings"

// Severity assigned per matched phrase: protected-category patterns weigh
// more than generic categorical overgeneralizations.
const (
	protectedPhraseSeverity   = 0.7
	categoricalPhraseSeverity = 0.4
)

// biasPhrases maps a phrase category to its phrase list. Categories with
// the "bias_" prefix target protected characteristics; categorical_claims
// catches sweeping overgeneralizations.
var biasPhrases = map[string][]string{
	"bias_gender": {
		"women are naturally",
		"men are better at",
		"typical woman",
		"typical man",
		"like a girl",
		"man up",
	},
	"bias_age": {
		"too old for",
		"too young to understand",
		"millennials are",
		"boomers are",
		"gen z don't",
	},
	"bias_racial": {
		"those people",
		"their kind",
		"not like us",
		"you people",
	},
	"categorical_claims": {
		"everyone knows",
		"obviously",
		"clearly",
		"all wealthy people",
		"always",
		"never",
	},
}

// biasPhraseCategories fixes the iteration order so evidence is
// deterministic for test fixtures.
var biasPhraseCategories = []string{"bias_gender", "bias_age", "bias_racial", "categorical_claims"}

// BiasViolation is one matched bias phrase.
type BiasViolation struct {
	Category string  `json:"category"`
	Phrase   string  `json:"phrase"`
	Severity float64 `json:"severity"`
}

// BiasInjectionResult carries the bias-injection score and its evidence.
type BiasInjectionResult struct {
	// Score = min(1, totalSeverity/2).
	Score      float64         `json:"score"`
	Violations []BiasViolation `json:"violations,omitempty"`
	// Categories are the distinct matched categories in fixed category order.
	Categories []string `json:"categories,omitempty"`
}

// BiasInjection scores text for injected bias phrases. Each protected-
// category match contributes severity 0.7, each categorical
// overgeneralization 0.4; score = min(1, sum/2).
func BiasInjection(text string) BiasInjectionResult {
	lower := strings.ToLower(text)

	var violations []BiasViolation
	var categories []string
	var totalSeverity float64

	for _, category := range biasPhraseCategories {
		matched := false
		severity := categoricalPhraseSeverity
		if strings.HasPrefix(category, "bias_") {
			severity = protectedPhraseSeverity
		}
		for _, phrase := range biasPhrases[category] {
			if strings.Contains(lower, phrase) {
				violations = append(violations, BiasViolation{
					Category: category,
					Phrase:   phrase,
					Severity: severity,
				})
				totalSeverity += severity
				matched = true
			}
		}
		if matched {
			categories = append(categories, category)
		}
	}

	var score float64
	if len(violations) > 0 {
		score = min(1, totalSeverity/2)
	}

	return BiasInjectionResult{
		Score:      score,
		Violations: violations,
		Categories: categories,
	}
}
