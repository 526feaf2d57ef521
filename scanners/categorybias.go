/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scanners

import (
	"regexp"
	"strings"
)

// biasCategory is one demographic category with its detection patterns and
// a category weight applied to severity.
type biasCategory struct {
	name     string
	patterns []*regexp.Regexp
	keywords []string
	weight   float64
}

// severityPerViolation is how much each violation contributes to a
// category's severity before the category weight is applied.
const severityPerViolation = 0.3

var biasCategories = []biasCategory{{
	name: "gender",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(wo)?men are (naturally|typically|usually|always|never)`),
		regexp.MustCompile(`(?i)\bfemales? (can't|cannot|shouldn't|should not)`),
		regexp.MustCompile(`(?i)\bmales? (can't|cannot|shouldn't|should not)`),
		regexp.MustCompile(`(?i)\blike a (man|woman|girl|boy)`),
	},
	keywords: []string{"typical woman", "typical man", "man up", "like a girl"},
	weight:   1.0,
}, {
	name: "racial",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bthose people\b`),
		regexp.MustCompile(`(?i)\btheir kind\b`),
		regexp.MustCompile(`(?i)\bnot like us\b`),
		regexp.MustCompile(`(?i)\byou people\b`),
	},
	keywords: []string{"those people", "their kind", "not our culture"},
	weight:   1.0,
}, {
	name: "age",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(too|not) (old|young) (for|to)`),
		regexp.MustCompile(`(?i)\b(millennials?|boomers?|gen z) (are|can't|don't)`),
	},
	keywords: []string{"too old", "too young", "kids these days"},
	weight:   0.8,
}, {
	name: "socioeconomic",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bpoor people (are|can't|don't)`),
		regexp.MustCompile(`(?i)\brich people (are|always)`),
	},
	keywords: []string{"poor people are", "wealthy people always"},
	weight:   0.7,
}, {
	name: "ability",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bdisabled people (can't|cannot|shouldn't)`),
	},
	keywords: []string{"handicapped", "crippled"},
	weight:   1.0,
}}

// CategoryFinding is the evidence for one affected demographic category.
type CategoryFinding struct {
	Category string `json:"category"`
	// Severity = min(1, count*0.3) * categoryWeight.
	Severity float64  `json:"severity"`
	Count    int      `json:"count"`
	Matches  []string `json:"matches,omitempty"`
}

// CategoryBiasResult carries the per-category bias score and its evidence.
type CategoryBiasResult struct {
	// Score = min(1, sum of category severities / 2).
	Score    float64           `json:"score"`
	Findings []CategoryFinding `json:"findings,omitempty"`
}

// CategoryBias scores text against demographic bias categories (gender,
// race, age, socioeconomic, ability). Broader than BiasInjection: it
// weighs violation counts per category rather than individual phrases.
func CategoryBias(text string) CategoryBiasResult {
	lower := strings.ToLower(text)

	var findings []CategoryFinding
	var totalSeverity float64

	for _, cat := range biasCategories {
		var matches []string
		for _, re := range cat.patterns {
			for _, m := range re.FindAllString(lower, -1) {
				matches = append(matches, m)
			}
		}
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				matches = append(matches, kw)
			}
		}
		if len(matches) == 0 {
			continue
		}

		severity := min(1, float64(len(matches))*severityPerViolation) * cat.weight
		findings = append(findings, CategoryFinding{
			Category: cat.name,
			Severity: severity,
			Count:    len(matches),
			Matches:  matches,
		})
		totalSeverity += severity
	}

	return CategoryBiasResult{
		Score:    min(1, totalSeverity/2),
		Findings: findings,
	}
}
