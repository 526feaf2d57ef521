/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scanners

import "strings"

// Heuristics over a judge's own reasoning text: too-brief justifications,
// absolute language, and first-person opinion markers all reduce confidence
// that the evaluation itself was fair.
var (
	absoluteTerms  = []string{"always", "never", "everyone", "no one", "completely", "totally"}
	opinionMarkers = []string{"i think", "i believe", "in my opinion", "i feel"}
)

const (
	minReasoningWords      = 20
	briefReasoningSeverity = 0.6
	absoluteLangSeverity   = 0.3
	subjectiveSeverity     = 0.5
	fairnessPassingScore   = 0.7
)

// FairnessIssue is one problem found in evaluation reasoning.
type FairnessIssue struct {
	Type        string  `json:"type"`
	Severity    float64 `json:"severity"`
	Description string  `json:"description"`
}

// FairnessResult reports how fair and well-justified a piece of evaluation
// reasoning appears.
type FairnessResult struct {
	// Score = max(0, 1 - totalSeverity/2).
	Score  float64         `json:"score"`
	IsFair bool            `json:"is_fair"`
	Issues []FairnessIssue `json:"issues,omitempty"`
}

// Fairness audits the reasoning a judge gave for a score.
func Fairness(reasoning string) FairnessResult {
	lower := strings.ToLower(reasoning)
	var issues []FairnessIssue

	if words := len(strings.Fields(reasoning)); words < minReasoningWords {
		issues = append(issues, FairnessIssue{
			Type:        "insufficient_reasoning",
			Severity:    briefReasoningSeverity,
			Description: "reasoning is too brief to justify the score",
		})
	}

	var absolutes []string
	for _, term := range absoluteTerms {
		if strings.Contains(lower, term) {
			absolutes = append(absolutes, term)
		}
	}
	if len(absolutes) > 0 {
		issues = append(issues, FairnessIssue{
			Type:        "absolute_language",
			Severity:    absoluteLangSeverity,
			Description: "contains absolute terms: " + strings.Join(absolutes, ", "),
		})
	}

	for _, marker := range opinionMarkers {
		if strings.Contains(lower, marker) {
			issues = append(issues, FairnessIssue{
				Type:        "subjective_reasoning",
				Severity:    subjectiveSeverity,
				Description: "reasoning states personal opinion rather than objective criteria",
			})
			break
		}
	}

	score := 1.0
	if len(issues) > 0 {
		var total float64
		for _, issue := range issues {
			total += issue.Severity
		}
		score = max(0, 1-total/2)
	}

	return FairnessResult{
		Score:  score,
		IsFair: score > fairnessPassingScore,
		Issues: issues,
	}
}
