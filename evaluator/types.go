/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"chainguard.dev/qaeval/criteria"
	"chainguard.dev/qaeval/safety"
	"chainguard.dev/qaeval/scanners"
)

// QAPair is one question/answer pair to evaluate.
type QAPair struct {
	// ID identifies the pair in the response.
	ID int `json:"qa_id"`
	// Question is the question text.
	Question string `json:"question"`
	// Answer is the answer to evaluate.
	Answer string `json:"answer"`
}

// Request is a batch evaluation request.
type Request struct {
	// Pairs are the Q&A pairs to evaluate.
	Pairs []QAPair `json:"qa_pairs"`
	// Criteria is the rubric; weights must sum to 100.
	Criteria []criteria.Criterion `json:"criteria"`
	// Domain selects domain-specific judge guidance (optional).
	Domain string `json:"domain,omitempty"`
	// GlobalThreshold overrides the evaluator's pass threshold for this
	// request. Zero is the unset sentinel and selects the evaluator's
	// configured threshold; to reject on hard minimums only, configure the
	// evaluator itself with a zero threshold instead of setting it here.
	GlobalThreshold float64 `json:"global_threshold,omitempty"`
}

// CriterionScore is one criterion's judgment for a pair.
type CriterionScore struct {
	// Name is the criterion name.
	Name string `json:"name"`
	// Score is the judge's score in [0, 100].
	Score float64 `json:"score"`
	// Weight echoes the criterion weight for report rendering.
	Weight float64 `json:"weight"`
	// Passed is true when the score met the criterion's hard minimum.
	Passed bool `json:"passed"`
	// Reasoning is the judge's explanation.
	Reasoning string `json:"reasoning"`
	// Issues are the judge's reported problems.
	Issues []string `json:"issues,omitempty"`
	// FairnessIssues flag problems in the judge's own reasoning (too
	// brief, absolute language, stated opinion).
	FairnessIssues []scanners.FairnessIssue `json:"fairness_issues,omitempty"`
}

// QAEvaluation is the outcome for one pair. A pair that could not be
// evaluated carries a REJECT verdict with the failure in Reason; errors
// never abort sibling pairs.
type QAEvaluation struct {
	ID            int              `json:"qa_id"`
	Question      string           `json:"question"`
	Answer        string           `json:"answer"`
	Scores        []CriterionScore `json:"scores,omitempty"`
	WeightedScore float64          `json:"weighted_score"`
	Verdict       criteria.Verdict `json:"verdict"`
	// Reason explains a REJECT; empty on PASS.
	Reason string `json:"reason,omitempty"`
	// Safety is the gate report, present whenever the gate ran.
	Safety *safety.Report `json:"safety,omitempty"`
}

// Summary aggregates a batch's outcomes.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	// Blocked counts pairs rejected by the safety gate, a subset of Failed.
	Blocked int `json:"blocked"`
	// AvgScore is the mean weighted score across all pairs.
	AvgScore float64 `json:"avg_score"`
}

// Response is the complete batch result. Evaluations are ordered by input
// position regardless of completion order.
type Response struct {
	Evaluations []QAEvaluation `json:"evaluations"`
	Summary     Summary        `json:"summary"`
}
