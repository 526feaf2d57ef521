/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"strings"
	"testing"

	"chainguard.dev/qaeval/criteria"
	"chainguard.dev/qaeval/evaluator"
)

func TestRender(t *testing.T) {
	t.Parallel()
	resp := &evaluator.Response{
		Evaluations: []evaluator.QAEvaluation{{
			ID:       1,
			Question: "What is the notice period?",
			Answer:   "Thirty days.",
			Scores: []evaluator.CriterionScore{
				{Name: "accuracy", Score: 92.5, Weight: 60, Passed: true},
				{Name: "clarity", Score: 70, Weight: 40, Passed: false, Issues: []string{"missing citation"}},
			},
			WeightedScore: 83.5,
			Verdict:       criteria.VerdictReject,
			Reason:        "Failed hard minimum on: clarity",
		}},
		Summary: evaluator.Summary{Total: 1, Failed: 1, AvgScore: 83.5},
	}

	var buf bytes.Buffer
	render(&buf, resp)
	out := buf.String()

	for _, want := range []string{
		"QA #1",
		"REJECT",
		"Failed hard minimum on: clarity",
		"accuracy",
		"92.5",
		"missing citation",
		"## Summary",
		"83.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatNotesEmpty(t *testing.T) {
	t.Parallel()
	if got := formatNotes(evaluator.CriterionScore{}); got != "-" {
		t.Errorf("formatNotes() = %q, want \"-\"", got)
	}
}
