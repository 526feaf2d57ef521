/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria_test

import (
	"errors"
	"strings"
	"testing"

	"chainguard.dev/qaeval/criteria"
	"github.com/google/go-cmp/cmp"
)

func rubric() []criteria.Criterion {
	return []criteria.Criterion{
		{Name: "CITATION", Weight: 60, HardMin: 70, Description: "Citations are accurate"},
		{Name: "CLARITY", Weight: 40, HardMin: 50, Description: "Answer is clear"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		criteria []criteria.Criterion
		wantErr  bool
	}{{
		name:     "valid rubric",
		criteria: rubric(),
	}, {
		name:     "weights within tolerance",
		criteria: []criteria.Criterion{{Name: "A", Weight: 50.005, HardMin: 0}, {Name: "B", Weight: 49.999, HardMin: 0}},
	}, {
		name:    "empty rubric",
		wantErr: true,
	}, {
		name:     "duplicate names",
		criteria: []criteria.Criterion{{Name: "A", Weight: 50}, {Name: "A", Weight: 50}},
		wantErr:  true,
	}, {
		name:     "blank name",
		criteria: []criteria.Criterion{{Name: "  ", Weight: 100}},
		wantErr:  true,
	}, {
		name:     "zero weight",
		criteria: []criteria.Criterion{{Name: "A", Weight: 0}, {Name: "B", Weight: 100}},
		wantErr:  true,
	}, {
		name:     "weights off by more than tolerance",
		criteria: []criteria.Criterion{{Name: "A", Weight: 60}, {Name: "B", Weight: 39.9}},
		wantErr:  true,
	}, {
		name:     "hard minimum above 100",
		criteria: []criteria.Criterion{{Name: "A", Weight: 100, HardMin: 101}},
		wantErr:  true,
	}, {
		name:     "negative hard minimum",
		criteria: []criteria.Criterion{{Name: "A", Weight: 100, HardMin: -1}},
		wantErr:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := criteria.Validate(tt.criteria)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, criteria.ErrInvalidCriteria) {
				t.Errorf("error %v is not ErrInvalidCriteria", err)
			}
		})
	}
}

func TestWeightedScore(t *testing.T) {
	t.Parallel()
	scores := map[string]float64{"CITATION": 80, "CLARITY": 40}

	// (80*60 + 40*40) / 100 = 64
	if got := criteria.WeightedScore(scores, rubric()); got != 64 {
		t.Errorf("WeightedScore = %v, want 64", got)
	}
}

func TestWeightedScoreOrderInvariant(t *testing.T) {
	t.Parallel()
	scores := map[string]float64{"CITATION": 80, "CLARITY": 40}
	forward := rubric()
	reversed := []criteria.Criterion{forward[1], forward[0]}

	if a, b := criteria.WeightedScore(scores, forward), criteria.WeightedScore(scores, reversed); a != b {
		t.Errorf("WeightedScore is order dependent: %v vs %v", a, b)
	}
}

func TestWeightedScorePartialAndEmpty(t *testing.T) {
	t.Parallel()
	// Only CITATION scored: weighted mean collapses to its score.
	if got := criteria.WeightedScore(map[string]float64{"CITATION": 90}, rubric()); got != 90 {
		t.Errorf("WeightedScore with one match = %v, want 90", got)
	}
	if got := criteria.WeightedScore(map[string]float64{"UNKNOWN": 90}, rubric()); got != 0 {
		t.Errorf("WeightedScore with no match = %v, want 0", got)
	}
}

func TestCheckHardMinimums(t *testing.T) {
	t.Parallel()
	passed, failed := criteria.CheckHardMinimums(map[string]float64{"CITATION": 80, "CLARITY": 40}, rubric())
	if passed {
		t.Error("expected hard-minimum failure")
	}
	if diff := cmp.Diff([]string{"CLARITY"}, failed); diff != "" {
		t.Errorf("failed names mismatch (-want +got):\n%s", diff)
	}

	// Exactly at the floor passes; strictly below fails.
	passed, failed = criteria.CheckHardMinimums(map[string]float64{"CITATION": 70, "CLARITY": 50}, rubric())
	if !passed || len(failed) != 0 {
		t.Errorf("boundary scores should pass, got failed=%v", failed)
	}
}

func TestCheckHardMinimumsDeterministicOrder(t *testing.T) {
	t.Parallel()
	crit := []criteria.Criterion{
		{Name: "A", Weight: 25, HardMin: 90},
		{Name: "B", Weight: 25, HardMin: 90},
		{Name: "C", Weight: 25, HardMin: 90},
		{Name: "D", Weight: 25, HardMin: 90},
	}
	scores := map[string]float64{"A": 10, "B": 10, "C": 10, "D": 10}

	for range 20 {
		_, failed := criteria.CheckHardMinimums(scores, crit)
		if diff := cmp.Diff([]string{"A", "B", "C", "D"}, failed); diff != "" {
			t.Fatalf("failed names not in criteria order (-want +got):\n%s", diff)
		}
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		weighted    float64
		hardsPassed bool
		failedNames []string
		threshold   float64
		wantVerdict criteria.Verdict
		wantInReason string
	}{{
		name:        "pass",
		weighted:    90,
		hardsPassed: true,
		threshold:   85,
		wantVerdict: criteria.VerdictPass,
	}, {
		name:         "hard minimum failure takes precedence",
		weighted:     90,
		hardsPassed:  false,
		failedNames:  []string{"CLARITY"},
		threshold:    85,
		wantVerdict:  criteria.VerdictReject,
		wantInReason: "CLARITY",
	}, {
		name:         "threshold failure",
		weighted:     64,
		hardsPassed:  true,
		threshold:    85,
		wantVerdict:  criteria.VerdictReject,
		wantInReason: "64.0",
	}, {
		name:        "exactly at threshold passes",
		weighted:    85,
		hardsPassed: true,
		threshold:   85,
		wantVerdict: criteria.VerdictPass,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verdict, reason := criteria.Decide(tt.weighted, tt.hardsPassed, tt.failedNames, tt.threshold)
			if verdict != tt.wantVerdict {
				t.Errorf("Decide verdict = %v, want %v", verdict, tt.wantVerdict)
			}
			if tt.wantInReason != "" && !strings.Contains(reason, tt.wantInReason) {
				t.Errorf("Decide reason = %q, want it to mention %q", reason, tt.wantInReason)
			}
			if tt.wantVerdict == criteria.VerdictPass && reason != "" {
				t.Errorf("pass verdict has non-empty reason %q", reason)
			}
		})
	}
}
