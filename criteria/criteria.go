/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package criteria validates evaluation rubrics and computes weighted
// scores, hard-minimum checks, and pass/reject verdicts from them.
// Everything here is pure: no I/O, no state.
package criteria

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidCriteria reports a malformed rubric. Surfaced before any remote
// call is made; never retried.
var ErrInvalidCriteria = errors.New("invalid criteria")

// DefaultWeightTolerance is the allowed floating-point deviation of the
// weight sum from 100. Policy constant, overridable via ValidateTolerance.
const DefaultWeightTolerance = 0.01

// Criterion is one weighted rubric entry. Weights across a rubric must sum
// to 100; HardMin is a floor score below which the pair is rejected
// regardless of the weighted average.
type Criterion struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	HardMin     float64 `json:"hard_min"`
	Description string  `json:"description"`
}

// Validate checks a rubric with the default weight tolerance.
func Validate(criteria []Criterion) error {
	return ValidateTolerance(criteria, DefaultWeightTolerance)
}

// ValidateTolerance checks that the rubric is non-empty, names are unique
// and non-blank, weights are positive and sum to 100 within tolerance, and
// hard minimums are within [0, 100].
func ValidateTolerance(criteria []Criterion, tolerance float64) error {
	if len(criteria) == 0 {
		return fmt.Errorf("%w: at least one criterion is required", ErrInvalidCriteria)
	}

	seen := make(map[string]struct{}, len(criteria))
	var totalWeight float64
	for _, c := range criteria {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: criterion name cannot be empty", ErrInvalidCriteria)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate criterion name %q", ErrInvalidCriteria, c.Name)
		}
		seen[c.Name] = struct{}{}

		if c.Weight <= 0 {
			return fmt.Errorf("%w: criterion %q has invalid weight %v", ErrInvalidCriteria, c.Name, c.Weight)
		}
		if c.HardMin < 0 || c.HardMin > 100 {
			return fmt.Errorf("%w: criterion %q has invalid hard minimum %v", ErrInvalidCriteria, c.Name, c.HardMin)
		}
		totalWeight += c.Weight
	}

	if math.Abs(totalWeight-100) > tolerance {
		return fmt.Errorf("%w: weights must sum to 100, got %.2f", ErrInvalidCriteria, totalWeight)
	}
	return nil
}

// WeightedScore computes the weighted mean of scores over the criteria
// present in the scores map. Returns 0 when no criterion matched.
func WeightedScore(scores map[string]float64, criteria []Criterion) float64 {
	var weightedSum, totalWeight float64
	for _, c := range criteria {
		if score, ok := scores[c.Name]; ok {
			weightedSum += score * c.Weight
			totalWeight += c.Weight
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// CheckHardMinimums reports whether every scored criterion met its hard
// minimum. Failed names follow the input criteria order so verdicts are
// reproducible regardless of map iteration order.
func CheckHardMinimums(scores map[string]float64, criteria []Criterion) (bool, []string) {
	var failed []string
	for _, c := range criteria {
		if score, ok := scores[c.Name]; ok && score < c.HardMin {
			failed = append(failed, c.Name)
		}
	}
	return len(failed) == 0, failed
}
