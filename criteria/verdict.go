/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criteria

import (
	"fmt"
	"strings"
)

// Verdict is the terminal pass/reject classification of one QA pair.
type Verdict string

const (
	// VerdictPass indicates every hard minimum was met and the weighted
	// score reached the global threshold.
	VerdictPass Verdict = "PASS"
	// VerdictReject indicates a hard-minimum or threshold failure.
	VerdictReject Verdict = "REJECT"
)

// Decide applies the verdict policy: hard-minimum failures reject first
// (reason lists all failed names), then a weighted score below the global
// threshold rejects (reason states the shortfall), otherwise pass.
// The returned reason is empty on pass.
func Decide(weightedScore float64, hardMinsPassed bool, failedNames []string, globalThreshold float64) (Verdict, string) {
	if !hardMinsPassed {
		return VerdictReject, fmt.Sprintf("Failed hard minimum on: %s", strings.Join(failedNames, ", "))
	}
	if weightedScore < globalThreshold {
		return VerdictReject, fmt.Sprintf("Weighted score %.1f below threshold %g", weightedScore, globalThreshold)
	}
	return VerdictPass, ""
}
