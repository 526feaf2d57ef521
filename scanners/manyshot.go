/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scanners

import (
	"regexp"
	"strings"
)

// Many-shot prompting stuffs a long fabricated dialogue into the input to
// steer the judge. Two signals: the raw count of dialogue-role markers, and
// the count of adjacent question/answer line pairs.
var dialogueMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bQ:\s*`),
	regexp.MustCompile(`(?i)\bA:\s*`),
	regexp.MustCompile(`(?i)\bQuestion:\s*`),
	regexp.MustCompile(`(?i)\bAnswer:\s*`),
	regexp.MustCompile(`(?i)\bHuman:\s*`),
	regexp.MustCompile(`(?i)\bAssistant:\s*`),
	regexp.MustCompile(`(?i)\bUser:\s*`),
	regexp.MustCompile(`(?i)\bAI:\s*`),
}

var (
	questionLineMarkers = []string{"q:", "question:", "human:", "user:"}
	answerLineMarkers   = []string{"a:", "answer:", "assistant:", "ai:"}
)

// ManyShotResult carries the many-shot score and its evidence.
type ManyShotResult struct {
	// Score is max(markerScore, exchangeScore) in [0, 1].
	Score float64 `json:"score"`
	// Markers is the total count of dialogue-role markers found.
	Markers int `json:"markers"`
	// Exchanges is the count of question-marker lines immediately followed
	// by an answer-marker line.
	Exchanges int `json:"exchanges"`
}

// ManyShot scores text for many-shot dialogue-injection patterns.
// markerScore = min(1, markers/20); exchangeScore = min(1, exchanges/10);
// the result is the max of the two.
func ManyShot(text string) ManyShotResult {
	var markers int
	for _, re := range dialogueMarkers {
		markers += len(re.FindAllStringIndex(text, -1))
	}

	lines := strings.Split(text, "\n")
	var exchanges int
	for i := 0; i < len(lines)-1; i++ {
		if containsAny(strings.ToLower(lines[i]), questionLineMarkers) &&
			containsAny(strings.ToLower(lines[i+1]), answerLineMarkers) {
			exchanges++
		}
	}

	markerScore := min(1, float64(markers)/20)
	exchangeScore := min(1, float64(exchanges)/10)

	return ManyShotResult{
		Score:     max(markerScore, exchangeScore),
		Markers:   markers,
		Exchanges: exchanges,
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
