/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedModel reports a model name that no configured provider
	// recognizes.
	ErrUnsupportedModel = errors.New("unsupported judge model")

	// ErrMalformedResponse reports that the judge returned output that could
	// not be parsed into a Score, even after retries.
	ErrMalformedResponse = errors.New("malformed judge response")

	// ErrJudgeUnavailable reports that the judge provider could not be
	// reached or kept failing after retries.
	ErrJudgeUnavailable = errors.New("judge unavailable")
)

// Request contains the context for scoring one answer against one criterion.
type Request struct {
	// Question is the question that was asked.
	Question string `json:"question"`

	// Answer is the answer to evaluate.
	Answer string `json:"answer"`

	// CriterionName identifies the criterion being scored.
	CriterionName string `json:"criterion_name"`

	// CriterionDescription tells the judge what the criterion measures.
	CriterionDescription string `json:"criterion_description,omitempty"`

	// Domain selects domain-specific scoring guidance (legal, medical,
	// finance). Unknown domains fall back to general guidance.
	Domain string `json:"domain,omitempty"`
}

// validate checks the request has the fields every provider needs.
func (r *Request) validate() error {
	if r.Question == "" {
		return errors.New("question is required")
	}
	if r.Answer == "" {
		return errors.New("answer is required")
	}
	if r.CriterionName == "" {
		return errors.New("criterion_name is required")
	}
	return nil
}

// Score is a judge's verdict on one criterion.
type Score struct {
	// Score is the judgment metric from 0 (awful) to 100 (ideal).
	// Out-of-range model output is clamped into this range.
	Score float64 `json:"score"`

	// Reasoning explains the score.
	Reasoning string `json:"reasoning"`

	// Issues lists the concrete problems that lowered the score.
	Issues IssueList `json:"issues,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. A response missing the score
// or reasoning field fails to decode instead of producing a fabricated
// zero score, so the caller can retry for a fresh sample.
func (s *Score) UnmarshalJSON(data []byte) error {
	var raw struct {
		Score     *float64  `json:"score"`
		Reasoning *string   `json:"reasoning"`
		Issues    IssueList `json:"issues"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Score == nil {
		return errors.New(`missing required field "score"`)
	}
	if raw.Reasoning == nil {
		return errors.New(`missing required field "reasoning"`)
	}
	s.Score = *raw.Score
	s.Reasoning = *raw.Reasoning
	s.Issues = raw.Issues
	return nil
}

// clamp forces the score into [0, 100]. Models occasionally return scores
// outside the requested range despite instructions.
func (s *Score) clamp() {
	s.Score = min(100, max(0, s.Score))
}

// String returns a formatted representation of the score
func (s *Score) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.1f", s.Score))
	if s.Reasoning != "" {
		sb.WriteString(fmt.Sprintf(" - %s", s.Reasoning))
	}
	for _, issue := range s.Issues {
		sb.WriteString(fmt.Sprintf("\n  Issue: %s", issue))
	}
	return sb.String()
}

// IssueList tolerates the shapes models actually emit for "issues": an array
// of strings, a bare string, an array of objects, or null. Everything is
// coerced into a flat string list rather than failing the whole judgment.
type IssueList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *IssueList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = nil
	case string:
		*l = IssueList{v}
	case []any:
		issues := make(IssueList, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				issues = append(issues, it)
			default:
				issues = append(issues, fmt.Sprintf("%v", it))
			}
		}
		*l = issues
	default:
		*l = IssueList{fmt.Sprintf("%v", v)}
	}
	return nil
}

// Interface defines the contract for judge implementations
type Interface interface {
	// Judge scores the answer in the request against its criterion.
	Judge(ctx context.Context, request *Request) (*Score, error)
}
