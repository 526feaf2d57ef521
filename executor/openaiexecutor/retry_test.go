/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"fmt"
	"testing"

	"chainguard.dev/qaeval/result"
	"github.com/openai/openai-go"
)

func TestIsRetryableOpenAIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "non-API error", err: fmt.Errorf("connection refused"), want: false},
		{name: "malformed response", err: fmt.Errorf("%w: truncated", result.ErrMalformed), want: true},
		{name: "429 rate limit", err: &openai.Error{StatusCode: 429}, want: true},
		{name: "500 internal error", err: &openai.Error{StatusCode: 500}, want: true},
		{name: "502 bad gateway", err: &openai.Error{StatusCode: 502}, want: true},
		{name: "503 unavailable", err: &openai.Error{StatusCode: 503}, want: true},
		{name: "504 gateway timeout", err: &openai.Error{StatusCode: 504}, want: true},
		{name: "wrapped 503", err: fmt.Errorf("calling model: %w", &openai.Error{StatusCode: 503}), want: true},
		{name: "400 bad request", err: &openai.Error{StatusCode: 400}, want: false},
		{name: "401 unauthorized", err: &openai.Error{StatusCode: 401}, want: false},
		{name: "404 model not found", err: &openai.Error{StatusCode: 404}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isRetryableOpenAIError(tt.err); got != tt.want {
				t.Errorf("isRetryableOpenAIError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsReasoningModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model string
		want  bool
	}{
		{model: "o1", want: true},
		{model: "o1-mini", want: true},
		{model: "o3-mini", want: true},
		{model: "o4-mini", want: true},
		{model: "gpt-4o", want: false},
		{model: "gpt-4o-mini", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			t.Parallel()
			if got := isReasoningModel(tt.model); got != tt.want {
				t.Errorf("isReasoningModel(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
