/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge scores question/answer pairs against rubric criteria using
// LLM providers. Provider selection is driven by an explicit model table
// rather than ad-hoc name sniffing, so adding a provider means adding a
// table entry, not another string comparison.
package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/qaeval/executor/retry"
	"chainguard.dev/qaeval/result"
)

// ProviderKind identifies a judge provider backend.
type ProviderKind int

const (
	// ProviderUnknown is the zero value; Lookup never returns it with ok=true.
	ProviderUnknown ProviderKind = iota
	// ProviderAnthropic routes to Claude models.
	ProviderAnthropic
	// ProviderOpenAI routes to GPT and o-series models.
	ProviderOpenAI
	// ProviderGoogle routes to Gemini models.
	ProviderGoogle
)

// String implements fmt.Stringer.
func (k ProviderKind) String() string {
	switch k {
	case ProviderAnthropic:
		return "anthropic"
	case ProviderOpenAI:
		return "openai"
	case ProviderGoogle:
		return "google"
	default:
		return "unknown"
	}
}

// prefixEntry maps a model-name prefix to its provider.
type prefixEntry struct {
	prefix string
	kind   ProviderKind
}

// ModelTable resolves model names to providers by prefix. The table is
// ordered; the first matching prefix wins.
type ModelTable struct {
	entries []prefixEntry
}

// DefaultModelTable returns the table of known model families.
func DefaultModelTable() *ModelTable {
	return &ModelTable{entries: []prefixEntry{
		{prefix: "claude-", kind: ProviderAnthropic},
		{prefix: "gpt-", kind: ProviderOpenAI},
		{prefix: "o1", kind: ProviderOpenAI},
		{prefix: "o3", kind: ProviderOpenAI},
		{prefix: "o4", kind: ProviderOpenAI},
		{prefix: "gemini-", kind: ProviderGoogle},
	}}
}

// Lookup resolves a model name to its provider.
func (t *ModelTable) Lookup(model string) (ProviderKind, bool) {
	for _, e := range t.entries {
		if strings.HasPrefix(model, e.prefix) {
			return e.kind, true
		}
	}
	return ProviderUnknown, false
}

// options holds provider construction settings.
type options struct {
	table       *ModelTable
	projectID   string
	region      string
	apiKey      string
	maxTokens   int64
	temperature float64
	retryConfig *retry.Config
}

// Option configures judge construction.
type Option func(*options) error

// WithModelTable overrides the default model table.
func WithModelTable(table *ModelTable) Option {
	return func(o *options) error {
		if table == nil {
			return errors.New("model table cannot be nil")
		}
		o.table = table
		return nil
	}
}

// WithVertexProject routes Anthropic and Google calls through Vertex AI in
// the given project and region.
func WithVertexProject(projectID, region string) Option {
	return func(o *options) error {
		if projectID == "" || region == "" {
			return errors.New("project ID and region are both required")
		}
		o.projectID = projectID
		o.region = region
		return nil
	}
}

// WithAPIKey sets an explicit API key for direct provider APIs. Without it,
// providers fall back to their ambient credential environment variables.
func WithAPIKey(key string) Option {
	return func(o *options) error {
		o.apiKey = key
		return nil
	}
}

// WithMaxTokens sets the maximum response tokens for judge calls.
func WithMaxTokens(tokens int64) Option {
	return func(o *options) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		o.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature for judge calls.
func WithTemperature(temp float64) Option {
	return func(o *options) error {
		if temp < 0 || temp > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		o.temperature = temp
		return nil
	}
}

// WithRetryConfig overrides the default retry behavior for judge calls.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.retryConfig = &cfg
		return nil
	}
}

// New creates a judge for the given model, dispatching to the provider the
// model table names. Returns ErrUnsupportedModel for model names outside
// the table.
func New(ctx context.Context, model string, opts ...Option) (Interface, error) {
	o := &options{
		table:       DefaultModelTable(),
		maxTokens:   2048,
		temperature: 0.1,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	kind, ok := o.table.Lookup(model)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, model)
	}

	switch kind {
	case ProviderAnthropic:
		return newClaude(ctx, o, model)
	case ProviderOpenAI:
		return newOpenAI(o, model)
	case ProviderGoogle:
		return newGoogle(ctx, o, model)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, model)
	}
}

// classifyError maps executor failures onto the judge error taxonomy.
// Context cancellation passes through untouched so callers can tell a
// timeout apart from a provider outage.
func classifyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, result.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}
}
