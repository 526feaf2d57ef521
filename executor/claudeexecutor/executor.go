/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/qaeval/executor/retry"
	"chainguard.dev/qaeval/metrics"
	"chainguard.dev/qaeval/promptbuilder"
	"chainguard.dev/qaeval/result"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// Interface is the public interface for single-shot Claude execution.
// The bound prompt is sent once and the response is parsed into Response;
// malformed responses are retried alongside transient API errors.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	Execute(ctx context.Context, request Request) (Response, error)
}

// executor provides the private implementation
type executor[Request promptbuilder.Bindable, Response any] struct {
	client             anthropic.Client
	modelName          string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates a new Executor with minimal required configuration
func New[Request promptbuilder.Bindable, Response any](
	client anthropic.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	// Uses a unified meter across all executors, with model name as a dimension
	genaiMetrics := metrics.NewGenAI("chainguard.qaeval")

	e := &executor[Request, Response]{
		client:       client,
		modelName:    "claude-sonnet-4@20250514", // Default to Sonnet 4
		prompt:       prompt,
		maxTokens:    4096,
		temperature:  0.1, // Default temperature for consistency
		genaiMetrics: genaiMetrics,
		retryConfig:  retry.DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return e, nil
}

// Execute binds the request into the prompt, sends it, and parses the
// response. The model call and the parse are retried as a unit.
func (e *executor[Request, Response]) Execute(ctx context.Context, request Request) (response Response, err error) {
	log := clog.FromContext(ctx)

	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return response, fmt.Errorf("failed to bind request to prompt: %w", err)
	}

	prompt, err := boundPrompt.Build()
	if err != nil {
		return response, fmt.Errorf("failed to build prompt: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.modelName),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt),
			},
		}},
	}
	params.Temperature = anthropic.Float(e.temperature)

	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return response, fmt.Errorf("building system prompt: %w", err)
		}
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	log.With("model", e.modelName).
		With("prompt_length", len(prompt)).
		Debug("Starting Claude execution")

	return retry.Do(ctx, e.retryConfig, "claude_message", isRetryableClaudeError, func() (Response, error) {
		var resp Response

		message, err := e.client.Messages.New(ctx, params)
		if err != nil {
			return resp, err
		}

		if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
			e.genaiMetrics.RecordTokens(ctx, e.modelName, message.Usage.InputTokens, message.Usage.OutputTokens)
		}

		var textContent string
		for _, content := range message.Content {
			if content.Type == "text" {
				textContent = content.Text
			}
		}
		if textContent == "" {
			return resp, fmt.Errorf("%w: no text content in Claude's response", result.ErrMalformed)
		}

		resp, err = result.Extract[Response](textContent)
		if err != nil {
			log.With("response", textContent).
				With("error", err).
				Warn("Failed to parse Claude response")
			return resp, err
		}
		return resp, nil
	})
}
