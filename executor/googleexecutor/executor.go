/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/qaeval/executor/retry"
	"chainguard.dev/qaeval/metrics"
	"chainguard.dev/qaeval/promptbuilder"
	"chainguard.dev/qaeval/result"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// Interface defines the contract for single-shot Gemini execution.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	Execute(ctx context.Context, request Request) (Response, error)
}

// executor is the private implementation of Interface
type executor[Request promptbuilder.Bindable, Response any] struct {
	client             *genai.Client
	prompt             *promptbuilder.Prompt
	model              string
	temperature        float32
	maxOutputTokens    int32
	systemInstructions *promptbuilder.Prompt
	responseSchema     *genai.Schema
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates a new Gemini executor with the given configuration
func New[Request promptbuilder.Bindable, Response any](
	client *genai.Client,
	prompt *promptbuilder.Prompt,
	options ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt is required")
	}

	// Uses a unified meter across all executors, with model name as a dimension
	genaiMetrics := metrics.NewGenAI("chainguard.qaeval")

	exec := &executor[Request, Response]{
		client:          client,
		prompt:          prompt,
		model:           "gemini-2.5-flash", // Default to Gemini 2.5 Flash
		temperature:     0.1,                // Default temperature for consistency
		maxOutputTokens: 4096,
		genaiMetrics:    genaiMetrics,
		retryConfig:     retry.DefaultConfig(),
	}

	for _, opt := range options {
		if err := opt(exec); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return exec, nil
}

// Execute binds the request into the prompt, sends it, and parses the
// response. The model call and the parse are retried as a unit.
func (e *executor[Request, Response]) Execute(ctx context.Context, request Request) (resp Response, err error) {
	log := clog.FromContext(ctx)

	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return resp, fmt.Errorf("failed to bind request to prompt: %w", err)
	}

	prompt, err := boundPrompt.Build()
	if err != nil {
		return resp, fmt.Errorf("failed to build prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(e.temperature),
		MaxOutputTokens: e.maxOutputTokens,
		// Structured output: the model returns JSON directly.
		ResponseMIMEType: "application/json",
	}

	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return resp, fmt.Errorf("building system prompt: %w", err)
		}
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{
				Text: systemPrompt,
			}},
		}
	}

	if e.responseSchema != nil {
		config.ResponseSchema = e.responseSchema
	}

	log.With("model", e.model).
		With("prompt_length", len(prompt)).
		Debug("Starting Gemini execution")

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{{
			Text: prompt,
		}},
	}}

	return retry.Do(ctx, e.retryConfig, "gemini_generate", isRetryableVertexError, func() (Response, error) {
		var parsed Response

		response, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
		if err != nil {
			return parsed, err
		}

		if response.UsageMetadata != nil {
			e.genaiMetrics.RecordTokens(ctx, e.model,
				int64(response.UsageMetadata.PromptTokenCount),
				int64(response.UsageMetadata.CandidatesTokenCount))
		}

		if len(response.Candidates) == 0 {
			return parsed, fmt.Errorf("%w: no candidates in response", result.ErrMalformed)
		}
		candidate := response.Candidates[0]
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			return parsed, fmt.Errorf("%w: no content in candidate", result.ErrMalformed)
		}

		var responseText string
		for _, part := range candidate.Content.Parts {
			if !part.Thought && part.Text != "" {
				responseText = part.Text
			}
		}
		if responseText == "" {
			return parsed, fmt.Errorf("%w: no text content in response", result.ErrMalformed)
		}

		parsed, err = result.Extract[Response](responseText)
		if err != nil {
			log.With("response", responseText).
				With("error", err).
				Warn("Failed to parse Gemini response")
			return parsed, err
		}
		return parsed, nil
	})
}

// ptr is a helper function to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
