/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/qaeval/executor/retry"
	"chainguard.dev/qaeval/metrics"
	"chainguard.dev/qaeval/promptbuilder"
	"chainguard.dev/qaeval/result"
	"github.com/chainguard-dev/clog"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// Interface is the public interface for single-shot OpenAI execution.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	Execute(ctx context.Context, request Request) (Response, error)
}

// executor provides the private implementation
type executor[Request promptbuilder.Bindable, Response any] struct {
	client             openai.Client
	modelName          string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	responseSchema     *jsonschema.Schema
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates a new Executor with minimal required configuration
func New[Request promptbuilder.Bindable, Response any](
	client openai.Client,
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
		modelName:    "gpt-4o",
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

// isReasoningModel reports whether the model is an o-series reasoning model.
// Those reject explicit temperature and system messages.
func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4")
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

	var systemPrompt string
	if e.systemInstructions != nil {
		systemPrompt, err = e.systemInstructions.Build()
		if err != nil {
			return response, fmt.Errorf("building system prompt: %w", err)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(e.modelName),
		MaxCompletionTokens: openai.Int(e.maxTokens),
	}

	if isReasoningModel(e.modelName) {
		// Reasoning models take a single user message and fixed sampling.
		if systemPrompt != "" {
			prompt = systemPrompt + "\n\n" + prompt
		}
		params.Messages = []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}
	} else {
		if systemPrompt != "" {
			params.Messages = append(params.Messages, openai.SystemMessage(systemPrompt))
		}
		params.Messages = append(params.Messages, openai.UserMessage(prompt))
		params.Temperature = openai.Float(e.temperature)
		if e.responseSchema != nil {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   "response",
						Schema: e.responseSchema,
					},
				},
			}
		} else {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			}
		}
	}

	log.With("model", e.modelName).
		With("prompt_length", len(prompt)).
		Debug("Starting OpenAI execution")

	return retry.Do(ctx, e.retryConfig, "openai_completion", isRetryableOpenAIError, func() (Response, error) {
		var resp Response

		completion, err := e.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return resp, err
		}

		if completion.Usage.PromptTokens > 0 || completion.Usage.CompletionTokens > 0 {
			e.genaiMetrics.RecordTokens(ctx, e.modelName,
				completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
		}

		if len(completion.Choices) == 0 {
			return resp, fmt.Errorf("%w: no choices in completion", result.ErrMalformed)
		}
		textContent := completion.Choices[0].Message.Content
		if textContent == "" {
			return resp, fmt.Errorf("%w: no text content in completion", result.ErrMalformed)
		}

		resp, err = result.Extract[Response](textContent)
		if err != nil {
			log.With("response", textContent).
				With("error", err).
				Warn("Failed to parse OpenAI response")
			return resp, err
		}
		return resp, nil
	})
}
