/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/qaeval/executor/retry"
	"chainguard.dev/qaeval/promptbuilder"
	"github.com/invopop/jsonschema"
)

// Option is a functional option for configuring the executor
type Option[Request promptbuilder.Bindable, Response any] func(*executor[Request, Response]) error

// WithModel allows overriding the model name
func WithModel[Request promptbuilder.Bindable, Response any](model string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if !strings.HasPrefix(model, "gpt-") && !isReasoningModel(model) {
			return fmt.Errorf("model %q does not appear to be an OpenAI model (expected gpt-* or o-series)", model)
		}
		e.modelName = model
		return nil
	}
}

// WithMaxTokens sets the maximum completion tokens for responses
func WithMaxTokens[Request promptbuilder.Bindable, Response any](tokens int64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the temperature for responses. Ignored for o-series
// reasoning models, which reject explicit sampling parameters.
func WithTemperature[Request promptbuilder.Bindable, Response any](temp float64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithSystemInstructions sets custom system instructions. For o-series
// reasoning models the instructions are folded into the user message.
func WithSystemInstructions[Request promptbuilder.Bindable, Response any](prompt *promptbuilder.Prompt) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.systemInstructions = prompt
		return nil
	}
}

// WithResponseSchema constrains responses to a JSON schema instead of the
// default free-form JSON object mode. Ignored for o-series reasoning models.
func WithResponseSchema[Request promptbuilder.Bindable, Response any](s *jsonschema.Schema) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if s == nil {
			return errors.New("response schema cannot be nil")
		}
		e.responseSchema = s
		return nil
	}
}

// WithRetryConfig sets the retry configuration for handling transient OpenAI
// API errors and malformed responses. If not set, a default configuration is used.
func WithRetryConfig[Request promptbuilder.Bindable, Response any](cfg retry.Config) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
