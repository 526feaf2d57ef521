/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"

	"chainguard.dev/qaeval/executor/openaiexecutor"
	"chainguard.dev/qaeval/metrics"
	"chainguard.dev/qaeval/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// gpt implements Interface using OpenAI chat and reasoning models.
type gpt struct {
	exec  openaiexecutor.Interface[*Request, *Score]
	model string
	stats *metrics.GenAI
}

// newOpenAI creates a new OpenAI judge instance
func newOpenAI(o *options, model string) (Interface, error) {
	var clientOpts []option.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(o.apiKey))
	}
	// With no explicit key, the client uses OPENAI_API_KEY.
	client := openai.NewClient(clientOpts...)

	execOpts := []openaiexecutor.Option[*Request, *Score]{
		openaiexecutor.WithModel[*Request, *Score](model),
		openaiexecutor.WithMaxTokens[*Request, *Score](o.maxTokens),
		openaiexecutor.WithTemperature[*Request, *Score](o.temperature),
		openaiexecutor.WithResponseSchema[*Request, *Score](schema.ReflectType[Score]()),
	}
	if o.retryConfig != nil {
		execOpts = append(execOpts, openaiexecutor.WithRetryConfig[*Request, *Score](*o.retryConfig))
	}

	exec, err := openaiexecutor.New[*Request, *Score](client, scoringPrompt, execOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai executor: %w", err)
	}

	return &gpt{
		exec:  exec,
		model: model,
		stats: metrics.NewGenAI("chainguard.qaeval"),
	}, nil
}

// Judge implements Interface
func (g *gpt) Judge(ctx context.Context, request *Request) (*Score, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}

	g.stats.RecordJudgeCall(ctx, g.model, request.CriterionName)

	score, err := g.exec.Execute(ctx, request)
	if err != nil {
		return nil, classifyError(err)
	}
	score.clamp()
	return score, nil
}
