/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"

	"chainguard.dev/qaeval/executor/claudeexecutor"
	"chainguard.dev/qaeval/metrics"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// claude implements Interface using Claude, either via Vertex AI or the
// direct Anthropic API depending on configuration.
type claude struct {
	exec  claudeexecutor.Interface[*Request, *Score]
	model string
	stats *metrics.GenAI
}

// newClaude creates a new Claude judge instance
func newClaude(ctx context.Context, o *options, model string) (Interface, error) {
	var client anthropic.Client
	switch {
	case o.projectID != "":
		client = anthropic.NewClient(
			vertex.WithGoogleAuth(ctx, o.region, o.projectID),
		)
	case o.apiKey != "":
		client = anthropic.NewClient(option.WithAPIKey(o.apiKey))
	default:
		// Ambient credentials (ANTHROPIC_API_KEY).
		client = anthropic.NewClient()
	}

	execOpts := []claudeexecutor.Option[*Request, *Score]{
		claudeexecutor.WithModel[*Request, *Score](model),
		claudeexecutor.WithMaxTokens[*Request, *Score](o.maxTokens),
		claudeexecutor.WithTemperature[*Request, *Score](o.temperature),
	}
	if o.retryConfig != nil {
		execOpts = append(execOpts, claudeexecutor.WithRetryConfig[*Request, *Score](*o.retryConfig))
	}

	exec, err := claudeexecutor.New[*Request, *Score](client, scoringPrompt, execOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create claude executor: %w", err)
	}

	return &claude{
		exec:  exec,
		model: model,
		stats: metrics.NewGenAI("chainguard.qaeval"),
	}, nil
}

// Judge implements Interface
func (c *claude) Judge(ctx context.Context, request *Request) (*Score, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}

	c.stats.RecordJudgeCall(ctx, c.model, request.CriterionName)

	score, err := c.exec.Execute(ctx, request)
	if err != nil {
		return nil, classifyError(err)
	}
	score.clamp()
	return score, nil
}
