/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"

	"chainguard.dev/qaeval/executor/googleexecutor"
	"chainguard.dev/qaeval/metrics"
	"google.golang.org/genai"
)

// google implements Interface using Gemini, either via Vertex AI or the
// Gemini API depending on configuration.
type google struct {
	exec  googleexecutor.Interface[*Request, *Score]
	model string
	stats *metrics.GenAI
}

// scoreSchema constrains Gemini output to the Score shape.
var scoreSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score": {
			Type:        genai.TypeNumber,
			Description: "Score from 0 to 100",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Explanation of the score",
		},
		"issues": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"score", "reasoning"},
}

// newGoogle creates a new Gemini judge instance
func newGoogle(ctx context.Context, o *options, model string) (Interface, error) {
	cc := &genai.ClientConfig{}
	switch {
	case o.projectID != "":
		cc.Project = o.projectID
		cc.Location = o.region
		cc.Backend = genai.BackendVertexAI
	case o.apiKey != "":
		cc.APIKey = o.apiKey
		cc.Backend = genai.BackendGeminiAPI
	}
	// With an empty config the client resolves backend and credentials from
	// the environment.
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	execOpts := []googleexecutor.Option[*Request, *Score]{
		googleexecutor.WithModel[*Request, *Score](model),
		googleexecutor.WithMaxOutputTokens[*Request, *Score](int32(o.maxTokens)),
		googleexecutor.WithTemperature[*Request, *Score](float32(o.temperature)),
		googleexecutor.WithResponseSchema[*Request, *Score](scoreSchema),
	}
	if o.retryConfig != nil {
		execOpts = append(execOpts, googleexecutor.WithRetryConfig[*Request, *Score](*o.retryConfig))
	}

	exec, err := googleexecutor.New[*Request, *Score](client, scoringPrompt, execOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google executor: %w", err)
	}

	return &google{
		exec:  exec,
		model: model,
		stats: metrics.NewGenAI("chainguard.qaeval"),
	}, nil
}

// Judge implements Interface
func (g *google) Judge(ctx context.Context, request *Request) (*Score, error) {
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
