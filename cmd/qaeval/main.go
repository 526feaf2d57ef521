/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the qaeval command, which evaluates a batch of
// question/answer pairs against a weighted rubric using an LLM judge and
// prints a verdict report.
//
// Usage:
//
//	qaeval request.json
//
// The request file holds the qa_pairs, criteria, and optional domain and
// global_threshold fields. Provider credentials come from the environment
// (ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY, or Vertex project
// settings below).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/qaeval/evaluator"
	"chainguard.dev/qaeval/history"
	"chainguard.dev/qaeval/judge"
	"chainguard.dev/qaeval/safety"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	// Model selects the judge; the prefix picks the provider.
	Model string `env:"QAEVAL_MODEL,default=gpt-4o"`
	// APIKey overrides the provider's ambient credential lookup.
	APIKey string `env:"QAEVAL_API_KEY"`

	// VertexProject and VertexRegion route Claude and Gemini judges through
	// Vertex AI instead of the direct APIs.
	VertexProject string `env:"QAEVAL_VERTEX_PROJECT"`
	VertexRegion  string `env:"QAEVAL_VERTEX_REGION,default=us-central1"`

	GlobalThreshold float64       `env:"QAEVAL_GLOBAL_THRESHOLD,default=85"`
	MaxInFlight     int64         `env:"QAEVAL_MAX_IN_FLIGHT,default=8"`
	PairTimeout     time.Duration `env:"QAEVAL_PAIR_TIMEOUT,default=2m"`

	// SafetyGate toggles adversarial gating of answers before judging.
	SafetyGate bool `env:"QAEVAL_SAFETY_GATE,default=true"`
	// ConstitutionalChecks additionally runs the Claude-backed principle
	// checker inside the gate. Requires Anthropic credentials.
	ConstitutionalChecks bool `env:"QAEVAL_CONSTITUTIONAL_CHECKS,default=false"`

	HistoryCapacity int `env:"QAEVAL_HISTORY_CAPACITY,default=256"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: qaeval <request.json>")
		os.Exit(2)
	}

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	req, err := readRequest(flag.Arg(0))
	if err != nil {
		clog.FatalContextf(ctx, "reading request: %v", err)
	}

	e, err := buildEvaluator(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "building evaluator: %v", err)
	}

	clog.InfoContextf(ctx, "Evaluating %d pair(s) with model %s", len(req.Pairs), cfg.Model)
	resp, err := e.Evaluate(ctx, req)
	if err != nil {
		clog.FatalContextf(ctx, "evaluation failed: %v", err)
	}

	render(os.Stdout, resp)
	if resp.Summary.Failed > 0 {
		os.Exit(1)
	}
}

// readRequest loads and decodes the batch request file.
func readRequest(path string) (*evaluator.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var req evaluator.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &req, nil
}

// buildEvaluator wires the judge, gate, and history from configuration.
func buildEvaluator(ctx context.Context, cfg config) (*evaluator.Evaluator, error) {
	var judgeOpts []judge.Option
	if cfg.VertexProject != "" {
		judgeOpts = append(judgeOpts, judge.WithVertexProject(cfg.VertexProject, cfg.VertexRegion))
	}
	if cfg.APIKey != "" {
		judgeOpts = append(judgeOpts, judge.WithAPIKey(cfg.APIKey))
	}
	j, err := judge.New(ctx, cfg.Model, judgeOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating judge: %w", err)
	}

	opts := []evaluator.Option{
		evaluator.WithConfig(evaluator.Config{
			GlobalThreshold: cfg.GlobalThreshold,
			WeightTolerance: evaluator.DefaultConfig().WeightTolerance,
			MaxInFlight:     cfg.MaxInFlight,
			PairTimeout:     cfg.PairTimeout,
		}),
	}

	if cfg.SafetyGate {
		var gateOpts []safety.GateOption
		if cfg.ConstitutionalChecks {
			checker, err := safety.NewClaudeChecker(anthropic.NewClient())
			if err != nil {
				return nil, fmt.Errorf("creating principle checker: %w", err)
			}
			gateOpts = append(gateOpts, safety.WithChecker(checker))
		}
		opts = append(opts, evaluator.WithGate(safety.NewGate(gateOpts...)))
	}

	ring, err := history.NewRing(cfg.HistoryCapacity)
	if err != nil {
		return nil, fmt.Errorf("creating history ring: %w", err)
	}
	opts = append(opts, evaluator.WithHistory(ring))

	return evaluator.New(j, opts...)
}
