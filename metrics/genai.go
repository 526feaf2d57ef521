/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry instruments for judge calls.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI records token usage and judge-call counts. The meter name is unified
// across all executors, with the model name as a dimension. Uses graceful
// degradation: if an instrument fails to initialize, a no-op counter is used
// instead of failing the executor.
type GenAI struct {
	meter            metric.Meter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	judgeCalls       metric.Int64Counter
}

// NewGenAI creates a GenAI metrics instance with the specified meter name.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	judgeCalls, err := meter.Int64Counter("genai.judge.calls",
		metric.WithDescription("The number of judge invocations"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create judge calls counter, metrics will be disabled", "error", err, "meter", meterName)
		judgeCalls = noop.Int64Counter{}
	}

	return &GenAI{
		meter:            meter,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		judgeCalls:       judgeCalls,
	}
}

// RecordTokens records prompt and completion token usage for a model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, inputTokens, outputTokens int64) {
	attrs := metric.WithAttributes(attribute.String("model", model))
	if inputTokens > 0 {
		m.promptTokens.Add(ctx, inputTokens, attrs)
	}
	if outputTokens > 0 {
		m.completionTokens.Add(ctx, outputTokens, attrs)
	}
}

// RecordJudgeCall records a single judge invocation for a model and criterion.
func (m *GenAI) RecordJudgeCall(ctx context.Context, model, criterion string) {
	m.judgeCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("criterion", criterion),
	))
}
