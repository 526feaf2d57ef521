/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor provides a generic single-shot executor for OpenAI
// models that returns structured JSON responses.
//
// Chat models are asked for JSON via response_format; o-series reasoning
// models get the instructions folded into the user message since they reject
// system messages and explicit sampling parameters. Transient API errors and
// malformed responses are retried with exponential backoff.
package openaiexecutor
