/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleexecutor provides a generic single-shot executor for Gemini
// models that returns structured JSON responses.
//
// Responses are requested as application/json; an optional response schema
// constrains the output shape. Transient API errors and malformed responses
// are retried with exponential backoff.
package googleexecutor
