/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeexecutor provides a generic single-shot executor for Claude
// models that returns structured JSON responses.
//
// The executor handles:
//   - Prompt rendering from templates
//   - Retry with exponential backoff on transient API errors
//   - JSON response parsing, with malformed responses retried
//   - Token usage metrics
//
// # Basic Usage
//
// Create an executor with a client and prompt template:
//
//	client := anthropic.NewClient(
//	    vertex.WithGoogleAuth(ctx, region, projectID),
//	)
//
//	exec, err := claudeexecutor.New[*Request, *Response](
//	    client,
//	    prompt,
//	    claudeexecutor.WithModel[*Request, *Response]("claude-sonnet-4@20250514"),
//	    claudeexecutor.WithMaxTokens[*Request, *Response](4096),
//	)
//	if err != nil {
//	    return nil, err
//	}
//
//	response, err := exec.Execute(ctx, request)
//
// The Response type is parsed from the model's text output, which may be
// wrapped in prose or markdown fences.
package claudeexecutor
