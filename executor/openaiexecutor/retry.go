/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"

	"chainguard.dev/qaeval/result"
	"github.com/openai/openai-go"
)

// isRetryableOpenAIError checks if an error is worth retrying: rate limit
// and transient server errors, plus malformed responses.
func isRetryableOpenAIError(err error) bool {
	if errors.Is(err, result.ErrMalformed) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
