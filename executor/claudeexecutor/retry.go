/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"errors"

	"chainguard.dev/qaeval/result"
	"github.com/anthropics/anthropic-sdk-go"
)

// isRetryableClaudeError checks if an error is worth retrying: rate limit,
// overloaded, and transient server errors, plus malformed responses (a fresh
// sample often parses cleanly).
func isRetryableClaudeError(err error) bool {
	if errors.Is(err, result.ErrMalformed) {
		return true
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
