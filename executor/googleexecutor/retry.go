/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"strings"

	"chainguard.dev/qaeval/result"
)

// isRetryableVertexError checks if an error is worth retrying: rate limit,
// quota exhaustion, and transient server errors, plus malformed responses.
// The genai SDK does not expose structured status codes for all transports,
// so this matches on error text.
func isRetryableVertexError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, result.ErrMalformed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
