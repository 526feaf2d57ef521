/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"fmt"
	"testing"

	"chainguard.dev/qaeval/result"
)

func TestIsRetryableVertexError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "unrelated error", err: fmt.Errorf("invalid argument"), want: false},
		{name: "malformed response", err: fmt.Errorf("%w: no json found", result.ErrMalformed), want: true},
		{name: "resource exhausted", err: fmt.Errorf("rpc error: Resource exhausted"), want: true},
		{name: "429 status", err: fmt.Errorf("googleapi: Error 429: too many requests"), want: true},
		{name: "RESOURCE_EXHAUSTED code", err: fmt.Errorf("RESOURCE_EXHAUSTED: quota"), want: true},
		{name: "rate limit text", err: fmt.Errorf("rate limit exceeded"), want: true},
		{name: "overloaded", err: fmt.Errorf("model Overloaded"), want: true},
		{name: "503 status", err: fmt.Errorf("googleapi: Error 503"), want: true},
		{name: "quota exceeded", err: fmt.Errorf("quota exceeded for project"), want: true},
		{name: "internal error", err: fmt.Errorf("Internal error encountered"), want: true},
		{name: "permission denied", err: fmt.Errorf("PERMISSION_DENIED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isRetryableVertexError(tt.err); got != tt.want {
				t.Errorf("isRetryableVertexError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
