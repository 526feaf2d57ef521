/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry implements exponential backoff for judge provider calls.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior for provider API calls.
// Providers rate-limit aggressively, so transient errors and malformed
// responses are retried with exponential backoff before giving up.
type Config struct {
	// Attempts is the total number of tries, including the first (default: 3).
	// 1 means do not retry at all.
	Attempts int
	// BaseBackoff is the initial backoff duration (default: 2s).
	BaseBackoff time.Duration
	// MaxBackoff caps the backoff duration (default: 10s).
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to each backoff (default: 500ms).
	MaxJitter time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.Attempts < 1 {
		return errors.New("attempts must be at least 1")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig returns a retry configuration suitable for judge calls:
// three attempts with a 2s base backoff capped at 10s.
func DefaultConfig() Config {
	return Config{
		Attempts:    3,
		BaseBackoff: 2 * time.Second,
		MaxBackoff:  10 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Do executes fn with exponential backoff, retrying errors classified as
// retryable by isRetryable. Attempts never overlap; each waits for the
// previous backoff to elapse or the context to be cancelled.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if !isRetryable(lastErr) {
			return result, lastErr
		}

		if attempt >= cfg.Attempts {
			break
		}

		// BaseBackoff * 2^(attempt-1), capped at MaxBackoff.
		backoff := min(cfg.BaseBackoff<<(attempt-1), cfg.MaxBackoff)

		// Random jitter to avoid thundering herd.
		var jitter time.Duration
		if cfg.MaxJitter > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter)))
			if err == nil {
				jitter = time.Duration(n.Int64())
			}
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt).
			With("attempts", cfg.Attempts).
			With("backoff", backoff+jitter).
			With("error", lastErr.Error()).
			Warn("Provider call failed, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	return result, fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.Attempts, lastErr)
}
