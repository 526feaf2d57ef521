/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package scanners contains stateless pattern-based detectors over raw text.
// Each scanner returns a score in [0, 1] together with the evidence that
// produced it. Scanners never do I/O and are safe for concurrent use; the
// safety gate composes them into a block/allow decision.
package scanners
