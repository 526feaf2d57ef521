/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package history keeps a bounded in-memory record of evaluation outcomes.
// The ring holds the most recent N records; older ones are overwritten
// rather than accumulated, so long-running services don't grow without
// bound.
package history

import (
	"fmt"
	"sync"
	"time"
)

// Record is one evaluated pair's outcome.
type Record struct {
	// Timestamp is when the evaluation completed.
	Timestamp time.Time `json:"timestamp"`
	// Question is the evaluated question.
	Question string `json:"question"`
	// Verdict is the pair's verdict string.
	Verdict string `json:"verdict"`
	// WeightedScore is the criteria-weighted score in [0, 100].
	WeightedScore float64 `json:"weighted_score"`
	// RobustnessScore is the safety gate's robustness score in [0, 1];
	// zero when the gate did not run.
	RobustnessScore float64 `json:"robustness_score,omitempty"`
	// Blocked is true when the safety gate blocked the pair.
	Blocked bool `json:"blocked,omitempty"`
}

// Stats summarizes the records currently in the ring.
type Stats struct {
	// Count is the number of records held.
	Count int `json:"count"`
	// PassRate is the fraction of records with a PASS verdict.
	PassRate float64 `json:"pass_rate"`
	// MeanWeightedScore is the mean weighted score across records.
	MeanWeightedScore float64 `json:"mean_weighted_score"`
	// Blocked is the number of gate-blocked records.
	Blocked int `json:"blocked"`
}

// Ring is a fixed-capacity, concurrency-safe record buffer.
type Ring struct {
	mu      sync.Mutex
	records []Record
	next    int
	full    bool
}

// NewRing creates a ring holding up to capacity records.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be positive, got %d", capacity)
	}
	return &Ring{records: make([]Record, capacity)}, nil
}

// Append adds a record, overwriting the oldest once the ring is full.
func (r *Ring) Append(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.next] = rec
	r.next++
	if r.next == len(r.records) {
		r.next = 0
		r.full = true
	}
}

// Len returns the number of records held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.length()
}

func (r *Ring) length() int {
	if r.full {
		return len(r.records)
	}
	return r.next
}

// Snapshot returns the held records ordered oldest to newest. The returned
// slice is a copy; callers may retain it.
func (r *Ring) Snapshot() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.length()
	out := make([]Record, 0, n)
	if r.full {
		out = append(out, r.records[r.next:]...)
	}
	out = append(out, r.records[:r.next]...)
	return out
}

// Stats summarizes the held records.
func (r *Ring) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.length()
	if n == 0 {
		return Stats{}
	}

	var passes, blocked int
	var totalScore float64
	for i := range n {
		idx := i
		if r.full {
			idx = (r.next + i) % len(r.records)
		}
		rec := r.records[idx]
		if rec.Verdict == "PASS" {
			passes++
		}
		if rec.Blocked {
			blocked++
		}
		totalScore += rec.WeightedScore
	}

	return Stats{
		Count:             n,
		PassRate:          float64(passes) / float64(n),
		MeanWeightedScore: totalScore / float64(n),
		Blocked:           blocked,
	}
}
