/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package evaluator orchestrates rubric-driven evaluation of Q&A pairs:
// each pair is optionally gated for safety, then scored per criterion by an
// LLM judge, and the weighted results are folded into a verdict. Pairs are
// evaluated concurrently and independently; one pair failing never affects
// its siblings.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chainguard.dev/qaeval/criteria"
	"chainguard.dev/qaeval/history"
	"chainguard.dev/qaeval/judge"
	"chainguard.dev/qaeval/safety"
	"chainguard.dev/qaeval/scanners"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/semaphore"
)

// Config holds evaluation policy settings.
type Config struct {
	// GlobalThreshold is the default weighted-score pass threshold
	// (default: 85). Requests may override it per batch.
	GlobalThreshold float64
	// WeightTolerance is the allowed deviation of criterion weights from
	// summing to 100 (default: 0.01).
	WeightTolerance float64
	// MaxInFlight bounds concurrent judge calls across the whole batch
	// (default: 8).
	MaxInFlight int64
	// PairTimeout bounds each pair's evaluation; zero disables the bound.
	PairTimeout time.Duration
}

// DefaultConfig returns the standard evaluation policy.
func DefaultConfig() Config {
	return Config{
		GlobalThreshold: 85,
		WeightTolerance: criteria.DefaultWeightTolerance,
		MaxInFlight:     8,
	}
}

// Evaluator runs batch evaluations against a judge.
type Evaluator struct {
	judge judge.Interface
	gate  *safety.Gate
	hist  *history.Ring
	cfg   Config
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithGate enables safety gating before judge calls.
func WithGate(gate *safety.Gate) Option {
	return func(e *Evaluator) error {
		if gate == nil {
			return errors.New("gate cannot be nil")
		}
		e.gate = gate
		return nil
	}
}

// WithHistory records evaluation outcomes into the ring.
func WithHistory(ring *history.Ring) Option {
	return func(e *Evaluator) error {
		if ring == nil {
			return errors.New("history ring cannot be nil")
		}
		e.hist = ring
		return nil
	}
}

// WithConfig overrides the default evaluation policy.
func WithConfig(cfg Config) Option {
	return func(e *Evaluator) error {
		if cfg.GlobalThreshold < 0 || cfg.GlobalThreshold > 100 {
			return fmt.Errorf("global threshold must be within [0, 100], got %v", cfg.GlobalThreshold)
		}
		if cfg.MaxInFlight < 1 {
			return fmt.Errorf("max in-flight must be at least 1, got %d", cfg.MaxInFlight)
		}
		if cfg.WeightTolerance < 0 {
			return fmt.Errorf("weight tolerance cannot be negative, got %v", cfg.WeightTolerance)
		}
		if cfg.PairTimeout < 0 {
			return fmt.Errorf("pair timeout cannot be negative, got %v", cfg.PairTimeout)
		}
		e.cfg = cfg
		return nil
	}
}

// New creates an Evaluator backed by the given judge.
func New(j judge.Interface, opts ...Option) (*Evaluator, error) {
	if j == nil {
		return nil, errors.New("judge cannot be nil")
	}
	e := &Evaluator{judge: j, cfg: DefaultConfig()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Evaluate runs the full batch. The rubric is validated before any judge
// call; an invalid rubric fails the whole request. Per-pair failures are
// folded into REJECT results instead.
func (e *Evaluator) Evaluate(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Pairs) == 0 {
		return nil, errors.New("at least one qa pair is required")
	}
	if err := criteria.ValidateTolerance(req.Criteria, e.cfg.WeightTolerance); err != nil {
		return nil, err
	}

	threshold := req.GlobalThreshold
	if threshold == 0 {
		threshold = e.cfg.GlobalThreshold
	}

	log := clog.FromContext(ctx)
	log.With("pairs", len(req.Pairs)).
		With("criteria", len(req.Criteria)).
		With("threshold", threshold).
		Info("Starting batch evaluation")

	// One semaphore across the batch so total judge concurrency stays
	// bounded no matter how many pairs fan out.
	sem := semaphore.NewWeighted(e.cfg.MaxInFlight)

	evaluations := make([]QAEvaluation, len(req.Pairs))
	var wg sync.WaitGroup
	for i, pair := range req.Pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			evaluations[i] = e.evaluatePair(ctx, pair, req, threshold, sem)
		}()
	}
	wg.Wait()

	e.record(evaluations)

	return &Response{
		Evaluations: evaluations,
		Summary:     summarize(evaluations),
	}, nil
}

// evaluatePair gates and scores one pair. It never returns an error: all
// failures become REJECT evaluations so sibling pairs keep running.
func (e *Evaluator) evaluatePair(ctx context.Context, pair QAPair, req *Request, threshold float64, sem *semaphore.Weighted) QAEvaluation {
	log := clog.FromContext(ctx).With("qa_id", pair.ID)

	if e.cfg.PairTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.PairTimeout)
		defer cancel()
	}

	var report *safety.Report
	if e.gate != nil {
		// The gate's remote principle checks count against the same
		// in-flight bound as judge calls; a permit covers the whole check
		// since the checks within one pair run sequentially.
		if err := sem.Acquire(ctx, 1); err != nil {
			return QAEvaluation{
				ID:       pair.ID,
				Question: pair.Question,
				Answer:   pair.Answer,
				Verdict:  criteria.VerdictReject,
				Reason:   fmt.Sprintf("Evaluation failed: %v", err),
			}
		}
		report = e.gate.Check(ctx, pair.Question, pair.Answer)
		sem.Release(1)
		if report.ShouldBlock {
			return QAEvaluation{
				ID:       pair.ID,
				Question: pair.Question,
				Answer:   pair.Answer,
				Verdict:  criteria.VerdictReject,
				Reason:   fmt.Sprintf("Blocked by safety gate: %s", report.Recommendation),
				Safety:   report,
			}
		}
	}

	// Fan out one judge call per criterion. A failing criterion never
	// cancels its siblings; each call runs to completion or exhausts its
	// own retries, and errors are collected per task.
	results := make([]*judge.Score, len(req.Criteria))
	errs := make([]error, len(req.Criteria))
	var cwg sync.WaitGroup
	for j, crit := range req.Criteria {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[j] = fmt.Errorf("criterion %q: %w", crit.Name, err)
				return
			}
			defer sem.Release(1)

			score, err := e.judge.Judge(ctx, &judge.Request{
				Question:             pair.Question,
				Answer:               pair.Answer,
				CriterionName:        crit.Name,
				CriterionDescription: crit.Description,
				Domain:               req.Domain,
			})
			if err != nil {
				errs[j] = fmt.Errorf("criterion %q: %w", crit.Name, err)
				return
			}
			results[j] = score
		}()
	}
	cwg.Wait()
	if err := firstError(errs); err != nil {
		log.With("error", err).Warn("Pair evaluation failed")
		return QAEvaluation{
			ID:       pair.ID,
			Question: pair.Question,
			Answer:   pair.Answer,
			Verdict:  criteria.VerdictReject,
			Reason:   fmt.Sprintf("Evaluation failed: %v", err),
			Safety:   report,
		}
	}

	scores := make([]CriterionScore, len(req.Criteria))
	rawScores := make(map[string]float64, len(req.Criteria))
	for j, crit := range req.Criteria {
		result := results[j]
		cs := CriterionScore{
			Name:      crit.Name,
			Score:     result.Score,
			Weight:    crit.Weight,
			Passed:    result.Score >= crit.HardMin,
			Reasoning: result.Reasoning,
			Issues:    result.Issues,
		}
		if fairness := scanners.Fairness(result.Reasoning); !fairness.IsFair {
			cs.FairnessIssues = fairness.Issues
		}
		scores[j] = cs
		rawScores[crit.Name] = result.Score
	}

	weighted := criteria.WeightedScore(rawScores, req.Criteria)
	hardMinsPassed, failed := criteria.CheckHardMinimums(rawScores, req.Criteria)
	verdict, reason := criteria.Decide(weighted, hardMinsPassed, failed, threshold)

	return QAEvaluation{
		ID:            pair.ID,
		Question:      pair.Question,
		Answer:        pair.Answer,
		Scores:        scores,
		WeightedScore: weighted,
		Verdict:       verdict,
		Reason:        reason,
		Safety:        report,
	}
}

// firstError returns the first non-nil error in criteria order, keeping the
// failure reason deterministic regardless of goroutine scheduling.
func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// record appends the batch's outcomes to the history ring, if configured.
func (e *Evaluator) record(evaluations []QAEvaluation) {
	if e.hist == nil {
		return
	}
	now := time.Now()
	for _, ev := range evaluations {
		rec := history.Record{
			Timestamp:     now,
			Question:      ev.Question,
			Verdict:       string(ev.Verdict),
			WeightedScore: ev.WeightedScore,
		}
		if ev.Safety != nil {
			rec.RobustnessScore = ev.Safety.RobustnessScore
			rec.Blocked = ev.Safety.ShouldBlock
		}
		e.hist.Append(rec)
	}
}

// summarize aggregates batch outcomes.
func summarize(evaluations []QAEvaluation) Summary {
	s := Summary{Total: len(evaluations)}
	var totalScore float64
	for _, ev := range evaluations {
		if ev.Verdict == criteria.VerdictPass {
			s.Passed++
		}
		if ev.Safety != nil && ev.Safety.ShouldBlock {
			s.Blocked++
		}
		totalScore += ev.WeightedScore
	}
	s.Failed = s.Total - s.Passed
	if s.Total > 0 {
		s.AvgScore = totalScore / float64(s.Total)
	}
	return s
}
