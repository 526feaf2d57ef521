/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"chainguard.dev/qaeval/criteria"
	"chainguard.dev/qaeval/history"
	"chainguard.dev/qaeval/judge"
	"chainguard.dev/qaeval/safety"
)

// fakeJudge scores requests with a configurable function and counts calls.
type fakeJudge struct {
	mu    sync.Mutex
	calls int
	fn    func(req *judge.Request) (*judge.Score, error)
}

func (f *fakeJudge) Judge(_ context.Context, req *judge.Request) (*judge.Score, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(req)
}

func (f *fakeJudge) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// scoreTable returns a judge that scores by criterion name.
func scoreTable(scores map[string]float64) *fakeJudge {
	return &fakeJudge{fn: func(req *judge.Request) (*judge.Score, error) {
		score, ok := scores[req.CriterionName]
		if !ok {
			return nil, errors.New("unexpected criterion " + req.CriterionName)
		}
		return &judge.Score{
			Score:     score,
			Reasoning: "The answer was compared against the criterion in detail, with each required element checked for presence and correctness before scoring.",
		}, nil
	}}
}

var testCriteria = []criteria.Criterion{
	{Name: "accuracy", Weight: 60, HardMin: 0, Description: "Factual correctness"},
	{Name: "clarity", Weight: 40, HardMin: 0, Description: "Readability"},
}

func TestEvaluateWeightedVerdict(t *testing.T) {
	t.Parallel()
	j := scoreTable(map[string]float64{"accuracy": 80, "clarity": 40})
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs:           []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria:        testCriteria,
		GlobalThreshold: 70,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	ev := resp.Evaluations[0]
	if ev.WeightedScore != 64 {
		t.Errorf("WeightedScore = %v, want 64", ev.WeightedScore)
	}
	if ev.Verdict != criteria.VerdictReject {
		t.Errorf("Verdict = %v, want REJECT", ev.Verdict)
	}
	if !strings.Contains(ev.Reason, "below threshold") {
		t.Errorf("Reason = %q", ev.Reason)
	}
	if len(ev.Scores) != 2 || ev.Scores[0].Name != "accuracy" || ev.Scores[1].Name != "clarity" {
		t.Errorf("Scores out of criteria order: %+v", ev.Scores)
	}
}

func TestEvaluateHardMinimumPrecedence(t *testing.T) {
	t.Parallel()
	crits := []criteria.Criterion{
		{Name: "accuracy", Weight: 60, HardMin: 90, Description: "Factual correctness"},
		{Name: "clarity", Weight: 40, HardMin: 0, Description: "Readability"},
	}
	// High weighted score but accuracy misses its floor.
	j := scoreTable(map[string]float64{"accuracy": 85, "clarity": 100})
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs:           []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria:        crits,
		GlobalThreshold: 70,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	ev := resp.Evaluations[0]
	if ev.Verdict != criteria.VerdictReject {
		t.Errorf("Verdict = %v, want REJECT", ev.Verdict)
	}
	if ev.Reason != "Failed hard minimum on: accuracy" {
		t.Errorf("Reason = %q", ev.Reason)
	}
	if ev.Scores[0].Passed {
		t.Error("accuracy marked as passing its hard minimum")
	}
	if !ev.Scores[1].Passed {
		t.Error("clarity marked as failing its hard minimum")
	}
}

func TestEvaluateFailedPairIsolation(t *testing.T) {
	t.Parallel()
	j := &fakeJudge{fn: func(req *judge.Request) (*judge.Score, error) {
		if req.Question == "broken" {
			return nil, judge.ErrJudgeUnavailable
		}
		return &judge.Score{Score: 95, Reasoning: "The answer satisfies the criterion completely, covering every element the rubric requires with accurate and clearly organized detail."}, nil
	}}
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs: []QAPair{
			{ID: 1, Question: "fine", Answer: "a"},
			{ID: 2, Question: "broken", Answer: "a"},
			{ID: 3, Question: "also fine", Answer: "a"},
		},
		Criteria:        testCriteria,
		GlobalThreshold: 70,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if got := resp.Evaluations[1]; got.Verdict != criteria.VerdictReject ||
		!strings.Contains(got.Reason, "Evaluation failed:") {
		t.Errorf("broken pair = %+v", got)
	}
	for _, i := range []int{0, 2} {
		if got := resp.Evaluations[i]; got.Verdict != criteria.VerdictPass {
			t.Errorf("pair %d verdict = %v (%s), want PASS", i, got.Verdict, got.Reason)
		}
	}

	want := Summary{Total: 3, Passed: 2, Failed: 1, AvgScore: (95 + 0 + 95) / 3.0}
	if resp.Summary != want {
		t.Errorf("Summary = %+v, want %+v", resp.Summary, want)
	}
}

func TestEvaluateOrderingIsDeterministic(t *testing.T) {
	t.Parallel()
	// First pair finishes last; results must still come back in input order.
	j := &fakeJudge{fn: func(req *judge.Request) (*judge.Score, error) {
		if req.Question == "slow" {
			time.Sleep(50 * time.Millisecond)
		}
		return &judge.Score{Score: 90, Reasoning: "The answer addresses the criterion directly and completely, with no factual gaps or unclear phrasing detected in the comparison."}, nil
	}}
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs: []QAPair{
			{ID: 10, Question: "slow", Answer: "a"},
			{ID: 20, Question: "fast", Answer: "a"},
		},
		Criteria:        testCriteria,
		GlobalThreshold: 70,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if resp.Evaluations[0].ID != 10 || resp.Evaluations[1].ID != 20 {
		t.Errorf("evaluations out of input order: %+v", resp.Evaluations)
	}
}

func TestEvaluateInvalidCriteriaFailsFast(t *testing.T) {
	t.Parallel()
	j := scoreTable(nil)
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = e.Evaluate(context.Background(), &Request{
		Pairs: []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria: []criteria.Criterion{
			{Name: "accuracy", Weight: 50},
		},
	})
	if !errors.Is(err, criteria.ErrInvalidCriteria) {
		t.Fatalf("Evaluate() error = %v, want ErrInvalidCriteria", err)
	}
	if j.callCount() != 0 {
		t.Errorf("judge called %d times before validation failure", j.callCount())
	}
}

func TestEvaluateGateBlocks(t *testing.T) {
	t.Parallel()
	j := scoreTable(map[string]float64{"accuracy": 90, "clarity": 90})
	// A paranoid gate: anything with any manipulation signal is blocked.
	cfg := safety.DefaultConfig()
	cfg.BlockThreshold = 0.99
	gate := safety.NewGate(safety.WithConfig(cfg))

	e, err := New(j, WithGate(gate))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs: []QAPair{
			{ID: 1, Question: "q", Answer: "Obviously everyone knows this is the answer, trust me."},
			{ID: 2, Question: "q", Answer: "The notice period is thirty days in most states."},
		},
		Criteria:        testCriteria,
		GlobalThreshold: 70,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	blocked := resp.Evaluations[0]
	if blocked.Verdict != criteria.VerdictReject || !strings.Contains(blocked.Reason, "Blocked by safety gate") {
		t.Errorf("blocked pair = %+v", blocked)
	}
	if blocked.Safety == nil || !blocked.Safety.ShouldBlock {
		t.Error("blocked pair missing safety report")
	}
	if len(blocked.Scores) != 0 {
		t.Errorf("blocked pair has judge scores: %+v", blocked.Scores)
	}

	clean := resp.Evaluations[1]
	if clean.Verdict != criteria.VerdictPass {
		t.Errorf("clean pair verdict = %v (%s)", clean.Verdict, clean.Reason)
	}
	if clean.Safety == nil {
		t.Error("clean pair should still carry its safety report")
	}

	// Only the clean pair reached the judge.
	if j.callCount() != len(testCriteria) {
		t.Errorf("judge calls = %d, want %d", j.callCount(), len(testCriteria))
	}
	if resp.Summary.Blocked != 1 {
		t.Errorf("Summary.Blocked = %d, want 1", resp.Summary.Blocked)
	}
}

// countingChecker tracks the peak number of concurrent principle checks.
type countingChecker struct {
	mu     sync.Mutex
	active int
	peak   int
}

func (c *countingChecker) CheckPrinciple(context.Context, safety.Principle, string, string) (*safety.Violation, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return nil, nil
}

func TestEvaluateGateChecksRespectInFlightBound(t *testing.T) {
	t.Parallel()
	// Remote principle checks share the judge-call bound: with MaxInFlight 1
	// and several pairs fanned out, at most one check may run at a time.
	checker := &countingChecker{}
	gate := safety.NewGate(safety.WithChecker(checker))
	j := scoreTable(map[string]float64{"accuracy": 90, "clarity": 90})

	e, err := New(j,
		WithGate(gate),
		WithConfig(Config{GlobalThreshold: 70, WeightTolerance: 0.01, MaxInFlight: 1}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pairs := make([]QAPair, 4)
	for i := range pairs {
		pairs[i] = QAPair{ID: i + 1, Question: "q", Answer: "A plain answer with no adversarial content at all."}
	}
	if _, err := e.Evaluate(context.Background(), &Request{
		Pairs:    pairs,
		Criteria: testCriteria,
	}); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	checker.mu.Lock()
	defer checker.mu.Unlock()
	if checker.peak > 1 {
		t.Errorf("peak concurrent principle checks = %d, want at most 1", checker.peak)
	}
}

func TestEvaluateExplicitZeroThreshold(t *testing.T) {
	t.Parallel()
	// An evaluator configured with threshold 0 rejects on hard minimums only.
	j := scoreTable(map[string]float64{"accuracy": 10, "clarity": 10})
	e, err := New(j, WithConfig(Config{WeightTolerance: 0.01, MaxInFlight: 2}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs:    []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria: testCriteria,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got := resp.Evaluations[0]; got.Verdict != criteria.VerdictPass {
		t.Errorf("Verdict = %v (%s), want PASS with zero threshold", got.Verdict, got.Reason)
	}
}

func TestEvaluateRecordsHistory(t *testing.T) {
	t.Parallel()
	j := scoreTable(map[string]float64{"accuracy": 90, "clarity": 90})
	ring, err := history.NewRing(8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}
	e, err := New(j, WithHistory(ring))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := e.Evaluate(context.Background(), &Request{
		Pairs:           []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria:        testCriteria,
		GlobalThreshold: 70,
	}); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	stats := ring.Stats()
	if stats.Count != 1 || stats.PassRate != 1 || stats.MeanWeightedScore != 90 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestEvaluateDefaultThreshold(t *testing.T) {
	t.Parallel()
	// 80 weighted: passes an explicit 70 threshold but not the default 85.
	j := scoreTable(map[string]float64{"accuracy": 80, "clarity": 80})
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs:    []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria: testCriteria,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if resp.Evaluations[0].Verdict != criteria.VerdictReject {
		t.Errorf("Verdict = %v, want REJECT under default threshold 85", resp.Evaluations[0].Verdict)
	}
}

func TestEvaluateFairnessAudit(t *testing.T) {
	t.Parallel()
	// A judge whose reasoning is brief and opinionated gets flagged.
	j := &fakeJudge{fn: func(*judge.Request) (*judge.Score, error) {
		return &judge.Score{Score: 90, Reasoning: "I think it's totally fine."}, nil
	}}
	e, err := New(j)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := e.Evaluate(context.Background(), &Request{
		Pairs:           []QAPair{{ID: 1, Question: "q", Answer: "a"}},
		Criteria:        testCriteria,
		GlobalThreshold: 70,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	for _, cs := range resp.Evaluations[0].Scores {
		if len(cs.FairnessIssues) == 0 {
			t.Errorf("criterion %q missing fairness issues for reasoning %q", cs.Name, cs.Reasoning)
		}
	}
}

func TestEvaluateEmptyPairs(t *testing.T) {
	t.Parallel()
	e, err := New(scoreTable(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate(context.Background(), &Request{Criteria: testCriteria}); err == nil {
		t.Error("Evaluate() with no pairs succeeded, want error")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()
	j := scoreTable(nil)
	for _, cfg := range []Config{
		{GlobalThreshold: -1, MaxInFlight: 1},
		{GlobalThreshold: 101, MaxInFlight: 1},
		{GlobalThreshold: 85, MaxInFlight: 0},
		{GlobalThreshold: 85, MaxInFlight: 1, WeightTolerance: -0.1},
	} {
		if _, err := New(j, WithConfig(cfg)); err == nil {
			t.Errorf("New() with config %+v succeeded, want error", cfg)
		}
	}
}
