/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io"
	"strings"

	"chainguard.dev/qaeval/criteria"
	"chainguard.dev/qaeval/evaluator"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// newTable creates a markdown-style table writer with left-aligned cells.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
	)
}

// render writes the batch report: one section per pair with its criterion
// scores and safety posture, then the batch summary table.
func render(w io.Writer, resp *evaluator.Response) {
	for _, ev := range resp.Evaluations {
		renderEvaluation(w, ev)
	}
	renderSummary(w, resp.Summary)
}

func renderEvaluation(w io.Writer, ev evaluator.QAEvaluation) {
	marker := "✅"
	if ev.Verdict != criteria.VerdictPass {
		marker = "❌"
	}
	fmt.Fprintf(w, "## QA #%d: %s %s (weighted %.1f)\n\n", ev.ID, marker, ev.Verdict, ev.WeightedScore)
	if ev.Reason != "" {
		fmt.Fprintf(w, "%s\n\n", ev.Reason)
	}

	if len(ev.Scores) > 0 {
		table := newTable(w, "Criterion", "Score", "Weight", "Floor", "Notes")
		for _, cs := range ev.Scores {
			floor := "ok"
			if !cs.Passed {
				floor = "❌ below"
			}
			_ = table.Append([]string{
				cs.Name,
				fmt.Sprintf("%.1f", cs.Score),
				fmt.Sprintf("%.0f", cs.Weight),
				floor,
				formatNotes(cs),
			})
		}
		_ = table.Render()
		fmt.Fprintln(w)
	}

	if ev.Safety != nil {
		if ev.Safety.ShouldBlock {
			fmt.Fprintf(w, "%s\n", ev.Safety)
		} else {
			fmt.Fprintf(w, "Safety: %s (robustness %.2f)\n\n", ev.Safety.RiskLevel, ev.Safety.RobustnessScore)
		}
	}
}

// formatNotes condenses judge issues and fairness flags into one cell.
func formatNotes(cs evaluator.CriterionScore) string {
	var notes []string
	notes = append(notes, cs.Issues...)
	for _, issue := range cs.FairnessIssues {
		notes = append(notes, fmt.Sprintf("judge reasoning: %s", issue.Type))
	}
	if len(notes) == 0 {
		return "-"
	}
	return strings.Join(notes, "; ")
}

func renderSummary(w io.Writer, s evaluator.Summary) {
	fmt.Fprintf(w, "## Summary\n\n")
	table := newTable(w, "Total", "Passed", "Failed", "Blocked", "Avg Score")
	_ = table.Append([]string{
		fmt.Sprintf("%d", s.Total),
		fmt.Sprintf("%d", s.Passed),
		fmt.Sprintf("%d", s.Failed),
		fmt.Sprintf("%d", s.Blocked),
		fmt.Sprintf("%.1f", s.AvgScore),
	})
	_ = table.Render()
}
