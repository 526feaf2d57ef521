/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scanners

import (
	"regexp"
	"sort"
)

// FeatureCategory tags a lexical feature with the kind of signal it carries.
type FeatureCategory string

const (
	CategoryReasoning   FeatureCategory = "reasoning"
	CategoryFactual     FeatureCategory = "factual"
	CategorySafety      FeatureCategory = "safety"
	CategoryBiasFeature FeatureCategory = "bias"
	CategoryLinguistic  FeatureCategory = "linguistic"
)

// featureCategories is the closed set of categories, used for the
// confidence diversity factor.
var featureCategories = []FeatureCategory{
	CategoryReasoning, CategoryFactual, CategorySafety, CategoryBiasFeature, CategoryLinguistic,
}

// activationThreshold is the minimum activation for a feature to count as
// detected. Policy constant from the feature table design.
const activationThreshold = 0.1

// lexicalFeature is a named detector: a set of patterns whose match density
// drives the feature's activation. A lexical stand-in for learned feature
// dictionaries; the scoring surface is the same.
type lexicalFeature struct {
	id       int
	name     string
	category FeatureCategory
	patterns []*regexp.Regexp
}

var featureTable = []lexicalFeature{
	{id: 2001, name: "Legal Citation Recognition", category: CategoryReasoning, patterns: compile(
		`\b\d+\s+\w+\.?\s+\d+`, `\bv\.\s+`, `\bCode\s+of\b`, `Section\s+\d+`)},
	{id: 2002, name: "Jurisdictional Awareness", category: CategoryReasoning, patterns: compile(
		`\b(California|Federal|State)\b`, `\bjurisdiction`, `\bstate law\b`)},
	{id: 2003, name: "Temporal Logic", category: CategoryReasoning, patterns: compile(
		`\b\d+\s+(year|month|day)s?\b`, `\bstatute of limitations\b`, `\bdeadline\b`)},
	{id: 2500, name: "Logical Coherence", category: CategoryReasoning, patterns: compile(
		`\btherefore\b`, `\bbecause\b`, `\bas a result\b`, `\bconsequently\b`)},
	{id: 2501, name: "Evidence-Based Reasoning", category: CategoryReasoning, patterns: compile(
		`\bevidence suggests\b`, `\bstudies show\b`, `\bdata indicates\b`)},
	{id: 4002, name: "Scientific Method", category: CategoryReasoning, patterns: compile(
		`\bhypothesis\b`, `\bexperiment\b`, `\bmethodology\b`, `\bcontrol\b`)},
	{id: 1001, name: "Factual Accuracy Verification", category: CategorySafety, patterns: compile(
		`\baccording to\b`, `\bsources?\b`, `\bevidence\b`, `\bdata shows\b`)},
	{id: 1002, name: "Citation Quality", category: CategoryFactual, patterns: compile(
		`\bcited\b`, `\breference`, `\bstudy\b`, `\bresearch\b`)},
	{id: 4001, name: "Medical Terminology", category: CategoryFactual, patterns: compile(
		`\bdiagnosis\b`, `\btreatment\b`, `\bsymptoms?\b`, `\bpatient\b`)},
	{id: 3001, name: "Gender Bias Signal", category: CategoryBiasFeature, patterns: compile(
		`\b(wo)?men are\b`, `\bfemales?\b.*\b(can't|cannot|always|never)\b`)},
	{id: 3002, name: "Racial Bias Signal", category: CategoryBiasFeature, patterns: compile(
		`\bthose people\b`, `\btheir kind\b`)},
	{id: 3003, name: "Age Bias Signal", category: CategoryBiasFeature, patterns: compile(
		`\btoo (old|young)\b`, `\b(millennials?|boomers?)\s+are\b`)},
	{id: 101, name: "Clear Communication", category: CategoryLinguistic, patterns: compile(
		`\bspecifically\b`, `\bfor example\b`, `\bin other words\b`)},
	{id: 102, name: "Professional Tone", category: CategoryLinguistic, patterns: compile(
		`\banalysis\b`, `\bassessment\b`, `\bevaluation\b`)},
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

// FeatureActivation is one detected feature with its activation strength.
type FeatureActivation struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Category   FeatureCategory `json:"category"`
	Activation float64         `json:"activation"`
}

// FeatureAnalysis is the full read-out over the feature table.
type FeatureAnalysis struct {
	// Activated holds detected features sorted by descending activation.
	Activated []FeatureActivation `json:"activated,omitempty"`
	// BiasIndicators are the activated bias-category features.
	BiasIndicators []FeatureActivation `json:"bias_indicators,omitempty"`
	// ReasoningQuality is the mean activation of reasoning features plus a
	// diversity bonus, in [0, 1]. Defaults to 0.5 with no reasoning signal.
	ReasoningQuality float64 `json:"reasoning_quality"`
	// Confidence weighs feature count, mean strength, and category
	// diversity into a single [0, 1] figure.
	Confidence float64 `json:"confidence"`
	// ActiveCategories counts categories with at least one detection.
	ActiveCategories int `json:"active_categories"`
}

// AnalyzeFeatures runs the lexical feature table over text. Per feature,
// activation = min(1, matches/(patternCount*2)); a feature is detected when
// activation exceeds 0.1.
func AnalyzeFeatures(text string) FeatureAnalysis {
	var activated []FeatureActivation
	for _, f := range featureTable {
		var matches int
		for _, re := range f.patterns {
			matches += len(re.FindAllStringIndex(text, -1))
		}
		activation := min(1, float64(matches)/(float64(len(f.patterns))*2))
		if activation > activationThreshold {
			activated = append(activated, FeatureActivation{
				ID:         f.id,
				Name:       f.name,
				Category:   f.category,
				Activation: activation,
			})
		}
	}

	sort.SliceStable(activated, func(i, j int) bool {
		return activated[i].Activation > activated[j].Activation
	})

	var bias []FeatureActivation
	activeByCategory := make(map[FeatureCategory]int)
	var totalActivation float64
	for _, a := range activated {
		activeByCategory[a.Category]++
		totalActivation += a.Activation
		if a.Category == CategoryBiasFeature {
			bias = append(bias, a)
		}
	}

	return FeatureAnalysis{
		Activated:        activated,
		BiasIndicators:   bias,
		ReasoningQuality: reasoningQuality(activated),
		Confidence:       confidence(activated, totalActivation, len(activeByCategory)),
		ActiveCategories: len(activeByCategory),
	}
}

// reasoningQuality is the mean activation of reasoning features plus a
// diversity bonus of min(0.2, 0.05*count), clamped to 1. With no reasoning
// feature active it returns the neutral 0.5.
func reasoningQuality(activated []FeatureActivation) float64 {
	var sum float64
	var count int
	for _, a := range activated {
		if a.Category == CategoryReasoning {
			sum += a.Activation
			count++
		}
	}
	if count == 0 {
		return 0.5
	}
	bonus := min(0.2, 0.05*float64(count))
	return min(1, sum/float64(count)+bonus)
}

// confidence = 0.3*min(1, count/10) + 0.5*meanActivation +
// 0.2*(activeCategories/totalCategories). Neutral 0.5 with no detections.
func confidence(activated []FeatureActivation, totalActivation float64, activeCategories int) float64 {
	if len(activated) == 0 {
		return 0.5
	}
	countFactor := min(1, float64(len(activated))/10)
	meanActivation := totalActivation / float64(len(activated))
	diversity := float64(activeCategories) / float64(len(featureCategories))
	return 0.3*countFactor + 0.5*meanActivation + 0.2*diversity
}
