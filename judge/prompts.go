/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"chainguard.dev/qaeval/promptbuilder"
)

// scoringPrompt is the prompt for single-criterion scoring
var scoringPrompt = promptbuilder.MustNewPrompt(`<task>
You are an expert evaluator. Score how well an answer to a question satisfies
a single evaluation criterion.
</task>

<domain_guidance>
{{domain_guidance}}
</domain_guidance>

<question>
{{question}}
</question>

<answer>
{{answer}}
</answer>

<criterion>
Name: {{criterion_name}}
Description: {{criterion_description}}
</criterion>

<instructions>
1. Evaluate the answer SOLELY against the given criterion - ignore all other qualities
2. Provide a score from 0 to 100 using this scoring rubric:

SCORING RUBRIC:
- Score 90-100 (Excellent): Answer fully satisfies the criterion with no meaningful gaps.
- Score 70-89 (Good): Answer satisfies the criterion well but has minor gaps or imprecision.
- Score 50-69 (Adequate): Answer partially satisfies the criterion with notable gaps.
- Score 25-49 (Poor): Answer shows some awareness of the criterion but fails in major ways.
- Score 0-24 (Failing): Answer ignores or contradicts the criterion.

3. Explain your reasoning with specific references to the answer
4. List each concrete issue that lowered the score
</instructions>

<output_format>
Return your judgment as a JSON object with this structure:
{
  "score": 0-100,
  "reasoning": "explanation of the score for this criterion",
  "issues": ["issue1", "issue2", ...]
}
</output_format>

Respond with only the JSON object, no additional text.`)

// domainGuidance holds per-domain evaluation guidance bound into the prompt.
// Unknown domains get the general entry.
var domainGuidance = map[string]string{
	"legal": `This is a legal question. Weigh citation of controlling authority,
jurisdiction awareness, and precision about deadlines and procedural
requirements. Penalize confident claims about law that vary by jurisdiction
when no jurisdiction is stated.`,
	"medical": `This is a medical question. Weigh clinical accuracy, appropriate
caution about diagnosis, and whether the answer directs the reader to
professional care when the situation warrants it.`,
	"finance": `This is a finance question. Weigh numerical accuracy, disclosure
of assumptions, and whether the answer distinguishes general information
from individualized advice.`,
	"general": `Evaluate the answer on its factual accuracy, completeness, and
clarity for a general audience.`,
}

// guidanceFor returns the guidance text for a domain, falling back to
// general for unknown or empty domains.
func guidanceFor(domain string) string {
	if g, ok := domainGuidance[domain]; ok {
		return g
	}
	return domainGuidance["general"]
}

// Bind implements promptbuilder.Bindable for Request
func (r *Request) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := prompt.BindString("domain_guidance", guidanceFor(r.Domain))
	if err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindString("question", r.Question); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindString("answer", r.Answer); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindString("criterion_name", r.CriterionName); err != nil {
		return nil, err
	}
	description := r.CriterionDescription
	if description == "" {
		description = r.CriterionName
	}
	return prompt.BindString("criterion_description", description)
}
