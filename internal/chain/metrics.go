package chain

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Metrics holds aggregate statistics computed over a completed chain.
// Metrics are derived, never stored independently: ComputeMetrics runs
// fresh at save time and the result is embedded in document metadata.
type Metrics struct {
	DurationMs         int64       `json:"durationMs"`
	ModificationSteps  int         `json:"modificationSteps"`
	UniqueFilesChanged int         `json:"uniqueFilesChanged"`
	TotalLinesAdded    int         `json:"totalLinesAdded"`
	TotalLinesDeleted  int         `json:"totalLinesDeleted"`
	Prompts            PromptStats `json:"prompts"`
}

// PromptStats aggregates prompt text statistics across a chain's steps.
type PromptStats struct {
	TotalLengthChars int         `json:"totalLengthChars"`
	AvgLengthChars   int         `json:"avgLengthChars"`
	StyleCounts      StyleCounts `json:"styleCounts"`
}

// StyleCounts is the per-chain histogram of prompt styles.
// Classification is mutually exclusive, so the three counts always sum
// to the step count.
type StyleCounts struct {
	Interrogative int `json:"interrogative"`
	Imperative    int `json:"imperative"`
	Narrative     int `json:"narrative"`
}

// PromptStyle is the heuristic classification of a single prompt.
type PromptStyle string

// Prompt styles, in evaluation order.
const (
	StyleInterrogative PromptStyle = "interrogative"
	StyleImperative    PromptStyle = "imperative"
	StyleNarrative     PromptStyle = "narrative"
)

// imperativeVerbs is the closed set of leading action verbs that mark a
// prompt as imperative. Matching is case-insensitive on the first
// whitespace-delimited token.
var imperativeVerbs = map[string]struct{}{
	"add":       {},
	"update":    {},
	"fix":       {},
	"create":    {},
	"remove":    {},
	"delete":    {},
	"refactor":  {},
	"rename":    {},
	"implement": {},
	"write":     {},
	"generate":  {},
	"optimize":  {},
	"document":  {},
	"explain":   {},
	"show":      {},
}

// ClassifyPrompt tags a prompt as interrogative, imperative, or
// narrative. Rules are evaluated in order: a prompt ending with "?"
// (after trailing whitespace trim) is interrogative; otherwise a prompt
// whose first token is a known action verb is imperative; everything
// else is narrative.
func ClassifyPrompt(prompt string) PromptStyle {
	trimmed := strings.TrimSpace(prompt)
	if strings.HasSuffix(trimmed, "?") {
		return StyleInterrogative
	}

	fields := strings.Fields(trimmed)
	if len(fields) > 0 {
		if _, ok := imperativeVerbs[strings.ToLower(fields[0])]; ok {
			return StyleImperative
		}
	}

	return StyleNarrative
}

// ComputeMetrics computes aggregate statistics for a chain. It is a pure
// function: no side effects, deterministic given the chain contents.
//
// Duration is max(0, endTime-startTime) in milliseconds, 0 while the
// chain has no end time. Line totals sum every FileDiff entry without
// per-file deduplication; UniqueFilesChanged deduplicates by file path
// across all steps.
func ComputeMetrics(c *PromptChain) Metrics {
	var m Metrics

	if c.EndTime != nil {
		if d := c.EndTime.Sub(c.StartTime).Milliseconds(); d > 0 {
			m.DurationMs = d
		}
	}

	seenFiles := make(map[string]struct{})
	totalLen := 0

	for _, step := range c.Steps {
		totalLen += utf8.RuneCountInString(step.Prompt)

		switch ClassifyPrompt(step.Prompt) {
		case StyleInterrogative:
			m.Prompts.StyleCounts.Interrogative++
		case StyleImperative:
			m.Prompts.StyleCounts.Imperative++
		case StyleNarrative:
			m.Prompts.StyleCounts.Narrative++
		}

		if len(step.FileDiffs) > 0 {
			m.ModificationSteps++
		}
		for _, diff := range step.FileDiffs {
			seenFiles[diff.FilePath] = struct{}{}
			m.TotalLinesAdded += diff.LinesAdded
			m.TotalLinesDeleted += diff.LinesDeleted
		}
	}

	m.UniqueFilesChanged = len(seenFiles)
	m.Prompts.TotalLengthChars = totalLen
	if stepCount := len(c.Steps); stepCount > 0 {
		m.Prompts.AvgLengthChars = int(math.Round(float64(totalLen) / float64(stepCount)))
	}

	return m
}
