package chain

import (
	"testing"
	"time"
)

func TestClassifyPrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   PromptStyle
	}{
		{"question", "why does this test flake?", StyleInterrogative},
		{"question with trailing space", "what is this?  ", StyleInterrogative},
		{"imperative verb", "add retry logic to the client", StyleImperative},
		{"imperative uppercase", "Fix the race in the watcher", StyleImperative},
		{"question wins over verb", "fix this?", StyleInterrogative},
		{"narrative", "the parser breaks on empty input", StyleNarrative},
		{"verb not at start", "please add a test", StyleNarrative},
		{"empty prompt", "", StyleNarrative},
		{"whitespace only", "   ", StyleNarrative},
		{"explain is imperative", "explain the indexing strategy", StyleImperative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPrompt(tt.prompt); got != tt.want {
				t.Errorf("ClassifyPrompt(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	c := &PromptChain{
		ChainID:   "c1",
		StartTime: start,
		EndTime:   &end,
		Steps: []PromptStep{
			{
				Prompt: "add a cache layer",
				FileDiffs: []FileDiff{
					{FilePath: "cache.go", ChangeType: ChangeAdded, LinesAdded: 40},
					{FilePath: "main.go", ChangeType: ChangeModified, LinesAdded: 3, LinesDeleted: 1},
				},
			},
			{
				Prompt: "why is the cache cold on startup?",
			},
			{
				Prompt: "it still misses after a restart",
				FileDiffs: []FileDiff{
					{FilePath: "cache.go", ChangeType: ChangeModified, LinesAdded: 5, LinesDeleted: 2},
				},
			},
		},
	}

	m := ComputeMetrics(c)

	if m.DurationMs != 90000 {
		t.Errorf("DurationMs = %d, want 90000", m.DurationMs)
	}
	if m.ModificationSteps != 2 {
		t.Errorf("ModificationSteps = %d, want 2", m.ModificationSteps)
	}
	if m.UniqueFilesChanged != 2 {
		t.Errorf("UniqueFilesChanged = %d, want 2", m.UniqueFilesChanged)
	}
	if m.TotalLinesAdded != 48 {
		t.Errorf("TotalLinesAdded = %d, want 48", m.TotalLinesAdded)
	}
	if m.TotalLinesDeleted != 3 {
		t.Errorf("TotalLinesDeleted = %d, want 3", m.TotalLinesDeleted)
	}

	sc := m.Prompts.StyleCounts
	if sc.Imperative != 1 || sc.Interrogative != 1 || sc.Narrative != 1 {
		t.Errorf("StyleCounts = %+v, want one of each", sc)
	}
	if total := sc.Imperative + sc.Interrogative + sc.Narrative; total != len(c.Steps) {
		t.Errorf("style counts sum to %d, want %d", total, len(c.Steps))
	}
}

func TestComputeMetricsZeroSteps(t *testing.T) {
	c := &PromptChain{ChainID: "empty", StartTime: time.Now().UTC()}

	m := ComputeMetrics(c)

	if m.DurationMs != 0 {
		t.Errorf("DurationMs = %d, want 0 for unended chain", m.DurationMs)
	}
	if m.Prompts.AvgLengthChars != 0 {
		t.Errorf("AvgLengthChars = %d, want 0 for zero steps", m.Prompts.AvgLengthChars)
	}
	if m.Prompts.TotalLengthChars != 0 {
		t.Errorf("TotalLengthChars = %d, want 0", m.Prompts.TotalLengthChars)
	}
}

func TestComputeMetricsNegativeDurationClamped(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Minute)

	c := &PromptChain{ChainID: "clock-skew", StartTime: start, EndTime: &end}

	if m := ComputeMetrics(c); m.DurationMs != 0 {
		t.Errorf("DurationMs = %d, want 0 when end precedes start", m.DurationMs)
	}
}

func TestComputeMetricsPromptLengths(t *testing.T) {
	c := &PromptChain{
		ChainID:   "lengths",
		StartTime: time.Now().UTC(),
		Steps: []PromptStep{
			{Prompt: "abcd"},    // 4 runes
			{Prompt: "héllo"},   // 5 runes, multibyte
			{Prompt: "abcdefg"}, // 7 runes
		},
	}

	m := ComputeMetrics(c)

	if m.Prompts.TotalLengthChars != 16 {
		t.Errorf("TotalLengthChars = %d, want 16 (rune count, not bytes)", m.Prompts.TotalLengthChars)
	}
	// 16/3 = 5.33 rounds to 5
	if m.Prompts.AvgLengthChars != 5 {
		t.Errorf("AvgLengthChars = %d, want 5", m.Prompts.AvgLengthChars)
	}
}

func TestComputeMetricsDeterministic(t *testing.T) {
	end := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &PromptChain{
		ChainID:   "det",
		StartTime: end.Add(-time.Hour),
		EndTime:   &end,
		Steps: []PromptStep{
			{Prompt: "refactor the loader", FileDiffs: []FileDiff{{FilePath: "a.go", LinesAdded: 1}}},
			{Prompt: "does it stream?"},
		},
	}

	first := ComputeMetrics(c)
	second := ComputeMetrics(c)

	if first != second {
		t.Errorf("ComputeMetrics not deterministic: %+v vs %+v", first, second)
	}
}
