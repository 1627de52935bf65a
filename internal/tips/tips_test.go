package tips

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/llm"
)

// docWith builds a document with the given steps and computed metrics.
func docWith(steps []chain.PromptStep) *chain.Document {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	c := chain.PromptChain{
		ChainID:   "tips-test",
		StartTime: start,
		EndTime:   &end,
		Steps:     steps,
	}
	return &chain.Document{
		Metadata: chain.Metadata{
			Version: chain.DocumentVersion,
			Metrics: chain.ComputeMetrics(&c),
		},
		Chain: c,
	}
}

func TestNewFallsBackWithoutCredentials(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	gen := New("", llm.ProviderAnthropic)
	if _, ok := gen.(LocalGenerator); !ok {
		t.Errorf("New without credentials = %T, want LocalGenerator", gen)
	}
}

func TestNewUsesLLMWithCredentials(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	gen := New("haiku", llm.ProviderAnthropic)
	if _, ok := gen.(*LLMGenerator); !ok {
		t.Errorf("New with credentials = %T, want *LLMGenerator", gen)
	}
}

func TestLocalGeneratorEmptyChain(t *testing.T) {
	text, err := LocalGenerator{}.Generate(context.Background(), docWith(nil))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "No steps recorded") {
		t.Errorf("empty chain tips = %q", text)
	}
}

func TestLocalGeneratorRules(t *testing.T) {
	tests := []struct {
		name  string
		steps []chain.PromptStep
		want  string
	}{
		{
			name:  "short prompts",
			steps: []chain.PromptStep{{Prompt: "fix it"}, {Prompt: "again"}},
			want:  "very short",
		},
		{
			name: "no modifications",
			steps: []chain.PromptStep{
				{Prompt: strings.Repeat("describe the design in detail ", 3)},
			},
			want: "--capture",
		},
		{
			name: "large change",
			steps: []chain.PromptStep{
				{
					Prompt: strings.Repeat("rewrite the storage engine carefully ", 3),
					FileDiffs: []chain.FileDiff{
						{FilePath: "engine.go", LinesAdded: 400, LinesDeleted: 200},
					},
				},
			},
			want: "smaller chains",
		},
		{
			name: "mostly narrative",
			steps: []chain.PromptStep{
				{Prompt: strings.Repeat("the cache seems to be broken somehow ", 2),
					FileDiffs: []chain.FileDiff{{FilePath: "a.go", LinesAdded: 1}}},
				{Prompt: strings.Repeat("it also fails when the input is empty ", 2),
					FileDiffs: []chain.FileDiff{{FilePath: "a.go", LinesAdded: 1}}},
			},
			want: "action verb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := LocalGenerator{}.Generate(context.Background(), docWith(tt.steps))
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("tips = %q, want substring %q", text, tt.want)
			}
		})
	}
}

func TestLocalGeneratorBalancedSession(t *testing.T) {
	steps := []chain.PromptStep{
		{
			Prompt:    strings.Repeat("add retries to the fetcher with backoff ", 2),
			FileDiffs: []chain.FileDiff{{FilePath: "fetch.go", LinesAdded: 20, LinesDeleted: 5}},
		},
		{
			Prompt: "why does the first retry fire immediately instead of waiting?",
		},
		{
			Prompt:    strings.Repeat("update the tests to cover the new backoff ", 2),
			FileDiffs: []chain.FileDiff{{FilePath: "fetch_test.go", LinesAdded: 30}},
		},
	}

	text, err := LocalGenerator{}.Generate(context.Background(), docWith(steps))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "Balanced session") {
		t.Errorf("tips = %q, want balanced-session message", text)
	}
}

func TestBuildTipsPrompt(t *testing.T) {
	doc := docWith([]chain.PromptStep{
		{Prompt: "add a flag to disable color output in the printer"},
	})

	prompt := buildTipsPrompt(doc)

	if !strings.Contains(prompt, "1 steps") {
		t.Errorf("prompt missing step count: %q", prompt)
	}
	if !strings.Contains(prompt, "add a flag to disable color") {
		t.Errorf("prompt missing step text: %q", prompt)
	}
}

func TestTruncatePrompt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short unchanged", "fix the cache", "fix the cache"},
		{"ascii truncated", strings.Repeat("a", 250), strings.Repeat("a", 200) + "..."},
		{"multibyte truncated on rune boundary", strings.Repeat("ü", 250), strings.Repeat("ü", 200) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncatePrompt(tt.in)
			if got != tt.want {
				t.Errorf("truncatePrompt = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncatePrompt produced invalid UTF-8: %q", got)
			}
		})
	}
}
