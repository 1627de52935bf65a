// Package tips generates advisory text about a recorded prompt chain.
//
// Two generators exist: an LLM-backed one used only when provider
// credentials are present, and a local heuristic one that always works.
// Callers treat generation as best-effort: an LLM failure degrades to
// the local generator, never to a failed command.
package tips

import (
	"context"
	"fmt"
	"strings"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/llm"
)

// Generator produces advisory text for a chain document.
type Generator interface {
	Generate(ctx context.Context, doc *chain.Document) (string, error)
}

// New selects a generator: LLM-backed when the provider's credentials
// are present, otherwise the local heuristic generator. Core behavior
// never branches on the environment directly; the capability check
// happens once, here.
func New(model string, provider llm.Provider) Generator {
	if provider == "" {
		provider = llm.ProviderAnthropic
	}
	if llm.HasCredentials(provider) {
		if gen, err := NewLLMGenerator(model, provider); err == nil {
			return gen
		}
	}
	return LocalGenerator{}
}

// --- LLM generator ---

// LLMGenerator asks an LLM for tips based on chain metrics and prompts.
type LLMGenerator struct {
	client *llm.Client
}

// NewLLMGenerator creates an LLM-backed generator.
func NewLLMGenerator(model string, provider llm.Provider) (*LLMGenerator, error) {
	if model == "" {
		model = "haiku"
	}
	client, err := llm.New(model, provider)
	if err != nil {
		return nil, err
	}
	return &LLMGenerator{client: client}, nil
}

// tipsSystemPrompt frames the model as a prompt-engineering reviewer.
const tipsSystemPrompt = `You review logs of prompt/response sessions from AI-assisted coding.
Given session statistics and the prompts used, give 2-4 short, concrete
tips to improve future prompting. Plain text, one tip per line, no preamble.`

// Generate asks the LLM for tips. Errors propagate so the caller can
// fall back to the local generator.
func (g *LLMGenerator) Generate(ctx context.Context, doc *chain.Document) (string, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		System:      tipsSystemPrompt,
		Prompt:      buildTipsPrompt(doc),
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// buildTipsPrompt summarizes the chain for the model.
func buildTipsPrompt(doc *chain.Document) string {
	m := doc.Metadata.Metrics
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %d steps over %dms.\n", len(doc.Chain.Steps), m.DurationMs)
	fmt.Fprintf(&b, "Steps that modified files: %d. Unique files changed: %d (+%d/-%d lines).\n",
		m.ModificationSteps, m.UniqueFilesChanged, m.TotalLinesAdded, m.TotalLinesDeleted)
	fmt.Fprintf(&b, "Prompt styles: %d questions, %d commands, %d descriptions. Average prompt length: %d chars.\n",
		m.Prompts.StyleCounts.Interrogative, m.Prompts.StyleCounts.Imperative,
		m.Prompts.StyleCounts.Narrative, m.Prompts.AvgLengthChars)

	b.WriteString("\nPrompts:\n")
	for i, step := range doc.Chain.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncatePrompt(step.Prompt))
	}

	return b.String()
}

// promptPreviewRunes caps prompt text quoted back to the model.
const promptPreviewRunes = 200

// truncatePrompt shortens a prompt on a rune boundary so multibyte
// text is never split mid-sequence.
func truncatePrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= promptPreviewRunes {
		return prompt
	}
	return string(runes[:promptPreviewRunes]) + "..."
}

// --- Local generator ---

// LocalGenerator derives tips from metrics alone, with fixed rules.
// It never fails.
type LocalGenerator struct{}

// Thresholds for the local heuristics.
const (
	shortPromptChars  = 40
	longPromptChars   = 400
	largeChangeLines  = 500
	manyStepsPerChain = 15
)

// Generate produces rule-based tips from the document's metrics.
func (LocalGenerator) Generate(_ context.Context, doc *chain.Document) (string, error) {
	m := doc.Metadata.Metrics
	stepCount := len(doc.Chain.Steps)
	var lines []string

	if stepCount == 0 {
		return "No steps recorded; log prompts with their responses to get useful metrics.", nil
	}

	if m.Prompts.AvgLengthChars < shortPromptChars {
		lines = append(lines, "Prompts are very short on average; adding context and constraints usually reduces back-and-forth.")
	}
	if m.Prompts.AvgLengthChars > longPromptChars {
		lines = append(lines, "Prompts are long on average; consider splitting multi-part requests into separate steps.")
	}
	if m.ModificationSteps == 0 {
		lines = append(lines, "No step produced file changes; capture diffs with --capture so chains link prompts to code.")
	}
	if m.TotalLinesAdded+m.TotalLinesDeleted > largeChangeLines {
		lines = append(lines, "This chain touched a lot of lines; smaller chains per commit make review and rollback easier.")
	}
	if stepCount > manyStepsPerChain {
		lines = append(lines, "Long chain; ending a chain per logical unit of work keeps the commit index useful.")
	}
	if m.Prompts.StyleCounts.Narrative > m.Prompts.StyleCounts.Imperative+m.Prompts.StyleCounts.Interrogative {
		lines = append(lines, "Most prompts are descriptive; leading with an action verb tends to produce more direct edits.")
	}

	if len(lines) == 0 {
		lines = append(lines, "Balanced session; nothing stands out in the metrics.")
	}

	return strings.Join(lines, "\n"), nil
}
