// Package render formats stored chain documents for human review.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/output"
)

// Document renders a chain document to the printer in human-readable
// form: header, summary, metrics, then each step with its file changes.
func Document(printer *output.Printer, doc *chain.Document) {
	writeHeader(printer, doc)
	writeMetrics(printer, doc.Metadata.Metrics, len(doc.Chain.Steps))
	writeSteps(printer, doc.Chain.Steps)
}

// writeHeader prints the chain identity and commit association.
func writeHeader(printer *output.Printer, doc *chain.Document) {
	printer.Println(doc.Chain.ChainID)

	printer.Section("Chain")
	if doc.Chain.Summary != "" {
		printer.KeyValue("Summary", doc.Chain.Summary)
	}
	printer.KeyValue("Repository", doc.Metadata.Repository.Name)
	printer.KeyValue("Started", doc.Chain.StartTime.Format("2006-01-02 15:04:05 UTC"))
	if doc.Chain.EndTime != nil {
		printer.KeyValue("Ended", doc.Chain.EndTime.Format("2006-01-02 15:04:05 UTC"))
	}
	if doc.Chain.CommitSHA != "" {
		commitValue := shortSHA(doc.Chain.CommitSHA)
		if doc.Chain.Branch != "" {
			commitValue += " (" + doc.Chain.Branch + ")"
		}
		printer.KeyValue("Commit", commitValue)
	}
}

// writeMetrics prints the aggregate statistics block.
func writeMetrics(printer *output.Printer, m chain.Metrics, stepCount int) {
	printer.Section("Metrics")
	printer.KeyValue("Steps", strconv.Itoa(stepCount))
	printer.KeyValue("Duration", formatDuration(m.DurationMs))
	printer.KeyValue("Changed", fmt.Sprintf("%d files, +%d/-%d lines (%d modifying steps)",
		m.UniqueFilesChanged, m.TotalLinesAdded, m.TotalLinesDeleted, m.ModificationSteps))
	printer.KeyValue("Styles", fmt.Sprintf("%d interrogative, %d imperative, %d narrative",
		m.Prompts.StyleCounts.Interrogative, m.Prompts.StyleCounts.Imperative, m.Prompts.StyleCounts.Narrative))
	printer.KeyValue("Avg prompt", strconv.Itoa(m.Prompts.AvgLengthChars)+" chars")
}

// writeSteps prints each step with truncated prompt/response previews.
func writeSteps(printer *output.Printer, steps []chain.PromptStep) {
	for i, step := range steps {
		printer.Section(fmt.Sprintf("Step %d", i+1))
		printer.KeyValue("At", step.Timestamp.Format("15:04:05"))
		printer.KeyValue("Prompt", preview(step.Prompt))
		printer.KeyValue("Response", preview(step.Response))
		for _, diff := range step.FileDiffs {
			printer.Println(fmt.Sprintf("  %-8s %s (+%d/-%d)", diff.ChangeType, diff.FilePath, diff.LinesAdded, diff.LinesDeleted))
		}
	}
}

// Markdown formats a chain document as a markdown export.
func Markdown(doc *chain.Document) string {
	var b strings.Builder

	title := doc.Chain.Summary
	if title == "" {
		title = "Prompt chain " + shortID(doc.Chain.ChainID)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	fmt.Fprintf(&b, "- Chain: `%s`\n", doc.Chain.ChainID)
	fmt.Fprintf(&b, "- Repository: %s\n", doc.Metadata.Repository.Name)
	fmt.Fprintf(&b, "- Started: %s\n", doc.Chain.StartTime.Format(time.RFC3339))
	if doc.Chain.CommitSHA != "" {
		fmt.Fprintf(&b, "- Commit: `%s`", shortSHA(doc.Chain.CommitSHA))
		if doc.Chain.Branch != "" {
			fmt.Fprintf(&b, " on %s", doc.Chain.Branch)
		}
		b.WriteString("\n")
	}

	m := doc.Metadata.Metrics
	fmt.Fprintf(&b, "- Changes: %d files, +%d/-%d lines over %d steps\n\n",
		m.UniqueFilesChanged, m.TotalLinesAdded, m.TotalLinesDeleted, len(doc.Chain.Steps))

	for i, step := range doc.Chain.Steps {
		fmt.Fprintf(&b, "## Step %d\n\n", i+1)
		fmt.Fprintf(&b, "**Prompt:** %s\n\n", step.Prompt)
		fmt.Fprintf(&b, "**Response:** %s\n\n", step.Response)
		for _, diff := range step.FileDiffs {
			fmt.Fprintf(&b, "- %s `%s` (+%d/-%d)\n", diff.ChangeType, diff.FilePath, diff.LinesAdded, diff.LinesDeleted)
		}
		if len(step.FileDiffs) > 0 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// previewLimit caps prompt/response previews in terminal output.
const previewLimit = 120

// preview collapses text to a single truncated line.
// Truncation is by rune so multibyte text is never split mid-sequence.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if flat == "" {
		return "(empty)"
	}
	if runes := []rune(flat); len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return flat
}

// formatDuration renders milliseconds as a friendly duration.
func formatDuration(ms int64) string {
	if ms == 0 {
		return "0s"
	}
	return (time.Duration(ms) * time.Millisecond).Round(time.Second).String()
}

// shortSHA returns a shortened SHA (first 7 characters).
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// shortID returns a shortened chain ID (first 8 characters).
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
