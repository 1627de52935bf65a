package render

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/output"
)

func testDoc() *chain.Document {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	c := chain.PromptChain{
		ChainID:   "0f0e0d0c-aaaa-bbbb-cccc-111122223333",
		StartTime: start,
		EndTime:   &end,
		CommitSHA: "deadbeefcafebabe0123",
		Branch:    "main",
		Summary:   "add rate limiting",
		Steps: []chain.PromptStep{
			{
				ID:        "s1",
				Timestamp: start,
				Prompt:    "add a token bucket limiter",
				Response:  "Added limiter with refill",
				FileDiffs: []chain.FileDiff{
					{FilePath: "limit.go", ChangeType: chain.ChangeAdded, LinesAdded: 55},
				},
			},
			{
				ID:        "s2",
				Timestamp: end,
				Prompt:    "what happens on burst?",
				Response:  "Bucket drains and requests queue",
			},
		},
	}
	return &chain.Document{
		Metadata: chain.Metadata{
			Version:    chain.DocumentVersion,
			Created:    end,
			Repository: chain.Repository{Name: "demo", Path: "/tmp/demo"},
			Metrics:    chain.ComputeMetrics(&c),
		},
		Chain: c,
	}
}

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	printer := output.NewPrinter(&buf, false, false)

	Document(printer, testDoc())
	out := buf.String()

	for _, want := range []string{
		"0f0e0d0c-aaaa-bbbb-cccc-111122223333",
		"add rate limiting",
		"deadbee (main)",
		"Step 1",
		"Step 2",
		"limit.go",
		"1 interrogative, 1 imperative, 0 narrative",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(testDoc())

	for _, want := range []string{
		"# add rate limiting",
		"- Repository: demo",
		"`deadbee` on main",
		"## Step 1",
		"**Prompt:** add a token bucket limiter",
		"- added `limit.go` (+55/-0)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestMarkdownUntitled(t *testing.T) {
	doc := testDoc()
	doc.Chain.Summary = ""

	md := Markdown(doc)
	if !strings.Contains(md, "# Prompt chain 0f0e0d0c") {
		t.Errorf("markdown missing fallback title:\n%s", md)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "(empty)"},
		{"multiline collapsed", "line one\nline two", "line one line two"},
		{"long truncated", strings.Repeat("abcde ", 40), strings.Repeat("abcde ", 20)[:120] + "..."},
		{"multibyte truncated on rune boundary", strings.Repeat("é", 200), strings.Repeat("é", 120) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preview(tt.in)
			if got != tt.want {
				t.Errorf("preview = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("preview produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0s"},
		{90000, "1m30s"},
		{900000, "15m0s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
