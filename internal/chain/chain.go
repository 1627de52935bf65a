// Package chain provides the prompt-chain data model, metrics, lifecycle,
// and JSON-file storage for the chainlog ledger.
package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is the version tag written into every persisted document.
const DocumentVersion = "1.0.0"

// ChangeType classifies how a file was changed within a step.
type ChangeType string

// Supported change types.
const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// FileDiff records one file's change within a step.
// When Diff is non-empty, LinesAdded/LinesDeleted match CountDiffLines(Diff);
// when Diff is empty, externally supplied counts are trusted as-is.
type FileDiff struct {
	FilePath     string     `json:"filePath"`
	ChangeType   ChangeType `json:"changeType"`
	Diff         string     `json:"diff"`
	LinesAdded   int        `json:"linesAdded"`
	LinesDeleted int        `json:"linesDeleted"`
}

// PromptStep is one prompt/response exchange.
// Steps are immutable once appended to a chain.
type PromptStep struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Prompt    string     `json:"prompt"`
	Response  string     `json:"response"`
	FileDiffs []FileDiff `json:"fileDiffs,omitempty"`
}

// PromptChain is one logical unit of work: an ordered, append-only
// sequence of steps, optionally tied to a commit at end time.
type PromptChain struct {
	ChainID   string       `json:"chainId"`
	StartTime time.Time    `json:"startTime"`
	EndTime   *time.Time   `json:"endTime,omitempty"`
	CommitSHA string       `json:"commitSha,omitempty"`
	Branch    string       `json:"branch,omitempty"`
	Summary   string       `json:"summary,omitempty"`
	Steps     []PromptStep `json:"steps"`
}

// Ended reports whether the chain has been sealed by EndChain.
func (c *PromptChain) Ended() bool {
	return c.EndTime != nil
}

// Repository identifies the repository a document was recorded in.
type Repository struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Metadata is the envelope written alongside the chain in a document.
type Metadata struct {
	Version    string     `json:"version"`
	Created    time.Time  `json:"created"`
	Repository Repository `json:"repository"`
	Metrics    Metrics    `json:"metrics"`
}

// Document is the persisted unit: metadata plus the chain itself.
// One document per chain, identified by ChainID.
type Document struct {
	Metadata Metadata    `json:"metadata"`
	Chain    PromptChain `json:"chain"`
}

// NewID returns a fresh unique identifier for chains and steps.
func NewID() string {
	return uuid.NewString()
}

// ToJSON serializes the document with stable indentation.
func (d *Document) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing chain document: %w", err)
	}
	return data, nil
}

// DocumentFromJSON deserializes a document from JSON.
func DocumentFromJSON(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty JSON data")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing chain document: %w", err)
	}

	return &doc, nil
}
