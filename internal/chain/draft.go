package chain

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rowanvale/chainlog/internal/output"
)

// draftFileName holds the chain currently being built between CLI
// invocations. The lifecycle state machine is in-memory; a short-lived
// CLI process parks the active chain here and resumes it on the next
// command. The draft is CLI-private state, not part of the persisted
// document layout.
const draftFileName = "current-chain.json"

// draftPath returns the draft file path.
func (s *Store) draftPath() string {
	return filepath.Join(s.dir, draftFileName)
}

// LoadDraft reads the parked active chain.
// Returns nil when no draft exists or it cannot be parsed.
func (s *Store) LoadDraft() *PromptChain {
	data, err := os.ReadFile(s.draftPath())
	if err != nil {
		return nil
	}

	var c PromptChain
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// SaveDraft parks the active chain for the next CLI invocation.
func (s *Store) SaveDraft(c *PromptChain) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return output.NewSystemError("failed to serialize draft chain: " + err.Error())
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return output.NewSystemErrorWithCause("failed to create storage directory", err)
	}

	if err := atomicWrite(s.draftPath(), data); err != nil {
		return output.NewSystemErrorWithCause("failed to write draft chain", err)
	}
	return nil
}

// ClearDraft removes the draft file. Missing draft is not an error.
func (s *Store) ClearDraft() error {
	if err := os.Remove(s.draftPath()); err != nil && !os.IsNotExist(err) {
		return output.NewSystemErrorWithCause("failed to clear draft chain", err)
	}
	return nil
}
