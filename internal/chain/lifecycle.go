package chain

import (
	"errors"
	"time"
)

// ErrNoActiveChain is returned by AddStep when no chain is active.
var ErrNoActiveChain = errors.New("no active chain")

// Lifecycle is the in-memory state machine for the chain being built.
// It has two states: Idle (no active chain) and Active (one chain
// accepting steps). The zero value is not ready; use NewLifecycle.
//
// Lifecycle holds no storage: sealing a chain with EndChain and
// persisting it through Store.Save are separate, explicitly decoupled
// steps. A Lifecycle is a plain session object, so independent
// lifecycles (tests, multiple repos) never share state.
type Lifecycle struct {
	active *PromptChain
	now    func() time.Time
}

// NewLifecycle creates a Lifecycle in the Idle state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{now: time.Now}
}

// StartChain transitions to Active with a fresh chain and returns it.
// It always succeeds: if a chain is already active it is discarded
// in-memory without being saved (last writer wins).
func (l *Lifecycle) StartChain(summary string) *PromptChain {
	l.active = &PromptChain{
		ChainID:   NewID(),
		StartTime: l.now().UTC(),
		Summary:   summary,
		Steps:     []PromptStep{},
	}
	return l.active
}

// AddStep appends a new step to the active chain and returns it.
// Returns ErrNoActiveChain when Idle; the chain is unchanged in that case.
func (l *Lifecycle) AddStep(prompt, response string, fileDiffs []FileDiff) (*PromptStep, error) {
	if l.active == nil {
		return nil, ErrNoActiveChain
	}

	step := PromptStep{
		ID:        NewID(),
		Timestamp: l.now().UTC(),
		Prompt:    prompt,
		Response:  response,
		FileDiffs: append([]FileDiff(nil), fileDiffs...),
	}
	l.active.Steps = append(l.active.Steps, step)
	return &l.active.Steps[len(l.active.Steps)-1], nil
}

// EndChain seals the active chain: stamps the end time, commit SHA, and
// branch, detaches it from the active slot, and returns it. Returns nil
// when Idle, with no state change. The returned chain is not saved.
func (l *Lifecycle) EndChain(commitSHA, branch string) *PromptChain {
	if l.active == nil {
		return nil
	}

	ended := l.active
	now := l.now().UTC()
	ended.EndTime = &now
	ended.CommitSHA = commitSHA
	ended.Branch = branch
	l.active = nil
	return ended
}

// CurrentChain returns the active chain without transitioning state,
// or nil when Idle.
func (l *Lifecycle) CurrentChain() *PromptChain {
	return l.active
}

// Resume places a previously started chain back into the active slot.
// Used by the CLI to continue a chain parked as a draft between
// invocations. An ended chain cannot be resumed.
func (l *Lifecycle) Resume(c *PromptChain) error {
	if c == nil {
		return errors.New("cannot resume nil chain")
	}
	if c.Ended() {
		return errors.New("cannot resume an ended chain")
	}
	l.active = c
	return nil
}
