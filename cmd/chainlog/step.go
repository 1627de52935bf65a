// Package main provides the entry point for the chainlog CLI.
package main

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/git"
	"github.com/rowanvale/chainlog/internal/output"
)

// newStepCmd creates the step command.
func newStepCmd() *cobra.Command {
	var promptFlag, responseFlag string
	var captureFlag bool
	var fileFlags []string

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Add a prompt/response step to the active chain",
		Long: `Add one prompt/response exchange to the chain in progress.

With --capture, the current uncommitted changes in the working tree are
recorded on the step as per-file diffs with line counts. Run step after
the assistant's edits land so the diffs reflect that exchange. Use
--file (repeatable) to capture only specific paths.

Examples:
  chainlog step --prompt "add retry logic" --response "Added retries with backoff"
  chainlog step --prompt "why does this flake?" --response "..." --capture
  chainlog step --prompt "tidy the parser" --capture --file parser.go`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStep(cmd, promptFlag, responseFlag, captureFlag, fileFlags)
		},
	}

	cmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Prompt text (required)")
	cmd.Flags().StringVarP(&responseFlag, "response", "r", "", "Response text")
	cmd.Flags().BoolVarP(&captureFlag, "capture", "c", false, "Capture uncommitted file diffs on this step")
	cmd.Flags().StringArrayVar(&fileFlags, "file", nil, "Capture only these paths (implies --capture)")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

// runStep executes the step command.
func runStep(cmd *cobra.Command, prompt, response string, capture bool, files []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	draft := store.LoadDraft()
	if draft == nil {
		err := output.NewUserError("no active chain. Run 'chainlog start' first")
		printer.Error(err)
		return err
	}

	lifecycle := chain.NewLifecycle()
	if err := lifecycle.Resume(draft); err != nil {
		wrapped := output.NewSystemError("cannot continue chain: " + err.Error())
		printer.Error(wrapped)
		return wrapped
	}

	var fileDiffs []chain.FileDiff
	if capture || len(files) > 0 {
		fileDiffs, err = captureWorkingTree(files)
		if err != nil {
			printer.Error(err)
			return err
		}
	}

	step, err := lifecycle.AddStep(prompt, response, fileDiffs)
	if err != nil {
		wrapped := output.NewUserError(err.Error())
		printer.Error(wrapped)
		return wrapped
	}

	if err := store.SaveDraft(lifecycle.CurrentChain()); err != nil {
		printer.Error(err)
		return err
	}

	return printer.Success(map[string]any{
		"message":  "Recorded step " + strconv.Itoa(len(draft.Steps)) + " on chain " + draft.ChainID,
		"chain_id": draft.ChainID,
		"step_id":  step.ID,
		"steps":    len(draft.Steps),
		"files":    len(step.FileDiffs),
	})
}

// captureWorkingTree snapshots the uncommitted changes as FileDiffs.
// A non-empty only list restricts capture to those paths. Untracked
// files have no diff against HEAD; their full line count is recorded as
// additions instead.
func captureWorkingTree(only []string) ([]chain.FileDiff, error) {
	files, err := git.WorkingTreeFiles()
	if err != nil {
		return nil, err
	}

	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(only))
	for _, path := range only {
		wanted[path] = true
	}

	var diffs []chain.FileDiff
	for _, file := range files {
		if len(wanted) > 0 && !wanted[file.Path] {
			continue
		}
		if file.Status == '?' {
			diffs = append(diffs, chain.FileDiff{
				FilePath:   file.Path,
				ChangeType: chain.ChangeAdded,
				LinesAdded: git.CountFileLines(filepath.Join(root, file.Path)),
			})
			continue
		}

		patch, err := git.DiffWorkingTree(file.Path)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, chain.FileDiffFromPatch(file.Path, statusChangeType(file.Status), patch))
	}

	return diffs, nil
}

// statusChangeType maps a porcelain status letter to a change type.
func statusChangeType(status byte) chain.ChangeType {
	switch status {
	case 'A', '?':
		return chain.ChangeAdded
	case 'D':
		return chain.ChangeDeleted
	default:
		return chain.ChangeModified
	}
}
