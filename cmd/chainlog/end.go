// Package main provides the entry point for the chainlog CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/git"
	"github.com/rowanvale/chainlog/internal/output"
)

// newEndCmd creates the end command.
func newEndCmd() *cobra.Command {
	var commitFlag, branchFlag string
	var noSaveFlag bool

	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the active chain and save it",
		Long: `End the chain in progress, compute its metrics, and save it.

With --commit, the chain is associated with that commit (any ref:
HEAD, a branch, an abbreviated SHA) and indexed under the resolved
full SHA. The branch defaults to the current branch when a commit
is given. Ending with no active chain is not an error.

Examples:
  chainlog end                      # Save without a commit association
  chainlog end --commit HEAD        # Associate with the commit just made
  chainlog end --no-save            # Discard the chain in progress`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnd(cmd, commitFlag, branchFlag, noSaveFlag)
		},
	}

	cmd.Flags().StringVar(&commitFlag, "commit", "", "Commit ref to associate the chain with")
	cmd.Flags().StringVar(&branchFlag, "branch", "", "Branch name to record (defaults to current branch with --commit)")
	cmd.Flags().BoolVar(&noSaveFlag, "no-save", false, "Discard the chain instead of saving it")

	return cmd
}

// runEnd executes the end command.
func runEnd(cmd *cobra.Command, commitRef, branch string, noSave bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	draft := store.LoadDraft()
	if draft == nil {
		// Ending while idle is benign.
		return printer.Success(map[string]any{
			"message": "No active chain to end",
			"saved":   false,
		})
	}

	lifecycle := chain.NewLifecycle()
	if err := lifecycle.Resume(draft); err != nil {
		wrapped := output.NewSystemError("cannot continue chain: " + err.Error())
		printer.Error(wrapped)
		return wrapped
	}

	sha, branch, err := resolveCommit(commitRef, branch)
	if err != nil {
		printer.Error(err)
		return err
	}

	ended := lifecycle.EndChain(sha, branch)

	if noSave {
		if err := store.ClearDraft(); err != nil {
			printer.Error(err)
			return err
		}
		return printer.Success(map[string]any{
			"message":  "Discarded chain " + ended.ChainID,
			"chain_id": ended.ChainID,
			"saved":    false,
		})
	}

	doc, err := store.Save(ended)
	if err != nil {
		printer.Error(err)
		return err
	}
	if err := store.ClearDraft(); err != nil {
		printer.Error(err)
		return err
	}

	result := map[string]any{
		"message":  "Saved chain " + doc.Chain.ChainID,
		"chain_id": doc.Chain.ChainID,
		"saved":    true,
		"steps":    len(doc.Chain.Steps),
		"metrics":  doc.Metadata.Metrics,
	}
	if sha != "" {
		result["commit_sha"] = sha
	}
	return printer.Success(result)
}

// resolveCommit resolves the --commit ref to a full SHA and fills in the
// branch default. An empty ref means no commit association.
func resolveCommit(commitRef, branch string) (string, string, error) {
	if commitRef == "" {
		return "", branch, nil
	}

	sha, err := git.ResolveSHA(commitRef)
	if err != nil {
		return "", "", err
	}

	if branch == "" {
		branch, err = git.CurrentBranch()
		if err != nil {
			return "", "", err
		}
	}
	return sha, branch, nil
}
