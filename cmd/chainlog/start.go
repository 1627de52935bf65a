// Package main provides the entry point for the chainlog CLI.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/output"
)

// newStartCmd creates the start command.
func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [summary...]",
		Short: "Start a new prompt chain",
		Long: `Start a new prompt chain for the current repository.

The chain stays in progress until 'chainlog end'. Each 'chainlog step'
adds one prompt/response exchange to it. Starting while a chain is in
progress discards the unsaved chain (a warning is printed).

Examples:
  chainlog start                          # Start an unnamed chain
  chainlog start refactor auth middleware # Start with a summary`,
		RunE: runStart,
	}
}

// runStart executes the start command.
func runStart(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	// Last writer wins: an in-progress chain is dropped, not merged.
	if draft := store.LoadDraft(); draft != nil {
		printer.Warn("discarding unsaved chain %s (%d steps)", draft.ChainID, len(draft.Steps))
	}

	lifecycle := chain.NewLifecycle()
	started := lifecycle.StartChain(strings.Join(args, " "))

	if err := store.SaveDraft(started); err != nil {
		printer.Error(err)
		return err
	}

	return printer.Success(map[string]any{
		"message":  "Started chain " + started.ChainID,
		"chain_id": started.ChainID,
		"summary":  started.Summary,
	})
}
