// Package main provides the entry point for the chainlog CLI.
package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/config"
	"github.com/rowanvale/chainlog/internal/llm"
	"github.com/rowanvale/chainlog/internal/output"
	"github.com/rowanvale/chainlog/internal/tips"
)

// newTipsCmd creates the tips command.
func newTipsCmd() *cobra.Command {
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "tips [chain-id]",
		Short: "Get prompting tips for a recorded chain",
		Long: `Analyze a recorded chain and suggest how to prompt better.

Without a chain ID, the most recently started chain is used. Uses an
LLM when provider credentials are available (via environment or env
files); otherwise falls back to built-in heuristics over the chain's
metrics. LLM failures also fall back; tips never fail a run.

Examples:
  chainlog tips                        # Latest chain
  chainlog tips 4f1c2e80-...
  chainlog tips 4f1c2e80-... --model sonnet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID := ""
			if len(args) > 0 {
				chainID = args[0]
			}
			return runTips(cmd, chainID, modelFlag)
		},
	}

	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model to use (name or alias like haiku, sonnet)")

	return cmd
}

// runTips executes the tips command.
func runTips(cmd *cobra.Command, chainID, model string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	if chainID == "" {
		chainID = latestChainID(store)
		if chainID == "" {
			err := output.NewUserError("no chains recorded yet")
			printer.Error(err)
			return err
		}
	}

	doc := store.Load(chainID)
	if doc == nil {
		err := output.NewUserError("chain not found: " + chainID)
		printer.Error(err)
		return err
	}

	cfg := config.Load()
	if model == "" {
		model = cfg.Model
	}

	generator := tips.New(model, llm.Provider(cfg.Provider))
	text, err := generator.Generate(cmd.Context(), doc)
	if err != nil {
		// Degrade to the local generator rather than failing the command.
		printer.Warn("AI tips unavailable: %v", err)
		text, _ = tips.LocalGenerator{}.Generate(context.Background(), doc)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"chain_id": chainID,
			"tips":     text,
		})
	}

	printer.Section("Tips")
	printer.Println(text)
	return nil
}

// latestChainID returns the ID of the most recently started chain, or
// "" when nothing is stored. File names sort lexically, so start times
// decide recency.
func latestChainID(store *chain.Store) string {
	latest := ""
	var latestStart time.Time
	for _, id := range store.ListAll() {
		doc := store.Load(id)
		if doc == nil {
			continue
		}
		if latest == "" || doc.Chain.StartTime.After(latestStart) {
			latest = id
			latestStart = doc.Chain.StartTime
		}
	}
	return latest
}
