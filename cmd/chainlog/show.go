// Package main provides the entry point for the chainlog CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/git"
	"github.com/rowanvale/chainlog/internal/output"
	"github.com/rowanvale/chainlog/internal/render"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	var commitFlag string
	var markdownFlag bool

	cmd := &cobra.Command{
		Use:   "show [chain-id]",
		Short: "Display a stored chain",
		Long: `Display a stored chain with its steps, file changes, and metrics.

Pass a chain ID, or use --commit to show every chain recorded against
a commit.

Examples:
  chainlog show 4f1c2e80-...      # One chain by ID
  chainlog show --commit HEAD     # All chains for the current commit
  chainlog show <id> --markdown   # Markdown export
  chainlog show <id> --json       # Raw document as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, commitFlag, markdownFlag)
		},
	}

	cmd.Flags().StringVar(&commitFlag, "commit", "", "Show chains recorded for this commit ref")
	cmd.Flags().BoolVar(&markdownFlag, "markdown", false, "Output as markdown")

	return cmd
}

// runShow executes the show command.
func runShow(cmd *cobra.Command, args []string, commitRef string, markdown bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	if len(args) == 0 && commitRef == "" {
		err := output.NewUserError("specify a chain ID or --commit")
		printer.Error(err)
		return err
	}
	if len(args) > 0 && commitRef != "" {
		err := output.NewUserError("cannot use both a chain ID and --commit")
		printer.Error(err)
		return err
	}

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	if commitRef != "" {
		sha, err := git.ResolveSHA(commitRef)
		if err != nil {
			printer.Error(err)
			return err
		}

		docs := store.LoadByCommit(sha)
		if printer.IsJSON() {
			return printer.WriteJSON(map[string]any{
				"count":  len(docs),
				"chains": docs,
			})
		}
		if len(docs) == 0 {
			printer.Println("No chains found for commit " + shortSHA(sha))
			return nil
		}
		for _, doc := range docs {
			if markdown {
				printer.Print("%s", render.Markdown(doc))
			} else {
				render.Document(printer, doc)
			}
		}
		return nil
	}

	doc := store.Load(args[0])
	if doc == nil {
		err := output.NewUserError("chain not found: " + args[0])
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(doc)
	}
	if markdown {
		printer.Print("%s", render.Markdown(doc))
		return nil
	}
	render.Document(printer, doc)
	return nil
}
