// Package main provides the entry point for the chainlog CLI.
package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/git"
	"github.com/rowanvale/chainlog/internal/output"
)

// listRow is one chain in list output.
type listRow struct {
	ChainID   string `json:"chainId"`
	Started   string `json:"started"`
	Steps     int    `json:"steps"`
	CommitSHA string `json:"commitSha,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	var commitFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored chains",
		Long: `List the chains stored for this repository.

With --commit, only the chains recorded against that commit are listed,
in the order they were saved.

Examples:
  chainlog list                 # All chains
  chainlog list --commit HEAD   # Chains for the current commit
  chainlog list --json          # Structured output`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, commitFlag)
		},
	}

	cmd.Flags().StringVar(&commitFlag, "commit", "", "List only chains for this commit ref")

	return cmd
}

// runList executes the list command.
func runList(cmd *cobra.Command, commitRef string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	var ids []string
	if commitRef != "" {
		sha, err := git.ResolveSHA(commitRef)
		if err != nil {
			printer.Error(err)
			return err
		}
		ids = store.ListByCommit(sha)
	} else {
		ids = store.ListAll()
	}

	rows := buildListRows(store, ids)

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"count":  len(rows),
			"chains": rows,
		})
	}

	if len(rows) == 0 {
		printer.Println("No chains found")
		return nil
	}

	headers := []string{"CHAIN", "STARTED", "STEPS", "COMMIT", "SUMMARY"}
	var tableRows [][]string
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			shortID(row.ChainID),
			row.Started,
			strconv.Itoa(row.Steps),
			shortSHA(row.CommitSHA),
			row.Summary,
		})
	}
	printer.Table(headers, tableRows)
	return nil
}

// buildListRows loads each chain document and extracts display fields.
// Chains whose files fail to load are skipped.
func buildListRows(store *chain.Store, ids []string) []listRow {
	rows := []listRow{}
	for _, id := range ids {
		doc := store.Load(id)
		if doc == nil {
			continue
		}
		rows = append(rows, listRow{
			ChainID:   doc.Chain.ChainID,
			Started:   doc.Chain.StartTime.Format("2006-01-02 15:04"),
			Steps:     len(doc.Chain.Steps),
			CommitSHA: doc.Chain.CommitSHA,
			Summary:   doc.Chain.Summary,
		})
	}
	return rows
}

// shortID returns a shortened chain ID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// shortSHA returns a shortened commit SHA for table display.
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
