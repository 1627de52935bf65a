// Package main provides the entry point for the chainlog CLI.
package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/git"
	"github.com/rowanvale/chainlog/internal/output"
)

// statusResult holds the data for status output.
type statusResult struct {
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
	Head       string `json:"head"`
	StorageDir string `json:"storage_dir"`
	DirExists  bool   `json:"dir_exists"`
	ChainCount int    `json:"chain_count"`
	Active     *chain.PromptChain
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show repository and chain state",
		Long: `Show the current state of the repository and chain storage.

Displays repository info (name, branch, HEAD), the storage directory,
stored chain count, and the chain in progress if one exists.

Examples:
  chainlog status          # Show human-readable status
  chainlog status --json   # Output status as JSON for scripting`,
		RunE: runStatus,
	}
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())

	store, err := openStore()
	if err != nil {
		printer.Error(err)
		return err
	}

	result, err := gatherStatus(store)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		data := map[string]any{
			"repo":        result.Repo,
			"branch":      result.Branch,
			"head":        result.Head,
			"storage_dir": result.StorageDir,
			"dir_exists":  result.DirExists,
			"chain_count": result.ChainCount,
		}
		if result.Active != nil {
			data["active_chain"] = map[string]any{
				"chain_id": result.Active.ChainID,
				"summary":  result.Active.Summary,
				"steps":    len(result.Active.Steps),
				"started":  result.Active.StartTime,
			}
		}
		return printer.Success(data)
	}

	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects all status information.
func gatherStatus(store *chain.Store) (*statusResult, error) {
	root, err := git.RepoRoot()
	if err != nil {
		return nil, err
	}

	branch, err := git.CurrentBranch()
	if err != nil {
		return nil, err
	}

	head, err := git.ResolveSHA("HEAD")
	if err != nil {
		return nil, err
	}

	dirInfo, statErr := os.Stat(store.Dir())
	dirExists := statErr == nil && dirInfo.IsDir()

	return &statusResult{
		Repo:       filepath.Base(root),
		Branch:     branch,
		Head:       head,
		StorageDir: store.Dir(),
		DirExists:  dirExists,
		ChainCount: len(store.ListAll()),
		Active:     store.LoadDraft(),
	}, nil
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(printer *output.Printer, status *statusResult) {
	printer.Section("Repository")
	printer.KeyValue("Repo", status.Repo)
	printer.KeyValue("Branch", status.Branch)
	printer.KeyValue("HEAD", status.Head[:min(12, len(status.Head))])

	printer.Section("Chain Storage")
	printer.KeyValue("Directory", status.StorageDir)
	printer.KeyValue("Initialized", formatBool(status.DirExists))
	printer.KeyValue("Chains", strconv.Itoa(status.ChainCount))

	if status.Active != nil {
		printer.Section("In Progress")
		printer.KeyValue("Chain", status.Active.ChainID)
		if status.Active.Summary != "" {
			printer.KeyValue("Summary", status.Active.Summary)
		}
		printer.KeyValue("Steps", strconv.Itoa(len(status.Active.Steps)))
		printer.KeyValue("Started", status.Active.StartTime.Format("2006-01-02 15:04:05 UTC"))
	}
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
