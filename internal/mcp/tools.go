package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rowanvale/chainlog/internal/chain"
	"github.com/rowanvale/chainlog/internal/git"
)

// --- Record tool ---

// RecordStep is one prompt/response exchange in a recorded chain.
type RecordStep struct {
	Prompt   string `json:"prompt"   jsonschema:"the prompt text"`
	Response string `json:"response" jsonschema:"the response text"`
}

// RecordInput is the input for the record tool.
type RecordInput struct {
	Summary   string       `json:"summary,omitempty"    jsonschema:"short description of the chain"`
	Steps     []RecordStep `json:"steps"                jsonschema:"ordered prompt/response steps"`
	CommitSHA string       `json:"commit_sha,omitempty" jsonschema:"commit SHA to associate the chain with"`
	Branch    string       `json:"branch,omitempty"     jsonschema:"branch name at commit time"`
}

// RecordOutput is the output for the record tool.
type RecordOutput struct {
	ChainID string        `json:"chain_id" jsonschema:"ID of the recorded chain"`
	Path    string        `json:"path"     jsonschema:"path of the written chain file"`
	Metrics chain.Metrics `json:"metrics"  jsonschema:"computed chain metrics"`
}

func handleRecord(store *chain.Store) mcp.ToolHandlerFor[RecordInput, RecordOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RecordInput) (*mcp.CallToolResult, RecordOutput, error) {
		if len(input.Steps) == 0 {
			return nil, RecordOutput{}, errors.New("at least one step is required")
		}

		lifecycle := chain.NewLifecycle()
		lifecycle.StartChain(input.Summary)
		for _, step := range input.Steps {
			if _, err := lifecycle.AddStep(step.Prompt, step.Response, nil); err != nil {
				return nil, RecordOutput{}, fmt.Errorf("adding step: %w", err)
			}
		}
		ended := lifecycle.EndChain(input.CommitSHA, input.Branch)

		doc, err := store.Save(ended)
		if err != nil {
			return nil, RecordOutput{}, fmt.Errorf("saving chain: %w", err)
		}

		out := RecordOutput{
			ChainID: doc.Chain.ChainID,
			Path:    filepath.Join(store.Dir(), "chain-"+doc.Chain.ChainID+".json"),
			Metrics: doc.Metadata.Metrics,
		}
		return nil, out, nil
	}
}

// --- Show tool ---

// ShowInput is the input for the show tool.
type ShowInput struct {
	ChainID string `json:"chain_id" jsonschema:"chain ID to display"`
}

// ShowOutput is the output for the show tool.
type ShowOutput struct {
	Document *chain.Document `json:"document" jsonschema:"the stored chain document"`
}

func handleShow(store *chain.Store) mcp.ToolHandlerFor[ShowInput, ShowOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ShowInput) (*mcp.CallToolResult, ShowOutput, error) {
		if input.ChainID == "" {
			return nil, ShowOutput{}, errors.New("chain_id is required")
		}

		doc := store.Load(input.ChainID)
		if doc == nil {
			return nil, ShowOutput{}, fmt.Errorf("chain not found: %s", input.ChainID)
		}

		return nil, ShowOutput{Document: doc}, nil
	}
}

// --- List tool ---

// ListInput is the input for the list tool.
type ListInput struct {
	CommitSHA string `json:"commit_sha,omitempty" jsonschema:"list only chains recorded for this commit SHA"`
}

// ListOutput is the output for the list tool.
type ListOutput struct {
	Count    int      `json:"count"     jsonschema:"number of chains"`
	ChainIDs []string `json:"chain_ids" jsonschema:"chain IDs"`
}

func handleList(store *chain.Store) mcp.ToolHandlerFor[ListInput, ListOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
		var ids []string
		if input.CommitSHA != "" {
			ids = store.ListByCommit(input.CommitSHA)
		} else {
			ids = store.ListAll()
		}
		return nil, ListOutput{Count: len(ids), ChainIDs: ids}, nil
	}
}

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Repo        string `json:"repo"         jsonschema:"repository name"`
	Branch      string `json:"branch"       jsonschema:"current branch"`
	Head        string `json:"head"         jsonschema:"HEAD commit SHA"`
	StorageDir  string `json:"storage_dir"  jsonschema:"path to the chain storage directory"`
	DirExists   bool   `json:"dir_exists"   jsonschema:"whether the storage directory exists"`
	ChainCount  int    `json:"chain_count"  jsonschema:"number of stored chains"`
	ActiveChain string `json:"active_chain,omitempty" jsonschema:"ID of the in-progress chain, if any"`
}

func handleStatus(store *chain.Store) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		root, err := git.RepoRoot()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("getting repo root: %w", err)
		}

		branch, err := git.CurrentBranch()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("getting current branch: %w", err)
		}

		head, err := git.ResolveSHA("HEAD")
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("resolving HEAD: %w", err)
		}

		dirInfo, statErr := os.Stat(store.Dir())
		dirExists := statErr == nil && dirInfo.IsDir()

		out := StatusOutput{
			Repo:       filepath.Base(root),
			Branch:     branch,
			Head:       head,
			StorageDir: store.Dir(),
			DirExists:  dirExists,
			ChainCount: len(store.ListAll()),
		}

		if draft := store.LoadDraft(); draft != nil {
			out.ActiveChain = draft.ChainID
		}

		return nil, out, nil
	}
}
