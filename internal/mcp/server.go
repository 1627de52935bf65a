// Package mcp provides a Model Context Protocol server for chainlog.
// It exposes chain operations as MCP tools that any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rowanvale/chainlog/internal/chain"
)

// NewServer creates an MCP server with all chainlog tools registered.
func NewServer(version string, store *chain.Store) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "chainlog",
		Version: version,
	}, nil)
	registerTools(server, store)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all chainlog tools to the server.
func registerTools(server *mcp.Server, store *chain.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "record",
		Description: "Record a complete prompt chain: summary, ordered prompt/response steps, and an optional commit SHA. Computes metrics and writes the chain document.",
		Annotations: writeAnnotations(),
	}, handleRecord(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show",
		Description: "Display a stored chain document by chain ID, including its computed metrics.",
		Annotations: readOnlyAnnotations(),
	}, handleShow(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list",
		Description: "List stored chain IDs. With commit_sha set, lists only the chains recorded against that commit.",
		Annotations: readOnlyAnnotations(),
	}, handleList(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show repository and storage state: repo name, branch, HEAD, storage directory, chain count, and whether a chain is in progress.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(store))
}
