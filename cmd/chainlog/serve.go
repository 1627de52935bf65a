// Package main provides the entry point for the chainlog CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	chainlogmcp "github.com/rowanvale/chainlog/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run chainlog as a Model Context Protocol (MCP) server over stdio.

This exposes chainlog operations as MCP tools that any MCP-capable agent
environment can use, so an agent can record its own prompt chains.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "chainlog": {
        "command": "chainlog",
        "args": ["serve"]
      }
    }
  }

Available tools: record, show, list, status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			server := chainlogmcp.NewServer(buildVersion(), store)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
