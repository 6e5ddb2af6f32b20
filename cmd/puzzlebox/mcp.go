package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/puzzlebox/internal/platform/mcp"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools over stdio",
	Long: `Expose the games as Model Context Protocol tools on stdin/stdout so
an agent can create sessions, make moves and read the board.

Stdout carries the protocol; logs go to stderr.

Example client entry:
  {"command": "puzzlebox", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	logger.Info("serving MCP tools on stdio", "db", flagDBPath)
	return mcp.NewTools(store, version).ServeStdio()
}
