package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orca-labs/orca-cli/internal/adapters/driving/mcp"
)

var mcpIn string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  orca mcp serve --in data/iclr24

  # HTTP mode (for MCP Inspector, remote access)
  orca mcp serve --in data/iclr24 --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "orca": {
        "command": "/path/to/orca",
        "args": ["mcp", "serve", "--in", "/path/to/data"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpIn, "in", "data/records", "record directory served to tools")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	metadata, err := openSQLite()
	if err != nil {
		return err
	}

	analyzer, err := buildAnalyzer(true)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Analyzer: analyzer,
		Reports:  metadata.ReportStore(),
		InputDir: mcpIn,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf("localhost:%d", port)
		cmd.Printf("MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
