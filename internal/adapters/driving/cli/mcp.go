package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multisearch/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server drives one search session: assistants can search, reset, change
the sort order and read the current results.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, for example to test with MCP Inspector.

Examples:
  # Stdio mode (default)
  multisearch mcp serve

  # HTTP mode
  multisearch mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	session, release, err := requireSession("")
	if err != nil {
		return err
	}
	defer release()

	session.Mount(cmd.Context())

	server, err := mcp.NewServer(&mcp.Ports{
		Session:  session,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
