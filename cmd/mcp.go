package cmd

import (
	"log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/sorcerai/packfs/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Runs an MCP server exposing the intent operations as tools",
	Long: `Run a Model Context Protocol (MCP) server over stdin/stdout exposing the
five unified operations plus natural-language queries as tools.

Example MCP client configuration:
{
  "mcpServers": {
    "packfs": {
      "command": "/path/to/packfs",
      "args": ["mcp", "--base", "/path/to/sandbox"]
    }
  }
}`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine()
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		s := server.NewMCPServer(
			"packfs",
			rootCmd.Version,
			server.WithToolCapabilities(false),
		)
		mcp.RegisterAll(s, mcp.Config{Engine: eng})

		if err := server.ServeStdio(s); err != nil {
			log.Fatalf("MCP server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
