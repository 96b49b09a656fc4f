package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/circuitlab/internal/cli"
	"github.com/aretw0/circuitlab/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes circuit simulation and challenge grading as MCP tools, so AI agents can build
and check circuits.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		slog.SetDefault(app.Logger)
		log.SetOutput(os.Stderr)

		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			fail("%v", err)
		}
		srv := mcp.NewServer(catalog, app.GraphOptions()...)

		switch transport {
		case "stdio":
			slog.Info("Starting circuitlab MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				fail("MCP server execution failed: %v", err)
			}
		case "sse":
			sc := cli.NewSignalContext(cmd.Context())
			defer sc.Cancel()

			addr := fmt.Sprintf(":%d", port)
			if err := srv.ServeSSE(sc, addr, fmt.Sprintf("http://localhost:%d", port)); err != nil {
				fail("MCP server execution failed: %v", err)
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			fail("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
