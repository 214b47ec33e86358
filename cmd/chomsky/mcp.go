package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/chomsky/internal/cli"
	"github.com/aretw0/chomsky/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Chomsky as an MCP Server.
This allows AI agents to convert grammars, generate words and check CNF as tools.
The grammar library (grammars_dir) is exposed as the chomsky://grammars resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup(cmd)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// 1. Initialize Engine and Library
		engine, closer, err := newEngine(engineOptions(cmd, cfg, logger))
		if err != nil {
			return err
		}
		defer closer.Close()

		library, err := cli.OpenLibrary(cfg.GrammarsDir)
		if err != nil {
			return err
		}

		// 2. Initialize MCP Server Adapter
		srv := mcp.NewServer(engine, library,
			mcp.WithDefaults(cfg.MaxLength, cfg.MaxWords),
			mcp.WithLimits(cfg.Limits.MaxLength, cfg.Limits.MaxWords),
		)

		// 3. Start Server based on Transport
		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Chomsky MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("MCP server failed: %w", err)
			}
		case "sse":
			slog.Info("Starting Chomsky MCP Server (SSE)", "port", port)

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server failed: %w", err)
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
