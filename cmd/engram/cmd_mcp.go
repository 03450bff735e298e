package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramdb/engram/internal/logging"
	"github.com/engramdb/engram/internal/mcp"
	"github.com/engramdb/engram/internal/session"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run engram as an MCP server over stdio",
		Long: `Start a Model Context Protocol server exposing engram tools.

The server speaks MCP over stdio and serves one session for its lifetime.
With --graph, the session starts from the given YAML graph; otherwise it
starts empty and grows through engram_reinforce calls.

Tools: engram_query, engram_reinforce, engram_paths, engram_stats.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			graphPath, _ := cmd.Flags().GetString("graph")

			server, err := mcp.NewServer(&mcp.Config{
				Name:      "engram",
				Version:   version,
				GraphPath: graphPath,
				Steps:     cfg.Propagation.Steps,
				MaxDepth:  cfg.Paths.MaxDepth,
				TopK:      cfg.Paths.TopK,
				Session: session.Config{
					Activation: cfg.Activation(),
					Plasticity: cfg.Plasticity(),
					Logger:     logging.NewLogger(cfg.Logging.Level, os.Stderr),
					Trace:      logging.NewTraceLogger(cfg.Logging.Dir, cfg.Logging.Level),
				},
			})
			if err != nil {
				return fmt.Errorf("starting MCP server: %w", err)
			}

			return server.Run(context.Background())
		},
	}
}
