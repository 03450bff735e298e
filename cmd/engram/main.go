package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramdb/engram/internal/config"
	"github.com/engramdb/engram/internal/graph"
	"github.com/engramdb/engram/internal/logging"
	"github.com/engramdb/engram/internal/session"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "engram",
		Short: "Engram - associative memory over weighted graphs",
		Long: `engram runs spreading activation queries over a weighted directed graph
and adapts the graph's edge weights from reward feedback.

Graphs are loaded from YAML files; queries diffuse energy from seed nodes,
reinforcement applies Hebbian updates along paths, and the paths command
ranks the strongest associations out of a node.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.engram/config.yaml)")
	rootCmd.PersistentFlags().String("graph", "", "Graph YAML file to operate on")

	rootCmd.AddCommand(
		newVersionCmd(),
		newQueryCmd(),
		newReinforceCmd(),
		newPathsCmd(),
		newStatsCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("engram version %s\n", version)
			}
		},
	}
}

// loadConfig resolves the effective configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openSession loads the graph named by --graph and wires a session around it.
func openSession(cmd *cobra.Command) (*session.Session, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	graphPath, _ := cmd.Flags().GetString("graph")
	if graphPath == "" {
		return nil, nil, fmt.Errorf("--graph is required")
	}
	store, err := graph.LoadFile(graphPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading graph: %w", err)
	}

	sess := session.New(store, session.Config{
		Activation: cfg.Activation(),
		Plasticity: cfg.Plasticity(),
		Logger:     logging.NewLogger(cfg.Logging.Level, os.Stderr),
		Trace:      logging.NewTraceLogger(cfg.Logging.Dir, cfg.Logging.Level),
	})
	return sess, cfg, nil
}
