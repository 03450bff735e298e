package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths <source>",
		Short: "Rank the strongest simple paths out of a node",
		Long: `Search outward from a source node and rank simple paths by the
product of their edge weights.

Examples:
  engram paths coffee --graph memory.yaml
  engram paths coffee --graph memory.yaml --max-depth 4 --top-k 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxDepth, _ := cmd.Flags().GetInt("max-depth")
			topK, _ := cmd.Flags().GetInt("top-k")
			jsonOut, _ := cmd.Flags().GetBool("json")
			source := args[0]

			sess, cfg, err := openSession(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-depth") {
				maxDepth = cfg.Paths.MaxDepth
			}
			if !cmd.Flags().Changed("top-k") {
				topK = cfg.Paths.TopK
			}

			ranked := sess.StrongestPaths(source, maxDepth, topK)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"source": source,
					"paths":  ranked,
					"count":  len(ranked),
				})
			}

			if len(ranked) == 0 {
				fmt.Printf("No paths found from %s.\n", source)
				return nil
			}

			fmt.Printf("Strongest paths from %s (%d):\n\n", source, len(ranked))
			for i, p := range ranked {
				fmt.Printf("%d. %s (score %.4f)\n", i+1, strings.Join(p.Path, " -> "), p.Score)
			}
			return nil
		},
	}

	cmd.Flags().Int("max-depth", 3, "Maximum path length in edges")
	cmd.Flags().Int("top-k", 5, "Maximum number of paths to return")

	return cmd
}
