package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/engramdb/engram/internal/graph"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a graph file",
		Long: `Report node and edge counts for a graph file, plus its heaviest edges.

Example:
  engram stats --graph memory.yaml --top 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			top, _ := cmd.Flags().GetInt("top")
			jsonOut, _ := cmd.Flags().GetBool("json")

			graphPath, _ := cmd.Flags().GetString("graph")
			if graphPath == "" {
				return fmt.Errorf("--graph is required")
			}
			store, err := graph.LoadFile(graphPath)
			if err != nil {
				return fmt.Errorf("loading graph: %w", err)
			}

			heaviest := heaviestEdges(store, top)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"nodes":    store.NumNodes(),
					"edges":    store.NumEdges(),
					"heaviest": heaviest,
				})
			}

			fmt.Printf("Graph: %s\n", graphPath)
			fmt.Printf("  Nodes: %d\n", store.NumNodes())
			fmt.Printf("  Edges: %d\n", store.NumEdges())
			if len(heaviest) > 0 {
				fmt.Printf("\nHeaviest edges:\n")
				for _, e := range heaviest {
					fmt.Printf("  %s -> %s  %.4f\n", e.From, e.To, e.Weight)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("top", 5, "Number of heaviest edges to list")

	return cmd
}

type edgeStat struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// heaviestEdges lists the k highest-weight edges in the store.
func heaviestEdges(s *graph.MemoryStore, k int) []edgeStat {
	var all []edgeStat
	for _, id := range s.NodeIDs() {
		for _, succ := range s.Successors(id) {
			all = append(all, edgeStat{From: id, To: succ.ID, Weight: succ.Weight})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Weight != all[j].Weight {
			return all[i].Weight > all[j].Weight
		}
		if all[i].From != all[j].From {
			return all[i].From < all[j].From
		}
		return all[i].To < all[j].To
	})
	if k > 0 && len(all) > k {
		all = all[:k]
	}
	return all
}
