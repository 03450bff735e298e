package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramdb/engram/internal/graph"
	"github.com/engramdb/engram/internal/plasticity"
)

func newReinforceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reinforce <node> <node> [node...]",
		Short: "Apply a Hebbian weight update along a path",
		Long: `Strengthen or weaken the edges along a path of node IDs.

Positive reward strengthens edges, negative reward weakens them. Edges
missing from the path are created at a small initial weight. With --write,
the updated graph is saved back to the --graph file.

Examples:
  engram reinforce coffee morning focus --graph memory.yaml --reward 1.0
  engram reinforce coffee jitters --graph memory.yaml --reward -0.5 --write`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reward, _ := cmd.Flags().GetFloat64("reward")
			write, _ := cmd.Flags().GetBool("write")
			jsonOut, _ := cmd.Flags().GetBool("json")

			sess, _, err := openSession(cmd)
			if err != nil {
				return err
			}

			deltas, err := sess.Reinforce(args, reward)
			if err != nil {
				return err
			}

			if write {
				graphPath, _ := cmd.Flags().GetString("graph")
				if err := graph.SaveFile(graphPath, sess.Store().(*graph.MemoryStore)); err != nil {
					return fmt.Errorf("saving graph: %w", err)
				}
			}

			if jsonOut {
				out := make([]map[string]interface{}, 0, len(deltas))
				for key, delta := range deltas {
					out = append(out, map[string]interface{}{
						"from":   key.From,
						"to":     key.To,
						"delta":  delta,
						"weight": edgeWeight(sess.Store(), key.From, key.To),
					})
				}
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"edges":   out,
					"reward":  reward,
					"written": write,
				})
			}

			fmt.Printf("Reinforced %d edges (reward %g):\n\n", len(deltas), reward)
			for i := 0; i+1 < len(args); i++ {
				from, to := args[i], args[i+1]
				delta := deltas[plasticity.EdgeKey{From: from, To: to}]
				fmt.Printf("  %s -> %s: %+.4f (now %.4f)\n",
					from, to, delta, edgeWeight(sess.Store(), from, to))
			}
			if write {
				fmt.Println("\nGraph saved.")
			}
			return nil
		},
	}

	cmd.Flags().Float64("reward", 1.0, "Reward signal (positive strengthens, negative weakens)")
	cmd.Flags().Bool("write", false, "Save the updated graph back to the --graph file")

	return cmd
}

func edgeWeight(s graph.Store, from, to string) float64 {
	w, _ := s.EdgeWeight(from, to)
	return w
}
