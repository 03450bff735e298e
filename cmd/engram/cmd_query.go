package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run spreading activation from seed nodes",
		Long: `Inject energy at seed nodes and diffuse it through the graph.

Seeds are given as ID=ENERGY pairs; a bare ID gets energy 1.0.

Examples:
  engram query --graph memory.yaml --seed coffee
  engram query --graph memory.yaml --seed coffee=1.0 --seed morning=0.5 --steps 5
  engram query --graph memory.yaml --seed coffee --context coffee,cafe,espresso`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedSpecs, _ := cmd.Flags().GetStringArray("seed")
			steps, _ := cmd.Flags().GetInt("steps")
			contextNodes, _ := cmd.Flags().GetStringSlice("context")
			jsonOut, _ := cmd.Flags().GetBool("json")

			seeds, err := parseSeeds(seedSpecs)
			if err != nil {
				return err
			}
			if len(seeds) == 0 {
				return fmt.Errorf("at least one --seed is required")
			}

			sess, cfg, err := openSession(cmd)
			if err != nil {
				return err
			}
			if steps < 0 {
				return fmt.Errorf("--steps must be >= 0, got %d", steps)
			}
			if !cmd.Flags().Changed("steps") {
				steps = cfg.Propagation.Steps
			}

			if len(contextNodes) > 0 {
				sess.SetContext(contextNodes)
			}

			energies, err := sess.Query(seeds, steps)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"energies": energies,
					"count":    len(energies),
					"steps":    steps,
				})
			}

			if len(energies) == 0 {
				fmt.Println("No nodes activated.")
				return nil
			}

			fmt.Printf("Activated nodes (%d, %d steps):\n\n", len(energies), steps)
			for _, id := range sortByEnergy(energies) {
				fmt.Printf("  %-20s %.4f\n", id, energies[id])
			}
			return nil
		},
	}

	cmd.Flags().StringArray("seed", nil, "Seed node as ID or ID=ENERGY (repeatable)")
	cmd.Flags().Int("steps", 0, "Number of diffusion steps (default from config)")
	cmd.Flags().StringSlice("context", nil, "Restrict activation to these nodes")

	return cmd
}

// parseSeeds turns ID=ENERGY specs into a seed map. A bare ID means 1.0.
func parseSeeds(specs []string) (map[string]float64, error) {
	seeds := make(map[string]float64, len(specs))
	for _, spec := range specs {
		id, val, found := strings.Cut(spec, "=")
		if id == "" {
			return nil, fmt.Errorf("invalid seed %q", spec)
		}
		energy := 1.0
		if found {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid seed energy in %q: %w", spec, err)
			}
			energy = f
		}
		seeds[id] = energy
	}
	return seeds, nil
}

// sortByEnergy orders node IDs by descending energy, ties by ID.
func sortByEnergy(energies map[string]float64) []string {
	ids := make([]string, 0, len(energies))
	for id := range energies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if energies[ids[i]] != energies[ids[j]] {
			return energies[ids[i]] > energies[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}
