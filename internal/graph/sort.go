package graph

import "sort"

type neighborOrder int

const (
	byID neighborOrder = iota
	byWeightDesc
)

// sortedNeighbors materializes an adjacency map into a deterministic slice.
func sortedNeighbors(adj map[string]float64, order neighborOrder) []Neighbor {
	if len(adj) == 0 {
		return nil
	}
	ns := make([]Neighbor, 0, len(adj))
	for id, w := range adj {
		ns = append(ns, Neighbor{ID: id, Weight: w})
	}
	switch order {
	case byWeightDesc:
		sort.Slice(ns, func(i, j int) bool {
			if ns[i].Weight != ns[j].Weight {
				return ns[i].Weight > ns[j].Weight
			}
			return ns[i].ID < ns[j].ID
		})
	default:
		sort.Slice(ns, func(i, j int) bool { return ns[i].ID < ns[j].ID })
	}
	return ns
}
