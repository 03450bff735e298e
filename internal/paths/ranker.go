// Package paths ranks the strongest simple paths out of a source node.
// Expansion is iterative best-first over an explicit frontier; scores are
// products of traversed edge weights, so long low-weight chains fall behind
// naturally.
package paths

import (
	"sort"

	"github.com/engramdb/engram/internal/graph"
)

// RankedPath is a simple path and its multiplicative score.
type RankedPath struct {
	Path  []string `json:"path"`
	Score float64  `json:"score"`
}

// Strongest returns the top-K highest-scoring simple paths from source.
//
// Each of maxDepth rounds extends every live path by its topK strongest
// outgoing edges that do not revisit a node already on that path. Paths with
// no eligible extension are retained as completed. The final ranking covers
// completed and still-live paths alike.
//
// Single-node paths are excluded unless source has no outgoing edges at all,
// in which case the lone [source] path (score 1.0) is the only result. An
// unknown source yields an empty result.
func Strongest(s graph.Store, source string, maxDepth, topK int) []RankedPath {
	if !s.HasNode(source) || topK <= 0 {
		return nil
	}

	if len(s.Successors(source)) == 0 {
		return []RankedPath{{Path: []string{source}, Score: 1.0}}
	}

	frontier := []RankedPath{{Path: []string{source}, Score: 1.0}}
	var completed []RankedPath

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []RankedPath
		for _, p := range frontier {
			extensions := extend(s, p, topK)
			if len(extensions) == 0 {
				completed = append(completed, p)
				continue
			}
			next = append(next, extensions...)
		}
		frontier = next
	}

	candidates := append(completed, frontier...)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	results := make([]RankedPath, 0, topK)
	for _, p := range candidates {
		if len(p.Path) < 2 {
			continue
		}
		results = append(results, p)
		if len(results) == topK {
			break
		}
	}
	return results
}

// extend grows a path by its top-k strongest non-revisiting edges.
// Successors arrive sorted by weight descending, so the first k eligible
// neighbors are the strongest ones.
func extend(s graph.Store, p RankedPath, k int) []RankedPath {
	visited := make(map[string]bool, len(p.Path))
	for _, id := range p.Path {
		visited[id] = true
	}

	tail := p.Path[len(p.Path)-1]
	var out []RankedPath
	for _, succ := range s.Successors(tail) {
		if visited[succ.ID] {
			continue
		}
		branch := make([]string, len(p.Path), len(p.Path)+1)
		copy(branch, p.Path)
		out = append(out, RankedPath{
			Path:  append(branch, succ.ID),
			Score: p.Score * succ.Weight,
		})
		if len(out) == k {
			break
		}
	}
	return out
}
