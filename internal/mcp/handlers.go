package mcp

import (
	"context"
	"fmt"
	"sort"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/engramdb/engram/internal/plasticity"
)

// registerTools registers all engram MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "engram_query",
		Description: "Run spreading activation from seed nodes and return the energized portion of the graph",
	}, s.handleQuery)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "engram_reinforce",
		Description: "Apply a Hebbian weight update along a path; positive reward strengthens, negative weakens",
	}, s.handleReinforce)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "engram_paths",
		Description: "Rank the strongest simple paths leading out of a source node",
	}, s.handlePaths)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "engram_stats",
		Description: "Report session statistics: query and reinforcement counts, accumulated reward, graph size",
	}, s.handleStats)
}

func (s *Server) handleQuery(ctx context.Context, req *sdk.CallToolRequest, args QueryInput) (*sdk.CallToolResult, QueryOutput, error) {
	if len(args.Seeds) == 0 {
		return nil, QueryOutput{}, fmt.Errorf("'seeds' parameter is required")
	}

	steps := args.Steps
	if steps <= 0 {
		steps = s.cfg.Steps
	}

	if len(args.Context) > 0 {
		s.session.SetContext(args.Context)
		defer s.session.ClearContext()
	}

	energies, err := s.session.Query(args.Seeds, steps)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	return nil, QueryOutput{Energies: energies, Count: len(energies)}, nil
}

func (s *Server) handleReinforce(ctx context.Context, req *sdk.CallToolRequest, args ReinforceInput) (*sdk.CallToolResult, ReinforceOutput, error) {
	if len(args.Path) < 2 {
		return nil, ReinforceOutput{}, fmt.Errorf("'path' must name at least two nodes")
	}

	deltas, err := s.session.Reinforce(args.Path, args.Reward)
	if err != nil {
		return nil, ReinforceOutput{}, err
	}

	out := ReinforceOutput{
		Deltas:  edgeDeltas(deltas),
		Message: fmt.Sprintf("reinforced %d edges with reward %g", len(deltas), args.Reward),
	}
	return nil, out, nil
}

func (s *Server) handlePaths(ctx context.Context, req *sdk.CallToolRequest, args PathsInput) (*sdk.CallToolResult, PathsOutput, error) {
	if args.Source == "" {
		return nil, PathsOutput{}, fmt.Errorf("'source' parameter is required")
	}

	maxDepth := args.MaxDepth
	if maxDepth <= 0 {
		maxDepth = s.cfg.MaxDepth
	}
	topK := args.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	ranked := s.session.StrongestPaths(args.Source, maxDepth, topK)
	out := PathsOutput{Paths: make([]RankedPath, len(ranked)), Count: len(ranked)}
	for i, p := range ranked {
		out.Paths[i] = RankedPath{Path: p.Path, Score: p.Score}
	}
	return nil, out, nil
}

func (s *Server) handleStats(ctx context.Context, req *sdk.CallToolRequest, args StatsInput) (*sdk.CallToolResult, StatsOutput, error) {
	stats := s.session.Stats()
	store := s.session.Store()
	out := StatsOutput{
		Queries:        stats.Queries,
		Reinforcements: stats.Reinforcements,
		TotalReward:    stats.TotalReward,
		Nodes:          store.NumNodes(),
		Edges:          store.NumEdges(),
	}
	return nil, out, nil
}

// edgeDeltas flattens a delta map into a deterministic list.
func edgeDeltas(m map[plasticity.EdgeKey]float64) []EdgeDelta {
	out := make([]EdgeDelta, 0, len(m))
	for k, d := range m {
		out = append(out, EdgeDelta{From: k.From, To: k.To, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
