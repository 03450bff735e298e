// Package mcp provides an MCP (Model Context Protocol) server for engram.
package mcp

// QueryInput defines the input for the engram_query tool.
type QueryInput struct {
	Seeds   map[string]float64 `json:"seeds" jsonschema:"Seed node IDs mapped to initial energy (e.g. {\"coffee\": 1.0})"`
	Steps   int                `json:"steps,omitempty" jsonschema:"Number of diffusion steps (default from server config)"`
	Context []string           `json:"context,omitempty" jsonschema:"Optional node subset; activation outside it is zeroed"`
}

// QueryOutput defines the output for the engram_query tool.
type QueryOutput struct {
	Energies map[string]float64 `json:"energies" jsonschema:"Activated node IDs mapped to final energy"`
	Count    int                `json:"count" jsonschema:"Number of activated nodes"`
}

// ReinforceInput defines the input for the engram_reinforce tool.
type ReinforceInput struct {
	Path   []string `json:"path" jsonschema:"Ordered node IDs along the path to reinforce"`
	Reward float64  `json:"reward" jsonschema:"Reward signal; positive strengthens and negative weakens"`
}

// ReinforceOutput defines the output for the engram_reinforce tool.
type ReinforceOutput struct {
	Deltas  []EdgeDelta `json:"deltas" jsonschema:"Per-edge weight changes applied"`
	Message string      `json:"message" jsonschema:"Human-readable result summary"`
}

// EdgeDelta reports one edge weight change.
type EdgeDelta struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Delta float64 `json:"delta"`
}

// PathsInput defines the input for the engram_paths tool.
type PathsInput struct {
	Source   string `json:"source" jsonschema:"Node to search outward from"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Maximum path length in edges (default from server config)"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"Maximum number of paths to return (default from server config)"`
}

// PathsOutput defines the output for the engram_paths tool.
type PathsOutput struct {
	Paths []RankedPath `json:"paths" jsonschema:"Strongest simple paths, best first"`
	Count int          `json:"count" jsonschema:"Number of paths returned"`
}

// RankedPath is one scored path.
type RankedPath struct {
	Path  []string `json:"path"`
	Score float64  `json:"score"`
}

// StatsInput defines the input for the engram_stats tool. It takes no
// parameters.
type StatsInput struct{}

// StatsOutput defines the output for the engram_stats tool.
type StatsOutput struct {
	Queries        int     `json:"queries" jsonschema:"Number of queries served this session"`
	Reinforcements int     `json:"reinforcements" jsonschema:"Number of reinforcement calls this session"`
	TotalReward    float64 `json:"total_reward" jsonschema:"Sum of all reward signals"`
	Nodes          int     `json:"nodes" jsonschema:"Current graph node count"`
	Edges          int     `json:"edges" jsonschema:"Current graph edge count"`
}
