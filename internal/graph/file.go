package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GraphFile is the YAML document describing a graph for the CLI and MCP
// surfaces. Persistence is a collaborator concern; the engine itself never
// touches the filesystem.
type GraphFile struct {
	Nodes []Node     `yaml:"nodes,omitempty"`
	Edges []EdgeSpec `yaml:"edges"`
}

// EdgeSpec describes one directed edge in a graph file. A zero weight means
// "use the default".
type EdgeSpec struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Weight float64 `yaml:"weight,omitempty"`
}

// LoadFile reads a YAML graph file into a fresh MemoryStore.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}

	var gf GraphFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parsing graph file: %w", err)
	}

	s := NewMemoryStore()
	for _, n := range gf.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("graph file: node with empty id")
		}
		s.AddNode(n)
	}
	for _, e := range gf.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("graph file: edge %q->%q with empty endpoint", e.From, e.To)
		}
		w := e.Weight
		if w == 0 {
			w = DefaultEdgeWeight
		}
		s.AddEdge(e.From, e.To, w)
	}
	return s, nil
}

// SaveFile writes the store back out as a YAML graph file, preserving the
// deterministic node order.
func SaveFile(path string, s *MemoryStore) error {
	var gf GraphFile
	for _, id := range s.NodeIDs() {
		n, _ := s.Node(id)
		gf.Nodes = append(gf.Nodes, n)
		for _, succ := range s.Successors(id) {
			gf.Edges = append(gf.Edges, EdgeSpec{From: id, To: succ.ID, Weight: succ.Weight})
		}
	}

	data, err := yaml.Marshal(&gf)
	if err != nil {
		return fmt.Errorf("encoding graph file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing graph file: %w", err)
	}
	return nil
}
