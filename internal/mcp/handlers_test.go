package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/engramdb/engram/internal/session"
)

func newTestServer(t *testing.T, graphYAML string) *Server {
	t.Helper()

	cfg := &Config{
		Name:     "engram",
		Version:  "test",
		Steps:    3,
		MaxDepth: 3,
		TopK:     5,
		Session:  session.DefaultConfig(),
	}
	if graphYAML != "" {
		path := filepath.Join(t.TempDir(), "graph.yaml")
		if err := os.WriteFile(path, []byte(graphYAML), 0644); err != nil {
			t.Fatalf("writing graph: %v", err)
		}
		cfg.GraphPath = path
	}

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

const testGraph = `
edges:
  - from: coffee
    to: morning
    weight: 0.9
  - from: morning
    to: focus
    weight: 0.8
`

func TestHandleQuery(t *testing.T) {
	s := newTestServer(t, testGraph)

	_, out, err := s.handleQuery(context.Background(), nil, QueryInput{
		Seeds: map[string]float64{"coffee": 1.0},
		Steps: 1,
	})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}

	if out.Energies["morning"] <= 0 {
		t.Errorf("expected energy at morning, got %v", out.Energies)
	}
	if out.Count != len(out.Energies) {
		t.Errorf("count = %d does not match energies %v", out.Count, out.Energies)
	}
}

func TestHandleQuery_DefaultSteps(t *testing.T) {
	s := newTestServer(t, testGraph)

	// Steps omitted: the server default (3) reaches focus via two hops.
	_, out, err := s.handleQuery(context.Background(), nil, QueryInput{
		Seeds: map[string]float64{"coffee": 1.0},
	})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if out.Energies["focus"] <= 0 {
		t.Errorf("expected default steps to reach focus, got %v", out.Energies)
	}
}

func TestHandleQuery_RequiresSeeds(t *testing.T) {
	s := newTestServer(t, testGraph)
	if _, _, err := s.handleQuery(context.Background(), nil, QueryInput{}); err == nil {
		t.Error("expected error for missing seeds")
	}
}

func TestHandleQuery_ContextGate(t *testing.T) {
	s := newTestServer(t, testGraph)

	_, out, err := s.handleQuery(context.Background(), nil, QueryInput{
		Seeds:   map[string]float64{"coffee": 1.0},
		Steps:   1,
		Context: []string{"coffee"},
	})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if _, ok := out.Energies["morning"]; ok {
		t.Errorf("expected out-of-context morning to be gated, got %v", out.Energies)
	}

	// The gate must not leak into the next call.
	_, out, err = s.handleQuery(context.Background(), nil, QueryInput{
		Seeds: map[string]float64{"coffee": 1.0},
		Steps: 1,
	})
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if out.Energies["morning"] <= 0 {
		t.Error("expected context gate cleared after the gated call")
	}
}

func TestHandleReinforce(t *testing.T) {
	s := newTestServer(t, testGraph)

	_, out, err := s.handleReinforce(context.Background(), nil, ReinforceInput{
		Path:   []string{"coffee", "morning"},
		Reward: 1.0,
	})
	if err != nil {
		t.Fatalf("handleReinforce: %v", err)
	}

	if len(out.Deltas) != 1 {
		t.Fatalf("expected 1 delta, got %v", out.Deltas)
	}
	d := out.Deltas[0]
	if d.From != "coffee" || d.To != "morning" || d.Delta <= 0 {
		t.Errorf("unexpected delta %+v", d)
	}
}

func TestHandleReinforce_RequiresPath(t *testing.T) {
	s := newTestServer(t, testGraph)
	if _, _, err := s.handleReinforce(context.Background(), nil, ReinforceInput{
		Path: []string{"coffee"}, Reward: 1.0,
	}); err == nil {
		t.Error("expected error for single-node path")
	}
}

func TestHandlePaths(t *testing.T) {
	s := newTestServer(t, testGraph)

	_, out, err := s.handlePaths(context.Background(), nil, PathsInput{Source: "coffee"})
	if err != nil {
		t.Fatalf("handlePaths: %v", err)
	}
	if out.Count == 0 {
		t.Fatal("expected at least one path")
	}
	if out.Paths[0].Path[0] != "coffee" {
		t.Errorf("paths must start at the source, got %v", out.Paths[0].Path)
	}
}

func TestHandleStats(t *testing.T) {
	s := newTestServer(t, testGraph)

	s.handleQuery(context.Background(), nil, QueryInput{Seeds: map[string]float64{"coffee": 1.0}, Steps: 1})
	s.handleReinforce(context.Background(), nil, ReinforceInput{Path: []string{"coffee", "morning"}, Reward: 0.5})

	_, out, err := s.handleStats(context.Background(), nil, StatsInput{})
	if err != nil {
		t.Fatalf("handleStats: %v", err)
	}
	if out.Queries != 1 || out.Reinforcements != 1 {
		t.Errorf("stats = %+v, want 1 query and 1 reinforcement", out)
	}
	if out.TotalReward != 0.5 {
		t.Errorf("total reward = %v, want 0.5", out.TotalReward)
	}
	if out.Nodes != 3 || out.Edges != 2 {
		t.Errorf("graph size = %d/%d, want 3/2", out.Nodes, out.Edges)
	}
}

func TestNewServer_EmptyGraph(t *testing.T) {
	s := newTestServer(t, "")

	// An empty session grows through reinforcement and then serves queries.
	if _, _, err := s.handleReinforce(context.Background(), nil, ReinforceInput{
		Path: []string{"a", "b"}, Reward: 1.0,
	}); err != nil {
		t.Fatalf("handleReinforce on empty graph: %v", err)
	}

	_, out, err := s.handleQuery(context.Background(), nil, QueryInput{
		Seeds: map[string]float64{"a": 1.0}, Steps: 1,
	})
	if err != nil {
		t.Fatalf("handleQuery after growth: %v", err)
	}
	if out.Energies["a"] <= 0 {
		t.Errorf("expected seed energy retained, got %v", out.Energies)
	}
}
