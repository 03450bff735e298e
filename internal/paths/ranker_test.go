package paths

import (
	"math"
	"testing"

	"github.com/engramdb/engram/internal/graph"
)

func buildStore(t *testing.T, edges [][3]any) *graph.MemoryStore {
	t.Helper()
	s := graph.NewMemoryStore()
	for _, e := range edges {
		s.AddEdge(e[0].(string), e[1].(string), e[2].(float64))
	}
	return s
}

func pathEqual(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStrongest_SingleEdge(t *testing.T) {
	s := buildStore(t, [][3]any{{"A", "B", 0.8}})

	ranked := Strongest(s, "A", 2, 3)
	if len(ranked) != 1 {
		t.Fatalf("expected exactly 1 path, got %d", len(ranked))
	}
	if !pathEqual(ranked[0].Path, "A", "B") {
		t.Errorf("path = %v, want [A B]", ranked[0].Path)
	}
	if math.Abs(ranked[0].Score-0.8) > 1e-12 {
		t.Errorf("score = %v, want edge weight 0.8", ranked[0].Score)
	}
}

func TestStrongest_UnknownSource(t *testing.T) {
	s := buildStore(t, [][3]any{{"A", "B", 1.0}})
	if ranked := Strongest(s, "ghost", 3, 5); ranked != nil {
		t.Errorf("expected nil for unknown source, got %v", ranked)
	}
}

func TestStrongest_IsolatedSource(t *testing.T) {
	s := graph.NewMemoryStore()
	s.AddNode(graph.Node{ID: "A"})

	ranked := Strongest(s, "A", 3, 5)
	if len(ranked) != 1 {
		t.Fatalf("expected the lone [A] path, got %v", ranked)
	}
	if !pathEqual(ranked[0].Path, "A") || ranked[0].Score != 1.0 {
		t.Errorf("expected [A] with score 1.0, got %v", ranked[0])
	}
}

func TestStrongest_OrderedByScore(t *testing.T) {
	s := buildStore(t, [][3]any{
		{"A", "B", 0.9},
		{"A", "C", 0.5},
		{"B", "D", 0.9},
		{"C", "D", 0.1},
	})

	ranked := Strongest(s, "A", 2, 10)
	if len(ranked) < 2 {
		t.Fatalf("expected several paths, got %v", ranked)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("paths out of order at %d: %v after %v", i, ranked[i], ranked[i-1])
		}
	}
	// Best path is A->B->D with score 0.81.
	if !pathEqual(ranked[0].Path, "A", "B", "D") {
		t.Errorf("best path = %v, want [A B D]", ranked[0].Path)
	}
	if math.Abs(ranked[0].Score-0.81) > 1e-12 {
		t.Errorf("best score = %v, want 0.81", ranked[0].Score)
	}
}

func TestStrongest_SimplePathsOnly(t *testing.T) {
	// A->B->A cycle: expansion must never revisit a node on the same path.
	s := buildStore(t, [][3]any{
		{"A", "B", 1.0},
		{"B", "A", 1.0},
	})

	ranked := Strongest(s, "A", 10, 10)
	for _, p := range ranked {
		seen := make(map[string]bool, len(p.Path))
		for _, id := range p.Path {
			if seen[id] {
				t.Fatalf("path %v revisits %s", p.Path, id)
			}
			seen[id] = true
		}
	}
}

func TestStrongest_RespectsTopK(t *testing.T) {
	s := buildStore(t, [][3]any{
		{"A", "B", 0.9},
		{"A", "C", 0.8},
		{"A", "D", 0.7},
		{"A", "E", 0.6},
	})

	ranked := Strongest(s, "A", 1, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected topK=2 paths, got %d", len(ranked))
	}
	if !pathEqual(ranked[0].Path, "A", "B") || !pathEqual(ranked[1].Path, "A", "C") {
		t.Errorf("expected the two strongest edges, got %v", ranked)
	}

	if ranked := Strongest(s, "A", 1, 0); ranked != nil {
		t.Errorf("expected nil for topK=0, got %v", ranked)
	}
}

func TestStrongest_RespectsMaxDepth(t *testing.T) {
	s := buildStore(t, [][3]any{
		{"A", "B", 1.0},
		{"B", "C", 1.0},
		{"C", "D", 1.0},
	})

	ranked := Strongest(s, "A", 2, 10)
	for _, p := range ranked {
		if len(p.Path) > 3 {
			t.Errorf("path %v exceeds maxDepth=2 edges", p.Path)
		}
	}
}

func TestStrongest_MultiplicativeScore(t *testing.T) {
	s := buildStore(t, [][3]any{
		{"A", "B", 0.5},
		{"B", "C", 0.4},
	})

	ranked := Strongest(s, "A", 3, 10)
	var found bool
	for _, p := range ranked {
		if pathEqual(p.Path, "A", "B", "C") {
			found = true
			if math.Abs(p.Score-0.2) > 1e-12 {
				t.Errorf("score of [A B C] = %v, want 0.5*0.4", p.Score)
			}
		}
	}
	if !found {
		t.Errorf("expected [A B C] among results, got %v", ranked)
	}
}
