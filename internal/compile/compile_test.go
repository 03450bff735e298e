package compile

import (
	"errors"
	"math"
	"testing"

	"github.com/engramdb/engram/internal/graph"
)

// buildStore creates a store from edge triples.
func buildStore(t *testing.T, edges [][3]any) *graph.MemoryStore {
	t.Helper()
	s := graph.NewMemoryStore()
	for _, e := range edges {
		s.AddEdge(e[0].(string), e[1].(string), e[2].(float64))
	}
	return s
}

// columnSum sums the incoming distribution of the node with the given ID.
func columnSum(t *testing.T, c *Compiled, id string) float64 {
	t.Helper()
	j, ok := c.IndexOf(id)
	if !ok {
		t.Fatalf("node %s not indexed", id)
	}
	var sum float64
	for _, w := range c.Incoming(j) {
		sum += w
	}
	return sum
}

func TestCompile_EmptyGraph(t *testing.T) {
	s := graph.NewMemoryStore()
	if _, err := Compile(s); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestCompile_IndexIsLexicalAndBijective(t *testing.T) {
	s := graph.NewMemoryStore()
	for _, id := range []string{"cherry", "apple", "banana"} {
		s.AddNode(graph.Node{ID: id})
	}

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 indexed nodes, got %d", c.Len())
	}

	want := []string{"apple", "banana", "cherry"}
	for i, id := range want {
		if c.IDAt(i) != id {
			t.Errorf("IDAt(%d) = %s, want %s", i, c.IDAt(i), id)
		}
		j, ok := c.IndexOf(id)
		if !ok || j != i {
			t.Errorf("IndexOf(%s) = %d, %v; want %d", id, j, ok, i)
		}
	}
}

func TestCompile_ColumnNormalization(t *testing.T) {
	s := buildStore(t, [][3]any{
		{"a", "x", 2.0},
		{"b", "x", 6.0},
	})

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if sum := columnSum(t, c, "x"); math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("column sum at x = %v, want 1.0", sum)
	}

	// The relative proportions must survive normalization.
	j, _ := c.IndexOf("x")
	ai, _ := c.IndexOf("a")
	bi, _ := c.IndexOf("b")
	col := c.Incoming(j)
	if math.Abs(col[ai]-0.25) > 1e-12 || math.Abs(col[bi]-0.75) > 1e-12 {
		t.Errorf("normalized column = %v, want a=0.25 b=0.75", col)
	}
}

func TestCompile_EmptyColumnStaysNil(t *testing.T) {
	s := buildStore(t, [][3]any{{"a", "b", 1.0}})

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	j, _ := c.IndexOf("a")
	if c.Incoming(j) != nil {
		t.Errorf("expected nil column for node with no incoming edges, got %v", c.Incoming(j))
	}
}

func TestCompiled_Fresh(t *testing.T) {
	s := buildStore(t, [][3]any{{"a", "b", 1.0}})

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := c.Fresh(); err != nil {
		t.Fatalf("fresh handle reported stale: %v", err)
	}

	// Weight overwrite is not structural; the handle stays usable.
	s.AddEdge("a", "b", 0.5)
	if err := c.Fresh(); err != nil {
		t.Errorf("weight overwrite must not invalidate the handle: %v", err)
	}

	// Node growth is structural.
	s.AddNode(graph.Node{ID: "c"})
	if err := c.Fresh(); !errors.Is(err, ErrStaleCompiled) {
		t.Errorf("expected ErrStaleCompiled after node growth, got %v", err)
	}
}

func TestCompiled_MarkEdgeStale(t *testing.T) {
	s := buildStore(t, [][3]any{{"a", "b", 1.0}})

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	c.MarkEdgeStale()
	if err := c.Fresh(); !errors.Is(err, ErrStaleCompiled) {
		t.Errorf("expected ErrStaleCompiled after MarkEdgeStale, got %v", err)
	}
}

func TestCompiled_SetCell(t *testing.T) {
	s := buildStore(t, [][3]any{{"a", "b", 1.0}})

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ai, _ := c.IndexOf("a")
	bj, _ := c.IndexOf("b")
	c.SetCell(ai, bj, 0.42)

	if got := c.Incoming(bj)[ai]; got != 0.42 {
		t.Errorf("cell (a,b) = %v after patch, want 0.42", got)
	}
	if err := c.Fresh(); err != nil {
		t.Errorf("in-place patch must not invalidate the handle: %v", err)
	}
}

func TestCompiled_SetCell_AllocatesColumn(t *testing.T) {
	s := graph.NewMemoryStore()
	s.AddNode(graph.Node{ID: "a"})
	s.AddNode(graph.Node{ID: "b"})

	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ai, _ := c.IndexOf("a")
	bj, _ := c.IndexOf("b")
	c.SetCell(ai, bj, 0.1)

	if got := c.Incoming(bj)[ai]; got != 0.1 {
		t.Errorf("expected patch into empty column to take, got %v", got)
	}
}
