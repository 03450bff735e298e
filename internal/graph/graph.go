// Package graph implements the symbolic layer of the engine: a mutable
// directed graph of identified nodes and weighted edges. The numeric layers
// (compiler, propagator, plasticity) depend only on the Store capability
// interface so alternative backends can be swapped in without touching them.
package graph

import "github.com/tidwall/btree"

// DefaultEdgeWeight is the weight assigned to an edge when the caller does
// not supply one.
const DefaultEdgeWeight = 1.0

// Node is a graph node: a unique identifier plus an opaque attribute bag.
type Node struct {
	ID    string         `json:"id" yaml:"id"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Neighbor pairs an adjacent node ID with the weight of the connecting edge.
type Neighbor struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Store is the minimal capability set the numeric layers are built against.
//
// The version counter advances whenever the node set grows. A compiled index
// built from one version is stale against any later version; the compiler
// uses this to detect divergence instead of silently operating on a mismatched
// index.
//
// Store implementations carry no internal locking. A store instance is owned
// by the session operating on it and callers serialize access externally.
type Store interface {
	// AddNode inserts a node, overwriting attributes if it already exists.
	AddNode(n Node)
	// AddEdge inserts or overwrites the directed edge u->v, creating either
	// endpoint if absent. At most one edge exists per ordered pair.
	AddEdge(u, v string, weight float64)
	// HasNode reports whether the node exists.
	HasNode(id string) bool
	// HasEdge reports whether the directed edge u->v exists.
	HasEdge(u, v string) bool
	// EdgeWeight returns the weight of u->v and whether the edge exists.
	EdgeWeight(u, v string) (float64, bool)
	// SetEdgeWeight overwrites the weight of an existing edge. It reports
	// false, without creating anything, when the edge does not exist.
	SetEdgeWeight(u, v string, weight float64) bool
	// Successors returns the outgoing neighbors of u ordered by weight
	// descending, ties broken by ID. Nil for unknown or sink nodes.
	Successors(u string) []Neighbor
	// Predecessors returns the incoming neighbors of v in ID order.
	Predecessors(v string) []Neighbor
	// NodeIDs returns all node IDs in lexical order.
	NodeIDs() []string
	// NumNodes returns the node count.
	NumNodes() int
	// NumEdges returns the edge count.
	NumEdges() int
	// Version returns the structural version of the node set.
	Version() uint64
}

// MemoryStore is the in-memory Store implementation. Node IDs are kept in a
// B-tree so enumeration order, and therefore the index positions assigned at
// compile time, are deterministic across runs.
type MemoryStore struct {
	nodes   map[string]Node
	order   *btree.BTreeG[string]
	out     map[string]map[string]float64
	in      map[string]map[string]float64
	edges   int
	version uint64
}

// NewMemoryStore creates an empty in-memory graph store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]Node),
		order: btree.NewBTreeG(func(a, b string) bool { return a < b }),
		out:   make(map[string]map[string]float64),
		in:    make(map[string]map[string]float64),
	}
}

// AddNode inserts a node. Re-insertion overwrites the attribute bag and does
// not advance the structural version.
func (s *MemoryStore) AddNode(n Node) {
	s.ensure(n.ID)
	s.nodes[n.ID] = n
}

// ensure registers an ID in the node set, advancing the structural version
// when the set grows.
func (s *MemoryStore) ensure(id string) {
	if _, ok := s.nodes[id]; ok {
		return
	}
	s.nodes[id] = Node{ID: id}
	s.order.Set(id)
	s.version++
}

// AddEdge inserts or overwrites the directed edge u->v, creating missing
// endpoints. Overwriting an existing edge's weight is not a structural change.
func (s *MemoryStore) AddEdge(u, v string, weight float64) {
	s.ensure(u)
	s.ensure(v)

	if s.out[u] == nil {
		s.out[u] = make(map[string]float64)
	}
	if s.in[v] == nil {
		s.in[v] = make(map[string]float64)
	}
	if _, exists := s.out[u][v]; !exists {
		s.edges++
	}
	s.out[u][v] = weight
	s.in[v][u] = weight
}

// HasNode reports whether the node exists.
func (s *MemoryStore) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns the node record and whether it exists.
func (s *MemoryStore) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// HasEdge reports whether the directed edge u->v exists.
func (s *MemoryStore) HasEdge(u, v string) bool {
	_, ok := s.out[u][v]
	return ok
}

// EdgeWeight returns the weight of u->v and whether the edge exists.
func (s *MemoryStore) EdgeWeight(u, v string) (float64, bool) {
	w, ok := s.out[u][v]
	return w, ok
}

// SetEdgeWeight overwrites the weight of an existing edge in both adjacency
// directions. Returns false when the edge does not exist.
func (s *MemoryStore) SetEdgeWeight(u, v string, weight float64) bool {
	if _, ok := s.out[u][v]; !ok {
		return false
	}
	s.out[u][v] = weight
	s.in[v][u] = weight
	return true
}

// Successors returns outgoing neighbors of u, strongest edge first.
func (s *MemoryStore) Successors(u string) []Neighbor {
	return sortedNeighbors(s.out[u], byWeightDesc)
}

// Predecessors returns incoming neighbors of v in ID order.
func (s *MemoryStore) Predecessors(v string) []Neighbor {
	return sortedNeighbors(s.in[v], byID)
}

// NodeIDs returns all node IDs in lexical order.
func (s *MemoryStore) NodeIDs() []string {
	ids := make([]string, 0, s.order.Len())
	s.order.Scan(func(id string) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// NumNodes returns the node count.
func (s *MemoryStore) NumNodes() int { return len(s.nodes) }

// NumEdges returns the edge count.
func (s *MemoryStore) NumEdges() int { return s.edges }

// Version returns the structural version of the node set.
func (s *MemoryStore) Version() uint64 { return s.version }
