// Package compile converts the symbolic graph store into a numeric structure:
// a dense node<->position index and a sparse, column-normalized adjacency
// matrix. Propagation and plasticity operate on the compiled form only.
package compile

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/engramdb/engram/internal/graph"
)

// ErrEmptyGraph is returned by Compile when the store has no nodes.
var ErrEmptyGraph = errors.New("compile: graph has no nodes")

// ErrStaleCompiled is returned when a compiled structure no longer matches
// the store it was built from. Recompile and retry.
var ErrStaleCompiled = errors.New("compile: compiled index is stale, recompile required")

// Compiled is the numeric layer: an immutable-shape index over the node set
// plus a sparse column-oriented weight matrix. Cell values may be patched in
// place by the plasticity engine; the shape never changes after Compile.
//
// A Compiled handle is exclusively owned by the session that produced it.
// It remembers the store version it was built from and every numeric
// operation must call Fresh first.
type Compiled struct {
	ids   []string
	index map[string]int

	// cols[j] maps source position i to the normalized weight of edge i->j,
	// so a column holds the incoming distribution of one node. Columns with
	// no incoming edges are nil.
	cols []map[int]float64

	store     graph.Store
	version   uint64
	edgeStale bool
}

// Compile builds the node<->index bijection from the store's current node set
// (lexical order, so positions are deterministic) and the column-normalized
// sparse weight matrix from its current edges.
func Compile(s graph.Store) (*Compiled, error) {
	ids := s.NodeIDs()
	if len(ids) == 0 {
		return nil, ErrEmptyGraph
	}

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	cols := make([]map[int]float64, len(ids))
	for j, id := range ids {
		preds := s.Predecessors(id)
		if len(preds) == 0 {
			continue
		}
		col := make(map[int]float64, len(preds))
		weights := make([]float64, 0, len(preds))
		for _, p := range preds {
			col[index[p.ID]] = p.Weight
			weights = append(weights, p.Weight)
		}
		// Normalize so incoming weights at this node sum to 1.
		if total := floats.Sum(weights); total > 0 {
			for i, w := range col {
				col[i] = w / total
			}
		}
		cols[j] = col
	}

	return &Compiled{
		ids:     ids,
		index:   index,
		cols:    cols,
		store:   s,
		version: s.Version(),
	}, nil
}

// Fresh reports whether the compiled structure still matches the store's node
// set. Any structural growth of the store, or an edge the plasticity engine
// could not patch, invalidates the handle.
func (c *Compiled) Fresh() error {
	if c.store.Version() != c.version || c.edgeStale {
		return ErrStaleCompiled
	}
	return nil
}

// Len returns the number of indexed nodes.
func (c *Compiled) Len() int { return len(c.ids) }

// IndexOf returns the dense position of a node ID.
func (c *Compiled) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// IDAt returns the node ID at a dense position.
func (c *Compiled) IDAt(i int) string { return c.ids[i] }

// Incoming returns the normalized incoming distribution of the node at
// position j, keyed by source position. The returned map is live matrix
// state; callers must not mutate it.
func (c *Compiled) Incoming(j int) map[int]float64 { return c.cols[j] }

// SetCell patches the single cell (i, j) in place with a raw edge weight.
// No renormalization happens: the column's distribution is approximate until
// the next Compile.
func (c *Compiled) SetCell(i, j int, weight float64) {
	if c.cols[j] == nil {
		c.cols[j] = make(map[int]float64, 1)
	}
	c.cols[j][i] = weight
}

// MarkEdgeStale records that an edge exists in the store but not in the
// compiled matrix. Fresh fails afterwards, forcing a recompile before the
// next propagation.
func (c *Compiled) MarkEdgeStale() { c.edgeStale = true }
