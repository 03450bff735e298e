// Package activation implements spreading activation over a compiled graph.
// Seed energy diffuses along the column-normalized adjacency matrix for a
// fixed number of steps, shaped by decay, context gating, threshold pruning,
// and renormalization so the system stays bounded across arbitrarily many
// steps.
package activation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/engramdb/engram/internal/compile"
)

// ErrUnknownNode is returned in strict mode when a seed references a node
// absent from the compiled index.
var ErrUnknownNode = errors.New("activation: unknown node id")

// Config holds tunable parameters for the propagation loop.
type Config struct {
	// Decay is the per-step energy retention loss (gamma, in [0, 1]).
	// Each step a node keeps (1-Decay) of its current energy. Default: 0.2.
	Decay float64

	// Diffusion is the transmission rate (alpha, >= 0): the fraction of the
	// incoming weighted contribution added each step. Default: 0.5.
	Diffusion float64

	// Threshold prunes energies at or below this value after every step,
	// bounding the active set. Default: 0.01.
	Threshold float64

	// Strict rejects seeds referencing unknown nodes instead of silently
	// ignoring them. The lenient default tolerates partially-noisy seed sets.
	Strict bool
}

// DefaultConfig returns the default propagation configuration.
func DefaultConfig() Config {
	return Config{
		Decay:     0.2,
		Diffusion: 0.5,
		Threshold: 0.01,
	}
}

// Engine performs spreading activation. The engine holds no per-call state
// beyond the optional context mask; activation vectors are created per
// Propagate call and discarded on return.
type Engine struct {
	config Config
	mask   map[string]bool
}

// NewEngine creates a propagation engine.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// SetContext restricts propagation to the given node subset. Nodes outside
// the context are gated to zero on every step. A nil or empty set is
// equivalent to ClearContext.
func (e *Engine) SetContext(nodes []string) {
	if len(nodes) == 0 {
		e.mask = nil
		return
	}
	m := make(map[string]bool, len(nodes))
	for _, id := range nodes {
		m[id] = true
	}
	e.mask = m
}

// ClearContext removes the context mask.
func (e *Engine) ClearContext() { e.mask = nil }

// Propagate runs the diffusion loop for the given number of steps and
// returns the final energy of every node that ends above zero.
//
// Per step:
//  1. diffusion[j] = sum over incoming edges i->j of x[i] * normalized weight
//  2. x'[j] = (1-Decay)*x[j] + Diffusion*diffusion[j]
//  3. gate by the context mask
//  4. prune entries at or below Threshold
//  5. rescale the whole vector by 1/max when max exceeds 1.0
//
// With steps=0 the result is exactly the thresholded seed map.
func (e *Engine) Propagate(c *compile.Compiled, seeds map[string]float64, steps int) (map[string]float64, error) {
	if err := c.Fresh(); err != nil {
		return nil, err
	}

	n := c.Len()
	x := make([]float64, n)
	for id, energy := range seeds {
		i, ok := c.IndexOf(id)
		if !ok {
			if e.config.Strict {
				return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
			}
			continue
		}
		x[i] = energy
	}

	gate := e.gateVector(c)

	next := make([]float64, n)
	for step := 0; step < steps; step++ {
		// Incoming contributions along the compiled matrix.
		for j := 0; j < n; j++ {
			var diff float64
			for i, w := range c.Incoming(j) {
				if x[i] > 0 {
					diff += x[i] * w
				}
			}
			next[j] = (1-e.config.Decay)*x[j] + e.config.Diffusion*diff
		}
		x, next = next, x

		if gate != nil {
			floats.Mul(x, gate)
		}

		for i, v := range x {
			if v <= e.config.Threshold {
				x[i] = 0
			}
		}

		// Cycles and positive feedback can push energy past 1.0; rescaling
		// by the max keeps the vector bounded without changing its shape.
		if max := floats.Max(x); max > 1.0 {
			floats.Scale(1/max, x)
		}
	}

	// Entries at or below the threshold are dropped; with steps=0 this is
	// the only filtering that happens.
	result := make(map[string]float64)
	for i, v := range x {
		if v > e.config.Threshold {
			result[c.IDAt(i)] = v
		}
	}
	return result, nil
}

// gateVector builds the 0/1 context gate over compiled positions, or nil when
// no context is set.
func (e *Engine) gateVector(c *compile.Compiled) []float64 {
	if e.mask == nil {
		return nil
	}
	gate := make([]float64, c.Len())
	for id := range e.mask {
		if i, ok := c.IndexOf(id); ok {
			gate[i] = 1
		}
	}
	return gate
}
