// Package plasticity applies Hebbian weight updates along reinforced paths,
// optionally stabilized by Oja's rule. Updates mutate the symbolic edge
// weight and, when possible, patch the compiled matrix cell in place.
package plasticity

import (
	"math"

	"github.com/engramdb/engram/internal/compile"
	"github.com/engramdb/engram/internal/graph"
)

// Config holds the learning parameters.
type Config struct {
	// LearningRate (eta) controls how fast edge weights adapt. Default: 0.1.
	LearningRate float64

	// UseOja enables the Oja forgetting term, which subtracts
	// eta * x_v^2 * w and prevents runaway growth under repeated positive
	// reward. Default: true.
	UseOja bool

	// MinWeight is the floor for edge weights after an update. Default: 0.01.
	MinWeight float64

	// MaxWeight is the ceiling for edge weights after an update. Default: 2.0.
	MaxWeight float64

	// NewEdgeWeight is the weight assigned to path edges that do not exist
	// yet. Default: 0.1.
	NewEdgeWeight float64
}

// DefaultConfig returns the default plasticity configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate:  0.1,
		UseOja:        true,
		MinWeight:     0.01,
		MaxWeight:     2.0,
		NewEdgeWeight: 0.1,
	}
}

// EdgeKey identifies a directed edge in an update result.
type EdgeKey struct {
	From string
	To   string
}

// Engine applies reinforcement updates.
type Engine struct {
	config Config
}

// NewEngine creates a plasticity engine.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Apply reinforces every consecutive edge of path with the given reward and
// returns the weight delta actually applied per edge.
//
// The endpoint activations are synthesized from path position: the node at
// position i contributes x = 1/(i+1), so edges near the start of the
// reinforced path learn faster than edges deep into it. Missing edges are
// created at NewEdgeWeight before the update.
//
// When compiled is non-nil and both endpoints are indexed, the single matrix
// cell is patched in place. An edge whose endpoints are not indexed marks the
// compiled handle stale instead; the caller must recompile before the next
// propagation.
func (e *Engine) Apply(s graph.Store, compiled *compile.Compiled, path []string, reward float64) map[EdgeKey]float64 {
	deltas := make(map[EdgeKey]float64)

	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]

		w, ok := s.EdgeWeight(u, v)
		if !ok {
			w = e.config.NewEdgeWeight
			s.AddEdge(u, v, w)
		}

		// Position-based proxy activations, decaying with distance from the
		// start of the path.
		xu := 1.0 / float64(i+1)
		xv := 1.0 / float64(i+2)

		dw := e.config.LearningRate * xu * xv * reward
		if e.config.UseOja {
			dw -= e.config.LearningRate * xv * xv * w
		}

		newWeight := clamp(w+dw, e.config.MinWeight, e.config.MaxWeight)
		s.SetEdgeWeight(u, v, newWeight)
		deltas[EdgeKey{From: u, To: v}] = newWeight - w

		if compiled == nil {
			continue
		}
		ui, uok := compiled.IndexOf(u)
		vi, vok := compiled.IndexOf(v)
		if uok && vok {
			compiled.SetCell(ui, vi, newWeight)
		} else {
			compiled.MarkEdgeStale()
		}
	}

	return deltas
}

// clamp restricts a weight to [min, max]. NaN and infinities collapse to the
// floor so a pathological reward can never poison the matrix.
func clamp(w, min, max float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return min
	}
	if w < min {
		return min
	}
	if w > max {
		return max
	}
	return w
}
