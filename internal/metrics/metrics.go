// Package metrics exposes Prometheus instrumentation for the engine.
// Metrics are registered via promauto so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts propagation queries served by sessions.
	QueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engram_queries_total",
		Help: "Total number of spreading activation queries",
	})

	// ReinforcementsTotal counts reinforcement calls, labeled by reward sign.
	ReinforcementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engram_reinforcements_total",
		Help: "Total number of Hebbian reinforcement updates",
	}, []string{"reward"})

	// PropagationSteps counts individual diffusion steps executed.
	PropagationSteps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engram_propagation_steps_total",
		Help: "Total number of diffusion steps executed across all queries",
	})

	// Recompiles counts matrix compilations, labeled by trigger.
	Recompiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engram_recompiles_total",
		Help: "Total number of matrix compilations",
	}, []string{"trigger"})

	// GraphNodes tracks the node count of session-owned graphs.
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "engram_graph_nodes",
		Help: "Number of nodes in the session graph",
	})

	// GraphEdges tracks the edge count of session-owned graphs.
	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "engram_graph_edges",
		Help: "Number of edges in the session graph",
	})
)

// RewardLabel buckets a reward value for the reinforcement counter.
func RewardLabel(reward float64) string {
	switch {
	case reward > 0:
		return "positive"
	case reward < 0:
		return "negative"
	default:
		return "zero"
	}
}
