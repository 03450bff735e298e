// Package session provides the stateless-per-call façade over the engine:
// it owns one graph, composes the propagator and the plasticity engine, and
// records query/reinforcement history for aggregate statistics.
//
// A session is the unit of external synchronization. The engine carries no
// internal locking; callers running a session from multiple goroutines must
// serialize access themselves.
package session

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/engramdb/engram/internal/activation"
	"github.com/engramdb/engram/internal/compile"
	"github.com/engramdb/engram/internal/graph"
	"github.com/engramdb/engram/internal/logging"
	"github.com/engramdb/engram/internal/metrics"
	"github.com/engramdb/engram/internal/paths"
	"github.com/engramdb/engram/internal/plasticity"
)

// Config holds session wiring. Zero-value Logger and Trace are valid: the
// logger falls back to a discard handler and tracing is disabled.
type Config struct {
	Activation activation.Config
	Plasticity plasticity.Config
	Logger     *slog.Logger
	Trace      *logging.TraceLogger
}

// DefaultConfig returns a session configuration with engine defaults.
func DefaultConfig() Config {
	return Config{
		Activation: activation.DefaultConfig(),
		Plasticity: plasticity.DefaultConfig(),
	}
}

// QueryRecord is one entry of the append-only query log.
type QueryRecord struct {
	Seeds map[string]float64 `json:"seeds"`
	Steps int                `json:"steps"`
	At    time.Time          `json:"at"`
}

// ReinforcementRecord is one entry of the append-only reinforcement log.
type ReinforcementRecord struct {
	Path   []string  `json:"path"`
	Reward float64   `json:"reward"`
	At     time.Time `json:"at"`
}

// Stats aggregates a session's history.
type Stats struct {
	Queries        int     `json:"queries"`
	Reinforcements int     `json:"reinforcements"`
	TotalReward    float64 `json:"total_reward"`
}

// Session owns a graph and serves queries and reinforcements against it.
// The compiled matrix is rebuilt lazily whenever it goes stale; the façade
// owns the graph, so it owns the compile step too.
type Session struct {
	id         string
	store      graph.Store
	compiled   *compile.Compiled
	propagator *activation.Engine
	learner    *plasticity.Engine
	log        *slog.Logger
	trace      *logging.TraceLogger

	queries        []QueryRecord
	reinforcements []ReinforcementRecord
	totalReward    float64
}

// New creates a session owning the given store. Ownership is exclusive:
// nothing in the design shares a store across sessions.
func New(store graph.Store, cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	return &Session{
		id:         id,
		store:      store,
		propagator: activation.NewEngine(cfg.Activation),
		learner:    plasticity.NewEngine(cfg.Plasticity),
		log:        log.With("session", id),
		trace:      cfg.Trace,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Store returns the session-owned graph store.
func (s *Session) Store() graph.Store { return s.store }

// SetContext restricts subsequent queries to the given node subset.
func (s *Session) SetContext(nodes []string) { s.propagator.SetContext(nodes) }

// ClearContext removes the context restriction.
func (s *Session) ClearContext() { s.propagator.ClearContext() }

// Query runs spreading activation from the given seeds, appends the call to
// the query log, and returns the resulting energies.
func (s *Session) Query(seeds map[string]float64, steps int) (map[string]float64, error) {
	if err := s.ensureCompiled(); err != nil {
		return nil, err
	}

	result, err := s.propagator.Propagate(s.compiled, seeds, steps)
	if err != nil {
		return nil, err
	}

	s.queries = append(s.queries, QueryRecord{Seeds: seeds, Steps: steps, At: time.Now()})
	metrics.QueriesTotal.Inc()
	metrics.PropagationSteps.Add(float64(steps))

	s.log.Debug("query served", "seeds", len(seeds), "steps", steps, "active", len(result))
	s.trace.Event("query", map[string]any{
		"session": s.id,
		"seeds":   seeds,
		"steps":   steps,
		"active":  len(result),
	})
	return result, nil
}

// Reinforce applies a Hebbian update along path with the given reward,
// appends the call to the reinforcement log, and returns the per-edge weight
// deltas. Missing path edges are created; if that grows the node set, the
// compiled matrix is rebuilt on the next query.
func (s *Session) Reinforce(path []string, reward float64) (map[plasticity.EdgeKey]float64, error) {
	// The plasticity engine only needs a compiled handle for in-place cell
	// patching; a stale one is withheld rather than patched.
	compiled := s.compiled
	if compiled != nil && compiled.Fresh() != nil {
		compiled = nil
	}

	deltas := s.learner.Apply(s.store, compiled, path, reward)

	s.reinforcements = append(s.reinforcements, ReinforcementRecord{
		Path:   path,
		Reward: reward,
		At:     time.Now(),
	})
	s.totalReward += reward
	metrics.ReinforcementsTotal.WithLabelValues(metrics.RewardLabel(reward)).Inc()
	metrics.GraphNodes.Set(float64(s.store.NumNodes()))
	metrics.GraphEdges.Set(float64(s.store.NumEdges()))

	s.log.Debug("path reinforced", "edges", len(deltas), "reward", reward)
	s.trace.Event("reinforce", map[string]any{
		"session": s.id,
		"path":    path,
		"reward":  reward,
		"edges":   len(deltas),
	})
	return deltas, nil
}

// StrongestPaths ranks the top-K strongest simple paths out of source.
func (s *Session) StrongestPaths(source string, maxDepth, topK int) []paths.RankedPath {
	return paths.Strongest(s.store, source, maxDepth, topK)
}

// Stats aggregates the session's two history logs.
func (s *Session) Stats() Stats {
	return Stats{
		Queries:        len(s.queries),
		Reinforcements: len(s.reinforcements),
		TotalReward:    s.totalReward,
	}
}

// QueryLog returns the append-only query history.
func (s *Session) QueryLog() []QueryRecord { return s.queries }

// ReinforcementLog returns the append-only reinforcement history.
func (s *Session) ReinforcementLog() []ReinforcementRecord { return s.reinforcements }

// ensureCompiled rebuilds the compiled matrix when absent or stale.
func (s *Session) ensureCompiled() error {
	trigger := ""
	switch {
	case s.compiled == nil:
		trigger = "initial"
	case s.compiled.Fresh() != nil:
		trigger = "stale"
	default:
		return nil
	}

	compiled, err := compile.Compile(s.store)
	if err != nil {
		return err
	}
	s.compiled = compiled

	metrics.Recompiles.WithLabelValues(trigger).Inc()
	metrics.GraphNodes.Set(float64(s.store.NumNodes()))
	metrics.GraphEdges.Set(float64(s.store.NumEdges()))

	s.log.Debug("graph compiled", "trigger", trigger, "nodes", compiled.Len())
	s.trace.Event("compile", map[string]any{
		"session": s.id,
		"trigger": trigger,
		"nodes":   compiled.Len(),
	})
	return nil
}
