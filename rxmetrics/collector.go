// Package rxmetrics exposes a SharedState's graph-health counters as
// Prometheus metrics, the domain-stack dependency pulled in from the pack's
// client_golang usage (R3E-Network/service_layer) rather than anything
// hand-rolled.
package rxmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reactorcore/reactor"
)

// Collector implements prometheus.Collector over a SharedState's Stats(),
// polled fresh on every scrape rather than cached.
type Collector struct {
	rt *reactor.SharedState

	atoms            *prometheus.Desc
	computeds        *prometheus.Desc
	reactions        *prometheus.Desc
	pendingReactions *prometheus.Desc
	drains           *prometheus.Desc
	reactionRuns     *prometheus.Desc
}

// NewCollector builds a Collector over rt. Register it with a
// prometheus.Registry the usual way: registry.MustRegister(rxmetrics.NewCollector(rt)).
func NewCollector(rt *reactor.SharedState) *Collector {
	return &Collector{
		rt: rt,
		atoms: prometheus.NewDesc(
			"reactor_atoms_created_total", "Atoms ever created on this graph.", nil, nil),
		computeds: prometheus.NewDesc(
			"reactor_computeds_created_total", "Computeds ever created on this graph.", nil, nil),
		reactions: prometheus.NewDesc(
			"reactor_reactions_created_total", "Reactions ever created on this graph.", nil, nil),
		pendingReactions: prometheus.NewDesc(
			"reactor_pending_reactions", "Reactions currently queued for the next drain.", nil, nil),
		drains: prometheus.NewDesc(
			"reactor_drain_iterations_total", "Drain-loop iterations run on this graph.", nil, nil),
		reactionRuns: prometheus.NewDesc(
			"reactor_reaction_runs_total", "Reaction effect invocations run on this graph.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.atoms
	ch <- c.computeds
	ch <- c.reactions
	ch <- c.pendingReactions
	ch <- c.drains
	ch <- c.reactionRuns
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.rt.Stats()
	ch <- prometheus.MustNewConstMetric(c.atoms, prometheus.CounterValue, float64(stats.Atoms))
	ch <- prometheus.MustNewConstMetric(c.computeds, prometheus.CounterValue, float64(stats.Computeds))
	ch <- prometheus.MustNewConstMetric(c.reactions, prometheus.CounterValue, float64(stats.Reactions))
	ch <- prometheus.MustNewConstMetric(c.pendingReactions, prometheus.GaugeValue, float64(stats.PendingReactions))
	ch <- prometheus.MustNewConstMetric(c.drains, prometheus.CounterValue, float64(stats.DrainCount))
	ch <- prometheus.MustNewConstMetric(c.reactionRuns, prometheus.CounterValue, float64(stats.ReactionRunCount))
}
