// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

// Package metrics holds the process-wide prometheus instruments. promauto
// registers them on the default registry, which the serve command exposes
// at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NodesDiscovered counts nodes enqueued into the frontier, including
	// re-discoveries of known nodes.
	NodesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkmesh_nodes_discovered_total",
		Help: "Total number of node names fed into the graph store",
	})

	// NodesVisited counts frontier items fully processed and marked visited.
	NodesVisited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkmesh_nodes_visited_total",
		Help: "Total number of frontier items marked visited",
	})

	// EdgesRecorded counts AddEdge calls that were attempted (dedup and
	// silent skips happen below this counter).
	EdgesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkmesh_edges_recorded_total",
		Help: "Total number of directed link insertions attempted",
	})

	// ExtractionFailures counts per-item extractor errors recovered by the
	// frontier loop.
	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkmesh_extraction_failures_total",
		Help: "Total number of extraction attempts that failed or returned no metadata",
	})

	// FrontierRemaining tracks the unvisited node count after each crawl
	// iteration.
	FrontierRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkmesh_frontier_remaining",
		Help: "Unvisited nodes remaining in the crawl frontier",
	})
)
