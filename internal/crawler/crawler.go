// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

// Package crawler drives the frontier: it pulls unvisited nodes one at a
// time, asks the extractor collaborator for outgoing links and metadata,
// and writes the results back through the graph store. The extractor is
// treated as fallible — a failed fetch leaves the node with null metadata
// for a later healing pass and never halts the loop.
package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/linkmesh-dev/linkmesh/internal/frontier"
	"github.com/linkmesh-dev/linkmesh/internal/metrics"
	"github.com/linkmesh-dev/linkmesh/internal/store"
)

// Meta is the per-node metadata an extractor may return. A nil Meta means
// the fetch failed or the upstream page carried no usable metadata.
type Meta struct {
	Subscribers int64
	Sensitive   bool
}

// ExtractResult is what an extractor produces for one node: deduplicated
// discovered link names and optional metadata.
type ExtractResult struct {
	Links []string
	Meta  *Meta
}

// Collection is one curated external list of node names.
type Collection struct {
	Group   string
	Members []string
}

// Extractor is the opaque page-scraping collaborator. Implementations live
// outside this module; the crawler only assumes they can fail.
type Extractor interface {
	Extract(ctx context.Context, name string) (ExtractResult, error)
	ListCollections(ctx context.Context, owner string) ([]Collection, error)
}

// Options tunes a crawl run.
type Options struct {
	// Delay is slept between frontier items, purely for politeness toward
	// the upstream source.
	Delay time.Duration

	// MaxItems caps the number of frontier items processed in one run.
	// Zero means no cap.
	MaxItems int
}

// Report summarises a finished run. A run always reports processed versus
// remaining, even after per-item failures.
type Report struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Remaining int64         `json:"remaining"`
	Duration  time.Duration `json:"duration"`
}

// Runner owns one sequential crawl over the frontier. There is no parallel
// worker model: each item is fully processed (extract, metadata, edges,
// visited) before the next is pulled.
type Runner struct {
	store     store.GraphStore
	frontier  *frontier.Frontier
	extractor Extractor
	opts      Options
}

// NewRunner wires a Runner over the given store and extractor.
func NewRunner(s store.GraphStore, ex Extractor, opts Options) *Runner {
	return &Runner{
		store:     s,
		frontier:  frontier.New(s),
		extractor: ex,
		opts:      opts,
	}
}

// Run drains the frontier until it is empty, the item cap is reached, or
// the context is cancelled. Store failures abort the run; extraction
// failures are logged and skipped.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	start := time.Now()

	defer func() {
		report.Duration = time.Since(start)
		if remaining, err := r.frontier.Count(context.WithoutCancel(ctx)); err == nil {
			report.Remaining = remaining
			metrics.FrontierRemaining.Set(float64(remaining))
		}
	}()

	slog.Info("crawl starting", "run_id", report.RunID, "max_items", r.opts.MaxItems, "delay", r.opts.Delay)

	for name, err := range r.frontier.All(ctx) {
		if err != nil {
			return report, err
		}

		if err := r.processItem(ctx, name, &report); err != nil {
			return report, err
		}

		if r.opts.MaxItems > 0 && report.Processed >= r.opts.MaxItems {
			break
		}
		if r.opts.Delay > 0 {
			select {
			case <-time.After(r.opts.Delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	slog.Info("crawl finished",
		"run_id", report.RunID,
		"processed", report.Processed,
		"failed", report.Failed,
	)
	return report, nil
}

// processItem handles one frontier item end to end. Only store errors
// propagate; extractor trouble downgrades to an incomplete node.
func (r *Runner) processItem(ctx context.Context, name string, report *Report) error {
	result, err := r.extractor.Extract(ctx, name)
	if err != nil {
		metrics.ExtractionFailures.Inc()
		report.Failed++
		slog.Warn("extraction failed, leaving node incomplete", "node", name, "error", err)
	} else {
		if result.Meta != nil {
			sensitive := store.SensitivityFromBool(result.Meta.Sensitive)
			if err := r.store.UpdateMetadata(ctx, name, sensitive, result.Meta.Subscribers); err != nil {
				return err
			}
		} else {
			metrics.ExtractionFailures.Inc()
		}

		if err := r.recordLinks(ctx, name, result.Links); err != nil {
			return err
		}
	}

	// Visited marks link extraction as done; metadata may still be missing
	// and is the healing pass's problem.
	if err := r.store.MarkVisited(ctx, name); err != nil {
		return err
	}
	metrics.NodesVisited.Inc()
	report.Processed++
	return nil
}

// recordLinks upserts every discovered target in one transaction and
// appends the corresponding directed edges.
func (r *Runner) recordLinks(ctx context.Context, from string, links []string) error {
	if len(links) == 0 {
		return nil
	}

	fromID, err := r.store.UpsertNode(ctx, from)
	if err != nil {
		return err
	}

	ids, err := r.store.BulkUpsertNodes(ctx, links)
	if err != nil {
		return err
	}
	metrics.NodesDiscovered.Add(float64(len(ids)))

	for _, toID := range ids {
		if err := r.store.AddEdge(ctx, fromID, toID); err != nil {
			return err
		}
		metrics.EdgesRecorded.Inc()
	}
	return nil
}

// Heal retries metadata for every incomplete node. It only ever calls
// UpdateMetadata — visited flags and edges are untouched — so it can run
// any time, including concurrently with nothing at all (the single-writer
// rule still applies). Returns how many nodes were completed.
func (r *Runner) Heal(ctx context.Context) (int, error) {
	names, err := r.store.ListIncomplete(ctx)
	if err != nil {
		return 0, err
	}

	healed := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return healed, err
		}

		result, err := r.extractor.Extract(ctx, name)
		if err != nil || result.Meta == nil {
			metrics.ExtractionFailures.Inc()
			slog.Debug("healing attempt failed", "node", name, "error", err)
			continue
		}

		sensitive := store.SensitivityFromBool(result.Meta.Sensitive)
		if err := r.store.UpdateMetadata(ctx, name, sensitive, result.Meta.Subscribers); err != nil {
			return healed, err
		}
		healed++

		if r.opts.Delay > 0 {
			select {
			case <-time.After(r.opts.Delay):
			case <-ctx.Done():
				return healed, ctx.Err()
			}
		}
	}

	slog.Info("healing pass finished", "incomplete", len(names), "healed", healed)
	return healed, nil
}

// ImportMemberships pulls the owner's curated collections, enqueues every
// member into the frontier, and records the membership facts. Returns the
// number of members seen.
func (r *Runner) ImportMemberships(ctx context.Context, owner string) (int, error) {
	collections, err := r.extractor.ListCollections(ctx, owner)
	if err != nil {
		return 0, err
	}

	seen := 0
	for _, c := range collections {
		for _, member := range c.Members {
			if _, err := r.store.UpsertNode(ctx, member); err != nil {
				return seen, err
			}
			metrics.NodesDiscovered.Inc()
			if err := r.store.SetMembership(ctx, c.Group, member); err != nil {
				return seen, err
			}
			seen++
		}
	}

	slog.Info("memberships imported", "owner", owner, "collections", len(collections), "members", seen)
	return seen, nil
}
