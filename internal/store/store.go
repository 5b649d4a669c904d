// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

// Package store defines the persistent graph of community cross-references:
// nodes, directed edges, and curated collection memberships. Implementations
// own the uniqueness and referential invariants; callers get normalized
// names and stable integer ids.
package store

import "context"

// GraphStore is the durable storage contract for the link graph. The store
// is written by a single process at a time; implementations rely on the
// storage engine's own locking for file-level exclusion and add no
// multi-writer coordination of their own.
type GraphStore interface {
	// UpsertNode normalizes name and inserts it unvisited if absent.
	// Idempotent; returns the stable id either way.
	UpsertNode(ctx context.Context, name string) (int64, error)

	// BulkUpsertNodes applies UpsertNode semantics to every name inside a
	// single transaction and returns ids in input order.
	BulkUpsertNodes(ctx context.Context, names []string) ([]int64, error)

	// AddEdge records a directed link. Self-loops are a no-op, duplicate
	// pairs are ignored, and a missing endpoint is silently skipped so a
	// long-running crawl never aborts on a transient lookup race.
	AddEdge(ctx context.Context, fromID, toID int64) error

	// UpdateMetadata sets the sensitivity flag and subscriber count as one
	// unit. No-op when the node does not exist or name is empty.
	UpdateMetadata(ctx context.Context, name string, sensitive Sensitivity, subscribers int64) error

	// MarkVisited sets visited=true. Idempotent; no-op when absent. The
	// transition is one-way: there is no reset path.
	MarkVisited(ctx context.Context, name string) error

	// SetMembership upserts the (group, node) pair, replacing any prior
	// record.
	SetMembership(ctx context.Context, group, node string) error

	// NextUnvisited returns the oldest unvisited node by insertion order.
	// ok is false when the frontier is empty.
	NextUnvisited(ctx context.Context) (name string, ok bool, err error)

	// CountUnvisited returns the number of frontier entries remaining.
	CountUnvisited(ctx context.Context) (int64, error)

	// ListIncomplete returns names whose subscriber count or sensitivity
	// flag is still unset, independent of visited status.
	ListIncomplete(ctx context.Context) ([]string, error)

	// ListNodes returns all nodes ascending by id.
	ListNodes(ctx context.Context) ([]Node, error)

	// ListEdges returns all edges ascending by (from_id, to_id).
	ListEdges(ctx context.Context) ([]Edge, error)

	// ListMemberships returns memberships for one group, or all groups when
	// group is empty, ordered by (group, node).
	ListMemberships(ctx context.Context, group string) ([]Membership, error)

	// Stats returns point-in-time counts.
	Stats(ctx context.Context) (Stats, error)

	Close() error
}
