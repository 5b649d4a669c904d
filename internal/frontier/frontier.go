// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

// Package frontier exposes the crawl frontier: an ordered, resumable
// traversal over the store's unvisited nodes. The frontier holds no state
// of its own — every pull reads the store fresh, so nodes discovered
// mid-traversal are visible to later pulls and a restarted process resumes
// exactly where the last one stopped.
package frontier

import (
	"context"
	"iter"

	"github.com/linkmesh-dev/linkmesh/internal/store"
)

// Frontier is a FIFO view over the unvisited nodes of a GraphStore.
//
// Marking an item visited is the caller's responsibility, which makes
// delivery at-least-once: a crash between yield and MarkVisited means the
// item is yielded again on the next traversal. Next followed by MarkVisited
// is not atomic as a pair; parallel consumers would need a compare-and-set
// claim step that this single-writer design deliberately omits.
type Frontier struct {
	store store.GraphStore
}

// New wraps a GraphStore in a Frontier.
func New(s store.GraphStore) *Frontier {
	return &Frontier{store: s}
}

// EnqueueIfAbsent adds a node to the frontier if it is not already known.
// An already-visited node is never un-visited.
func (f *Frontier) EnqueueIfAbsent(ctx context.Context, name string) error {
	_, err := f.store.UpsertNode(ctx, name)
	return err
}

// Next returns the oldest unvisited node by insertion order. ok is false
// when the frontier is empty.
func (f *Frontier) Next(ctx context.Context) (name string, ok bool, err error) {
	return f.store.NextUnvisited(ctx)
}

// Count returns the number of unvisited nodes.
func (f *Frontier) Count(ctx context.Context) (int64, error) {
	return f.store.CountUnvisited(ctx)
}

// All returns a lazy sequence of unvisited node names. Each element is
// fetched from storage at the moment of consumption, not snapshotted up
// front; the sequence ends when the store has no unvisited node or the
// context is cancelled. A consumer that never marks items visited will see
// the same head element forever — that is the resumability contract, not a
// bug.
func (f *Frontier) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			name, ok, err := f.store.NextUnvisited(ctx)
			if err != nil {
				yield("", err)
				return
			}
			if !ok {
				return
			}
			if !yield(name, nil) {
				return
			}
		}
	}
}
