// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

// Package snapshot flattens the relational graph store into a portable,
// order-stable node-list projection and implements the batch analyses that
// consume it: community detection and anonymization. Everything here is
// pure and in-memory; the store is only read, never written.
package snapshot

import (
	"context"

	"github.com/linkmesh-dev/linkmesh/internal/store"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

// NodeData is the interchange record for one node: a point-in-time
// projection of the store, not persisted independently. Subscribers is nil
// (JSON null) when metadata was never fetched — never defaulted to zero.
type NodeData struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Sensitive   int     `json:"sensitive"`
	Subscribers *int64  `json:"subscribers"`
	LinksTo     []int64 `json:"linksTo"`
}

// Source is the read surface Export needs from a graph store.
type Source interface {
	ListNodes(ctx context.Context) ([]store.Node, error)
	ListEdges(ctx context.Context) ([]store.Edge, error)
}

// Export joins all edges grouped by source id against the node table.
// Output is ordered ascending by id with linksTo ascending, so repeated
// exports of an unchanged store are byte-identical once encoded.
func Export(ctx context.Context, src Source) ([]NodeData, error) {
	nodes, err := src.ListNodes(ctx)
	if err != nil {
		return nil, lmerr.Wrap(err, lmerr.CodeSnapshotExportFailure, "listing nodes for export")
	}
	edges, err := src.ListEdges(ctx)
	if err != nil {
		return nil, lmerr.Wrap(err, lmerr.CodeSnapshotExportFailure, "listing edges for export")
	}

	linksTo := make(map[int64][]int64, len(nodes))
	for _, e := range edges {
		linksTo[e.FromID] = append(linksTo[e.FromID], e.ToID)
	}

	out := make([]NodeData, 0, len(nodes))
	for _, n := range nodes {
		nd := NodeData{
			ID:          n.ID,
			Name:        n.Name,
			Subscribers: n.Subscribers,
			LinksTo:     linksTo[n.ID],
		}
		if n.Sensitive == store.SensitivityFlagged {
			nd.Sensitive = 1
		}
		if nd.LinksTo == nil {
			nd.LinksTo = []int64{}
		}
		out = append(out, nd)
	}
	return out, nil
}
