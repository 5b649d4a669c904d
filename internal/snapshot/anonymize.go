// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package snapshot

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/linkmesh-dev/linkmesh/internal/store"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

// AnonymizeOptions selects which part of a snapshot survives redaction.
// When Component is set it names one community (any member name will do)
// and wins over MinComponentSize; otherwise every component whose size
// exceeds MinComponentSize is retained.
type AnonymizeOptions struct {
	MinComponentSize int
	Component        string

	// Rand drives the id shuffle. Nil means a cryptographically seeded
	// source; tests inject a fixed seed.
	Rand *rand.Rand
}

// Anonymize produces a redacted, shareable copy of a snapshot: nodes
// outside the retained component set are dropped, links to dropped nodes
// are omitted entirely (never rewritten to a sentinel), and the retained
// ids are relabeled through a uniform random bijection onto [0, k). Names
// are replaced by synthetic labels so no original identity survives.
// Output is sorted ascending by new id, which also hides insertion order.
//
// The retained subgraph's structure — reachability and degree
// distribution — is exactly preserved; only labels change.
func Anonymize(nodes []NodeData, opts AnonymizeOptions) ([]NodeData, error) {
	retained, err := selectRetained(nodes, opts)
	if err != nil {
		return nil, err
	}

	// Pair a shuffled copy of the retained id list positionally with the
	// dense range [0, k) — a Fisher–Yates permutation of the labels.
	ids := make([]int64, 0, len(retained))
	for _, n := range nodes {
		if retained[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	shuffled := append([]int64(nil), ids...)
	if opts.Rand != nil {
		opts.Rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	} else {
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}
	newID := make(map[int64]int64, len(shuffled))
	for i, id := range shuffled {
		newID[id] = int64(i)
	}

	out := make([]NodeData, 0, len(ids))
	for _, n := range nodes {
		if !retained[n.ID] {
			continue
		}

		links := make([]int64, 0, len(n.LinksTo))
		for _, to := range n.LinksTo {
			if mapped, ok := newID[to]; ok {
				links = append(links, mapped)
			}
		}
		sort.Slice(links, func(i, j int) bool { return links[i] < links[j] })

		id := newID[n.ID]
		out = append(out, NodeData{
			ID:          id,
			Name:        fmt.Sprintf("node-%d", id),
			Sensitive:   n.Sensitive,
			Subscribers: n.Subscribers,
			LinksTo:     links,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// selectRetained resolves the options into the set of original ids that
// survive. A named component that does not exist is a NotFound error, never
// a silent empty result.
func selectRetained(nodes []NodeData, opts AnonymizeOptions) (map[int64]bool, error) {
	id := make(map[string]int64, len(nodes))
	for _, n := range nodes {
		id[n.Name] = n.ID
	}

	comps := components(nodes)
	retained := make(map[int64]bool)

	if opts.Component != "" {
		want := store.NormalizeName(opts.Component)
		for _, members := range comps {
			for _, m := range members {
				if m != want {
					continue
				}
				for _, member := range members {
					retained[id[member]] = true
				}
				return retained, nil
			}
		}
		return nil, lmerr.New(lmerr.CodeSnapshotComponentNotFound,
			"no component contains the requested node", lmerr.FieldComponent(want))
	}

	for _, members := range comps {
		if len(members) <= opts.MinComponentSize {
			continue
		}
		for _, m := range members {
			retained[id[m]] = true
		}
	}
	return retained, nil
}
