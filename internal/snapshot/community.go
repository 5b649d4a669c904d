// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package snapshot

import "sort"

// Community is one connected group of nodes with its representative hub.
type Community struct {
	Hub     string   `json:"hub" yaml:"hub"`
	Members []string `json:"members" yaml:"members"`
	Size    int      `json:"size" yaml:"size"`
}

// Detect partitions a snapshot into connected components and picks a hub
// per component.
//
// Edges are treated as symmetric for membership, since cross-links are not
// reliably reciprocal; each node's popularity signal is its total degree
// (in + out) over the original directed edge set. Components are ordered by
// descending size, ties kept in first-discovery order. The hub is the
// maximal-degree member, ties resolved by earliest name. An empty snapshot
// yields no components.
func Detect(nodes []NodeData) []Community {
	comps := components(nodes)
	degree := totalDegrees(nodes)

	sort.SliceStable(comps, func(i, j int) bool {
		return len(comps[i]) > len(comps[j])
	})

	out := make([]Community, 0, len(comps))
	for _, members := range comps {
		hub := members[0]
		for _, m := range members[1:] {
			d, best := degree[m], degree[hub]
			if d > best || (d == best && m < hub) {
				hub = m
			}
		}
		out = append(out, Community{Hub: hub, Members: members, Size: len(members)})
	}
	return out
}

// components groups node names by connectivity over the undirected closure
// of the link set, using an explicit stack instead of call-stack recursion
// so a giant component cannot overflow. Components appear in
// first-discovery order; members appear in traversal order.
func components(nodes []NodeData) [][]string {
	adj := make(map[int64][]int64, len(nodes))
	name := make(map[int64]string, len(nodes))
	for _, n := range nodes {
		name[n.ID] = n.Name
	}
	for _, n := range nodes {
		for _, to := range n.LinksTo {
			if _, ok := name[to]; !ok {
				continue // dangling target outside the snapshot
			}
			adj[n.ID] = append(adj[n.ID], to)
			adj[to] = append(adj[to], n.ID)
		}
	}

	seen := make(map[int64]bool, len(nodes))
	var comps [][]string

	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}

		var members []string
		stack := []int64{n.ID}
		seen[n.ID] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, name[id])
			for _, next := range adj[id] {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
		comps = append(comps, members)
	}
	return comps
}

// totalDegrees counts in-degree plus out-degree per node name over the
// directed edge set.
func totalDegrees(nodes []NodeData) map[string]int {
	name := make(map[int64]string, len(nodes))
	for _, n := range nodes {
		name[n.ID] = n.Name
	}

	degree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		for _, to := range n.LinksTo {
			target, ok := name[to]
			if !ok {
				continue
			}
			degree[n.Name]++
			degree[target]++
		}
	}
	return degree
}
