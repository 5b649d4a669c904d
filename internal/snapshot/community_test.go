// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package snapshot_test

import (
	"testing"

	"github.com/linkmesh-dev/linkmesh/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id int64, name string, linksTo ...int64) snapshot.NodeData {
	if linksTo == nil {
		linksTo = []int64{}
	}
	return snapshot.NodeData{ID: id, Name: name, LinksTo: linksTo}
}

func TestDetectTwoComponentsSortedBySize(t *testing.T) {
	// A->B, B->C, D->E
	nodes := []snapshot.NodeData{
		node(1, "a", 2),
		node(2, "b", 3),
		node(3, "c"),
		node(4, "d", 5),
		node(5, "e"),
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 2)

	assert.Equal(t, 3, comms[0].Size)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, comms[0].Members)
	assert.Equal(t, 2, comms[1].Size)
	assert.ElementsMatch(t, []string{"d", "e"}, comms[1].Members)
}

func TestDetectHubIsHighestTotalDegree(t *testing.T) {
	// Degrees: a=1, b=3, c=2. All one component.
	nodes := []snapshot.NodeData{
		node(1, "a", 2),
		node(2, "b", 3),
		node(3, "c", 2),
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 1)
	assert.Equal(t, "b", comms[0].Hub)
}

func TestDetectHubTieBreaksAlphabetically(t *testing.T) {
	// apple -> mac; both have total degree 1.
	subs1, subs2 := int64(100), int64(50)
	nodes := []snapshot.NodeData{
		{ID: 1, Name: "apple", Sensitive: 0, Subscribers: &subs1, LinksTo: []int64{2}},
		{ID: 2, Name: "mac", Sensitive: 0, Subscribers: &subs2, LinksTo: []int64{}},
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 1)
	assert.ElementsMatch(t, []string{"apple", "mac"}, comms[0].Members)
	assert.Equal(t, "apple", comms[0].Hub)
}

func TestDetectMembershipIsUndirectedButDegreeIsDirected(t *testing.T) {
	// c links into a twice-linked b; no reciprocal links exist.
	nodes := []snapshot.NodeData{
		node(1, "a", 2),
		node(2, "b"),
		node(3, "c", 2),
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 1)
	assert.Equal(t, 3, comms[0].Size)
	assert.Equal(t, "b", comms[0].Hub) // in-degree 2 beats out-degree 1
}

func TestDetectSingletonsAreTheirOwnHub(t *testing.T) {
	nodes := []snapshot.NodeData{
		node(1, "solo"),
		node(2, "a", 3),
		node(3, "b"),
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 2)
	assert.Equal(t, 2, comms[0].Size)

	assert.Equal(t, []string{"solo"}, comms[1].Members)
	assert.Equal(t, "solo", comms[1].Hub)
}

func TestDetectSizeTiesKeepDiscoveryOrder(t *testing.T) {
	nodes := []snapshot.NodeData{
		node(1, "x", 2),
		node(2, "y"),
		node(3, "p", 4),
		node(4, "q"),
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 2)
	assert.ElementsMatch(t, []string{"x", "y"}, comms[0].Members)
	assert.ElementsMatch(t, []string{"p", "q"}, comms[1].Members)
}

func TestDetectEmptySnapshot(t *testing.T) {
	assert.Empty(t, snapshot.Detect(nil))
	assert.Empty(t, snapshot.Detect([]snapshot.NodeData{}))
}

func TestDetectLargeChainDoesNotRecurse(t *testing.T) {
	// A deep path would overflow a call-stack DFS; the explicit stack must
	// handle it.
	const n = 200000
	nodes := make([]snapshot.NodeData, 0, n)
	for i := int64(1); i <= n; i++ {
		var links []int64
		if i < n {
			links = []int64{i + 1}
		}
		nodes = append(nodes, snapshot.NodeData{ID: i, Name: nodeName(i), LinksTo: links})
	}

	comms := snapshot.Detect(nodes)
	require.Len(t, comms, 1)
	assert.Equal(t, n, comms[0].Size)
}

func nodeName(i int64) string {
	const digits = "0123456789"
	if i == 0 {
		return "n0"
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return "n" + string(buf)
}
