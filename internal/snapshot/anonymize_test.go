// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package snapshot_test

import (
	"math/rand/v2"
	"testing"

	"github.com/linkmesh-dev/linkmesh/internal/snapshot"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestAnonymizeBijectionOverDenseRange(t *testing.T) {
	// Two components: {a,b,c} and {d,e}; singleton {f} is dropped by the
	// threshold.
	nodes := []snapshot.NodeData{
		node(10, "a", 20),
		node(20, "b", 30),
		node(30, "c"),
		node(40, "d", 50),
		node(50, "e"),
		node(60, "f"),
	}

	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{
		MinComponentSize: 1,
		Rand:             fixedRand(),
	})
	require.NoError(t, err)
	require.Len(t, out, 5)

	seen := make(map[int64]bool)
	for i, n := range out {
		assert.Equal(t, int64(i), n.ID, "output must be sorted by new id")
		assert.False(t, seen[n.ID], "ids must not collide")
		seen[n.ID] = true
		assert.Less(t, n.ID, int64(5))
		assert.GreaterOrEqual(t, n.ID, int64(0))
	}
}

func TestAnonymizeDropsOutOfSetLinks(t *testing.T) {
	// b links out of the retained component; the link must vanish, never be
	// rewritten.
	nodes := []snapshot.NodeData{
		node(1, "a", 2),
		node(2, "b", 1),
		node(3, "x", 4),
		node(4, "y"),
		node(5, "z"),
	}
	nodes[1].LinksTo = []int64{1, 5} // b -> a, b -> z (z is a singleton)

	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{
		Component: "a",
		Rand:      fixedRand(),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	valid := map[int64]bool{0: true, 1: true}
	links := 0
	for _, n := range out {
		for _, to := range n.LinksTo {
			assert.True(t, valid[to], "every emitted link endpoint is remapped")
			links++
		}
	}
	assert.Equal(t, 2, links) // a->b and b->a survive; b->z is omitted
}

func TestAnonymizeStructurePreserved(t *testing.T) {
	nodes := []snapshot.NodeData{
		node(1, "a", 2, 3),
		node(2, "b", 3),
		node(3, "c"),
	}

	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{
		MinComponentSize: 2,
		Rand:             fixedRand(),
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Degree distribution survives the relabeling.
	outDegrees := make([]int, 0, 3)
	total := make(map[int64]int)
	for _, n := range out {
		outDegrees = append(outDegrees, len(n.LinksTo))
		total[n.ID] += len(n.LinksTo)
		for _, to := range n.LinksTo {
			total[to]++
		}
	}
	assert.ElementsMatch(t, []int{2, 1, 0}, outDegrees)

	degrees := make([]int, 0, 3)
	for _, d := range total {
		degrees = append(degrees, d)
	}
	assert.ElementsMatch(t, []int{2, 2, 2}, degrees)
}

func TestAnonymizeHidesOriginalLabels(t *testing.T) {
	nodes := []snapshot.NodeData{
		node(7, "apple", 8),
		node(8, "mac"),
	}

	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{Rand: fixedRand()})
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, n := range out {
		assert.NotContains(t, []string{"apple", "mac"}, n.Name)
		assert.NotContains(t, []int64{7, 8}, n.ID)
	}
}

func TestAnonymizeNamedComponentNotFound(t *testing.T) {
	nodes := []snapshot.NodeData{node(1, "a")}

	_, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{Component: "ghost"})
	require.Error(t, err)
	assert.True(t, lmerr.IsNotFound(err))
	assert.True(t, lmerr.HasCode(err, lmerr.CodeSnapshotComponentNotFound))
}

func TestAnonymizeNamedComponentNormalizesName(t *testing.T) {
	nodes := []snapshot.NodeData{
		node(1, "apple", 2),
		node(2, "mac"),
		node(3, "solo"),
	}

	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{
		Component: "g/Apple",
		Rand:      fixedRand(),
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestAnonymizeThresholdIsStrict(t *testing.T) {
	nodes := []snapshot.NodeData{
		node(1, "a", 2),
		node(2, "b"),
	}

	// Component size 2 does not exceed a threshold of 2.
	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{
		MinComponentSize: 2,
		Rand:             fixedRand(),
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAnonymizeCarriesMetadata(t *testing.T) {
	subs := int64(42)
	nodes := []snapshot.NodeData{
		{ID: 1, Name: "a", Sensitive: 1, Subscribers: &subs, LinksTo: []int64{2}},
		{ID: 2, Name: "b", LinksTo: []int64{}},
	}

	out, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{Rand: fixedRand()})
	require.NoError(t, err)
	require.Len(t, out, 2)

	var flagged, plain int
	for _, n := range out {
		if n.Sensitive == 1 {
			flagged++
			require.NotNil(t, n.Subscribers)
			assert.Equal(t, int64(42), *n.Subscribers)
		} else {
			plain++
			assert.Nil(t, n.Subscribers)
		}
	}
	assert.Equal(t, 1, flagged)
	assert.Equal(t, 1, plain)
}
