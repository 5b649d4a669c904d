// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package frontier_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/linkmesh-dev/linkmesh/internal/frontier"
	"github.com/linkmesh-dev/linkmesh/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrontier(t *testing.T) (*frontier.Frontier, *sqlite.GraphStore) {
	t.Helper()
	g, err := sqlite.New(filepath.Join(t.TempDir(), "frontier.db"))
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return frontier.New(g), g
}

func TestDrainYieldsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	f, g := newFrontier(t)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, f.EnqueueIfAbsent(ctx, name))
	}

	var got []string
	for name, err := range f.All(ctx) {
		require.NoError(t, err)
		got = append(got, name)
		require.NoError(t, g.MarkVisited(ctx, name))
	}

	assert.Equal(t, []string{"a", "b", "c"}, got)

	count, err := f.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCrashResumeReyieldsUnmarkedItem(t *testing.T) {
	ctx := context.Background()
	f, g := newFrontier(t)

	require.NoError(t, f.EnqueueIfAbsent(ctx, "a"))
	require.NoError(t, f.EnqueueIfAbsent(ctx, "b"))

	// Pull the head without marking it visited, simulating a crash between
	// yield and MarkVisited.
	name, ok, err := f.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", name)

	// A fresh traversal starts from the same item.
	for name, err := range f.All(ctx) {
		require.NoError(t, err)
		assert.Equal(t, "a", name)
		break
	}

	require.NoError(t, g.MarkVisited(ctx, "a"))

	name, ok, err = f.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", name)
}

func TestMidTraversalDiscoveryIsVisible(t *testing.T) {
	ctx := context.Background()
	f, g := newFrontier(t)

	require.NoError(t, f.EnqueueIfAbsent(ctx, "a"))

	var got []string
	for name, err := range f.All(ctx) {
		require.NoError(t, err)
		got = append(got, name)
		if name == "a" {
			// Discovered while processing "a".
			require.NoError(t, f.EnqueueIfAbsent(ctx, "late"))
		}
		require.NoError(t, g.MarkVisited(ctx, name))
	}

	assert.Equal(t, []string{"a", "late"}, got)
}

func TestEnqueueNeverUnvisits(t *testing.T) {
	ctx := context.Background()
	f, g := newFrontier(t)

	require.NoError(t, f.EnqueueIfAbsent(ctx, "a"))
	require.NoError(t, g.MarkVisited(ctx, "a"))
	require.NoError(t, f.EnqueueIfAbsent(ctx, "a"))

	_, ok, err := f.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllStopsOnCancelledContext(t *testing.T) {
	f, _ := newFrontier(t)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.EnqueueIfAbsent(ctx, "a"))
	cancel()

	for _, err := range f.All(ctx) {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestEmptyFrontier(t *testing.T) {
	ctx := context.Background()
	f, _ := newFrontier(t)

	_, ok, err := f.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	count := 0
	for range f.All(ctx) {
		count++
	}
	assert.Zero(t, count)
}
