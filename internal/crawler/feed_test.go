// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package crawler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/linkmesh-dev/linkmesh/internal/crawler"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFeedAndExtract(t *testing.T) {
	path := writeFeed(t, `{
		"nodes": {
			"apple": {"links": ["mac", "pear"], "meta": {"subscribers": 100, "sensitive": true}},
			"mac": {"links": []}
		}
	}`)

	feed, err := crawler.LoadFeed(path)
	require.NoError(t, err)

	ctx := context.Background()

	// Lookup normalizes the queried name.
	res, err := feed.Extract(ctx, "g/Apple")
	require.NoError(t, err)
	assert.Equal(t, []string{"mac", "pear"}, res.Links)
	require.NotNil(t, res.Meta)
	assert.Equal(t, int64(100), res.Meta.Subscribers)
	assert.True(t, res.Meta.Sensitive)

	// A node without meta extracts with nil metadata.
	res, err = feed.Extract(ctx, "mac")
	require.NoError(t, err)
	assert.Nil(t, res.Meta)

	// Unknown nodes behave like an empty upstream page.
	res, err = feed.Extract(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, res.Links)
	assert.Nil(t, res.Meta)
}

func TestLoadFeedCollections(t *testing.T) {
	path := writeFeed(t, `{
		"collections": {
			"alice": [{"group": "favorites", "members": ["apple", "mac"]}]
		}
	}`)

	feed, err := crawler.LoadFeed(path)
	require.NoError(t, err)

	cols, err := feed.ListCollections(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "favorites", cols[0].Group)
	assert.Equal(t, []string{"apple", "mac"}, cols[0].Members)

	_, err = feed.ListCollections(context.Background(), "bob")
	require.Error(t, err)
	assert.True(t, lmerr.HasCode(err, lmerr.CodeCrawlExtractFailure))
}

func TestLoadFeedErrors(t *testing.T) {
	_, err := crawler.LoadFeed(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	_, err = crawler.LoadFeed(writeFeed(t, "{not json"))
	assert.Error(t, err)
}
