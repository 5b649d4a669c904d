// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/linkmesh-dev/linkmesh/internal/config"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "linkmesh.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Crawl.Delay)
	assert.Zero(t, cfg.Crawl.MaxItems)
	assert.Equal(t, "127.0.0.1:18690", cfg.Server.Listen)
	assert.Equal(t, 2, cfg.Anonymize.MinComponentSize)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkmesh.yaml")
	content := `
storage:
  path: /tmp/graph.db
crawl:
  delay: 500ms
  max_items: 25
server:
  listen: 0.0.0.0:9000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/graph.db", cfg.Storage.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawl.Delay)
	assert.Equal(t, 25, cfg.Crawl.MaxItems)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, lmerr.HasCode(err, lmerr.CodeConfigLoadReadFailure))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &config.Config{}
	cfg.Crawl.Delay = -time.Second
	cfg.Crawl.MaxItems = -1
	cfg.Anonymize.MinComponentSize = -5

	errs := cfg.Validate()
	assert.Len(t, errs, 5) // empty path, negative delay, negative cap, empty listen, negative threshold
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}
