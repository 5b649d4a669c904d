// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"fmt"

	"github.com/linkmesh-dev/linkmesh/internal/config"
	"github.com/linkmesh-dev/linkmesh/internal/store/sqlite"
)

// openGraph loads the effective configuration and opens the graph store it
// points at. The caller owns Close.
func openGraph() (*sqlite.GraphStore, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	g, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening graph store at %s: %w", cfg.Storage.Path, err)
	}
	return g, cfg, nil
}
