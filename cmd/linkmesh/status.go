// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show graph store counts",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	g, cfg, err := openGraph()
	if err != nil {
		return err
	}
	defer g.Close() //nolint:errcheck

	stats, err := g.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:   %s\n", cfg.Storage.Path)
	fmt.Fprintf(out, "Nodes:      %d\n", stats.Nodes)
	fmt.Fprintf(out, "Edges:      %d\n", stats.Edges)
	fmt.Fprintf(out, "Visited:    %d\n", stats.Visited)
	fmt.Fprintf(out, "Unvisited:  %d\n", stats.Unvisited)
	fmt.Fprintf(out, "Incomplete: %d\n", stats.Incomplete)
	return nil
}
