// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkmesh-dev/linkmesh/internal/snapshot"
)

func newAnonymizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anonymize",
		Short: "Produce a redacted, shareable snapshot",
		Long:  "Drop nodes outside the retained communities, relabel the survivors through a uniform random bijection onto a dense id range, and strip original names. Structure is preserved exactly; only labels change.",
		RunE:  runAnonymize,
	}

	cmd.Flags().Int("min-size", 0, "retain communities larger than this (default from config)")
	cmd.Flags().String("component", "", "retain only the community containing this node")
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	_ = viper.BindPFlag("anonymize.min_component_size", cmd.Flags().Lookup("min-size"))

	return cmd
}

func runAnonymize(cmd *cobra.Command, _ []string) error {
	component, _ := cmd.Flags().GetString("component")

	g, cfg, err := openGraph()
	if err != nil {
		return err
	}
	defer g.Close() //nolint:errcheck

	nodes, err := snapshot.Export(cmd.Context(), g)
	if err != nil {
		return err
	}

	redacted, err := snapshot.Anonymize(nodes, snapshot.AnonymizeOptions{
		MinComponentSize: cfg.Anonymize.MinComponentSize,
		Component:        component,
	})
	if err != nil {
		return err
	}

	return writeJSON(cmd, redacted)
}
