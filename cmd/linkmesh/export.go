// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linkmesh-dev/linkmesh/internal/snapshot"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a flattened snapshot of the graph",
		Long:  "Flatten the relational store into the portable node-list interchange format, ordered ascending by id so repeated exports of an unchanged store are byte-identical.",
		RunE:  runExport,
	}

	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	g, _, err := openGraph()
	if err != nil {
		return err
	}
	defer g.Close() //nolint:errcheck

	nodes, err := snapshot.Export(cmd.Context(), g)
	if err != nil {
		return err
	}

	return writeJSON(cmd, nodes)
}

// writeJSON marshals v indented to --out, or stdout when unset.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return nil
}
