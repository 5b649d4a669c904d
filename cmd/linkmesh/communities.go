// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linkmesh-dev/linkmesh/internal/snapshot"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

func newCommunitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "communities",
		Short: "Partition the graph into connected communities",
		Long:  "Treat cross-links as symmetric, group nodes into connected components, and pick each group's hub: the member with the highest total directed degree.",
		RunE:  runCommunities,
	}

	cmd.Flags().Int("min-size", 0, "only show communities larger than this")
	cmd.Flags().String("format", "text", "output format: text, json, or yaml")

	return cmd
}

func runCommunities(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	minSize, _ := cmd.Flags().GetInt("min-size")

	g, _, err := openGraph()
	if err != nil {
		return err
	}
	defer g.Close() //nolint:errcheck

	nodes, err := snapshot.Export(cmd.Context(), g)
	if err != nil {
		return err
	}

	comms := snapshot.Detect(nodes)
	if minSize > 0 {
		filtered := comms[:0]
		for _, c := range comms {
			if c.Size > minSize {
				filtered = append(filtered, c)
			}
		}
		comms = filtered
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(comms, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err
	case "yaml":
		return yaml.NewEncoder(out).Encode(comms)
	case "text":
		for i, c := range comms {
			fmt.Fprintf(out, "#%d  hub=%s  size=%d\n", i+1, c.Hub, c.Size)
			fmt.Fprintf(out, "    %s\n", strings.Join(c.Members, ", "))
		}
		fmt.Fprintf(out, "%d communities\n", len(comms))
		return nil
	default:
		return lmerr.Errorf(lmerr.CodeCLIInputInvalid, "unknown format %q (want text, json, or yaml)", format)
	}
}
