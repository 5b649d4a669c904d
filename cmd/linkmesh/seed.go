// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkmesh-dev/linkmesh/internal/crawler"
	"github.com/linkmesh-dev/linkmesh/internal/frontier"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [names...]",
		Short: "Enqueue community names into the crawl frontier",
		Long:  "Add node names to the frontier directly, or import an owner's curated collections from a scraper feed with --collections.",
		RunE:  runSeed,
	}

	cmd.Flags().String("collections", "", "import curated collections owned by this user")
	cmd.Flags().String("feed", "", "scraper feed file (required with --collections)")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("collections")
	feedPath, _ := cmd.Flags().GetString("feed")

	if len(args) == 0 && owner == "" {
		return lmerr.New(lmerr.CodeCLIInputInvalid, "nothing to seed: pass names or --collections")
	}

	g, cfg, err := openGraph()
	if err != nil {
		return err
	}
	defer g.Close() //nolint:errcheck

	ctx := cmd.Context()
	f := frontier.New(g)

	for _, name := range args {
		if err := f.EnqueueIfAbsent(ctx, name); err != nil {
			return err
		}
	}

	imported := 0
	if owner != "" {
		if feedPath == "" {
			return lmerr.New(lmerr.CodeCLIInputInvalid, "--collections requires --feed")
		}
		feed, err := crawler.LoadFeed(feedPath)
		if err != nil {
			return err
		}
		runner := crawler.NewRunner(g, feed, crawler.Options{Delay: cfg.Crawl.Delay})
		imported, err = runner.ImportMemberships(ctx, owner)
		if err != nil {
			return err
		}
	}

	remaining, err := f.Count(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d names (%d from collections); frontier now holds %d unvisited nodes\n",
		len(args)+imported, imported, remaining)
	return err
}
