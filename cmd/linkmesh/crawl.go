// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkmesh-dev/linkmesh/internal/crawler"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Drain the crawl frontier",
		Long:  "Process unvisited nodes one at a time: extract links and metadata from the scraper feed, record edges, and mark each node visited. Interrupted runs resume where they stopped.",
		RunE:  runCrawl,
	}

	cmd.Flags().String("feed", "", "scraper feed file (required)")
	cmd.Flags().Int("max", 0, "stop after this many items (0 = no cap)")
	cmd.Flags().Duration("delay", 0, "politeness delay between items")
	_ = viper.BindPFlag("crawl.max_items", cmd.Flags().Lookup("max"))
	_ = viper.BindPFlag("crawl.delay", cmd.Flags().Lookup("delay"))

	return cmd
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	feedPath, _ := cmd.Flags().GetString("feed")
	if feedPath == "" {
		return lmerr.New(lmerr.CodeCLIInputInvalid, "crawl requires --feed")
	}

	g, cfg, err := openGraph()
	if err != nil {
		return err
	}
	defer g.Close() //nolint:errcheck

	feed, err := crawler.LoadFeed(feedPath)
	if err != nil {
		return err
	}

	runner := crawler.NewRunner(g, feed, crawler.Options{
		Delay:    cfg.Crawl.Delay,
		MaxItems: cfg.Crawl.MaxItems,
	})

	report, err := runner.Run(cmd.Context())
	// The run always reports processed versus remaining, even on failure.
	fmt.Fprintf(cmd.OutOrStdout(), "Run %s: processed %d (failed %d), %d remaining, took %s\n",
		report.RunID, report.Processed, report.Failed, report.Remaining, report.Duration.Round(time.Millisecond))
	return err
}
