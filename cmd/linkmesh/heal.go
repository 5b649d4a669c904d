// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkmesh-dev/linkmesh/internal/crawler"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

func newHealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heal",
		Short: "Retry metadata for incomplete nodes",
		Long:  "Re-fetch subscriber counts and sensitivity flags for nodes whose metadata is still unset, regardless of visited status. Edges and visited flags are never touched.",
		RunE:  runHeal,
	}

	cmd.Flags().String("feed", "", "scraper feed file (required)")

	return cmd
}

func runHeal(cmd *cobra.Command, _ []string) error {
	feedPath, _ := cmd.Flags().GetString("feed")
	if feedPath == "" {
		return lmerr.New(lmerr.CodeCLIInputInvalid, "heal requires --feed")
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

	runner := crawler.NewRunner(g, feed, crawler.Options{Delay: cfg.Crawl.Delay})
	healed, err := runner.Heal(cmd.Context())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Healed %d nodes\n", healed)
	return err
}
