// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkmesh-dev/linkmesh/internal/config"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

// NewRootCmd creates the root linkmesh command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkmesh",
		Short:         "linkmesh — community cross-link graph crawler",
		Long:          "Linkmesh incrementally discovers a directed graph of cross-references between communities, partitions it into connected groups, and produces redacted shareable exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags — these map to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("db", "", "path to the graph database")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newSeedCmd(),
		newCrawlCmd(),
		newHealCmd(),
		newStatusCmd(),
		newExportCmd(),
		newCommunitiesCmd(),
		newAnonymizeCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return lmerr.Errorf(lmerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// Auto-discover linkmesh.yaml from standard locations. No config
		// file is fine — defaults and env vars still apply; parse or
		// permission errors must surface.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./linkmesh binary in the project root.
		v.SetConfigName("linkmesh")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/linkmesh")
		v.AddConfigPath("/etc/linkmesh")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return lmerr.Errorf(lmerr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
		}
	}

	if err := v.BindPFlag("storage.path", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
		return lmerr.Errorf(lmerr.CodeCLISetupFailure, "binding db flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return lmerr.Errorf(lmerr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	level := slog.LevelInfo
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return nil
}

// loadConfig resolves the effective configuration from the global viper.
func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}
