// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dacol trains a reward-modulated spiking model of cortical layer 2/3 to
// classify binary patterns.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/emer/dacolumn/config"
	"github.com/emer/dacolumn/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dacol",
		Short: "Dopamine-modulated cortical column trainer",
		Long: `dacol builds a spiking network of cortical layer 2/3 with a plastic input
pathway and two readout neurons, and trains it with dopamine-gated spike-timing
plasticity to separate two classes of binary patterns.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML experiment configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: info, debug or trace (overrides config)")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSeedsCmd(),
		newSizeCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dacol version %s\n", version)
		},
	}
}

// loadConfig loads the --config file, applying --log-level and --seed
// when given
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cf, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cf.Logging.Level = lvl
	}
	if cmd.Flags().Lookup("seed") != nil && cmd.Flags().Changed("seed") {
		cf.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if err := cf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cf, nil
}

func newLogger(cmd *cobra.Command, cf *config.Config) *slog.Logger {
	return logging.NewLogger(cf.Logging.Level, cmd.ErrOrStderr())
}
