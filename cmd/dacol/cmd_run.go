// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/emer/dacolumn/column"
	"github.com/emer/dacolumn/config"
	"github.com/emer/dacolumn/logging"
	"github.com/emer/dacolumn/store"
	"github.com/goki/gi/gi"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train one column",
		Long: `Build a column with the configured seed and train it on the configured
samples until it succeeds, is killed or runs out of trials.  The outcome and
every trial are saved in the configured store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			lg := newLogger(cmd, cf)
			st, err := openStore(cmd.Context(), cf)
			if err != nil {
				return err
			}
			defer st.Close()
			tr, err := openTrace(cf)
			if err != nil {
				return err
			}
			defer tr.Close()

			res, err := trainSeed(cmd.Context(), cf, cf.Seed, st, tr, lg)
			if res == nil {
				return err
			}
			if spk, _ := cmd.Flags().GetString("spikes"); spk != "" {
				if serr := res.Col.OutRec.SaveCSV(gi.FileName(spk)); serr != nil {
					return serr
				}
			}
			if tm, _ := cmd.Flags().GetBool("timers"); tm {
				res.Col.Net.TimerReport(cmd.ErrOrStderr())
			}
			if perr := printOutcome(cmd, res.Outcome); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().Uint64("seed", 0, "network seed (overrides config)")
	cmd.Flags().String("spikes", "", "save the output spikes to this CSV file")
	cmd.Flags().Bool("timers", false, "print the time spent in each step of processing")
	return cmd
}

// seedRun is a finished (or interrupted) training run
type seedRun struct {
	Col     *column.Column
	Trainer *column.Trainer
	Outcome *column.Outcome
}

// trainSeed builds and trains a column for seed, saving every trial and the
// outcome in st.  The returned run is nil only if nothing was trained.
func trainSeed(ctx context.Context, cf *config.Config, seed uint64, st store.Store, trace *logging.Trace, lg *slog.Logger) (*seedRun, error) {
	sms, err := cf.Samples()
	if err != nil {
		return nil, err
	}
	an, err := cf.Anatomy()
	if err != nil {
		return nil, err
	}
	col, err := column.Build(&cf.Column, an, len(sms[0].Pattern), seed)
	if err != nil {
		return nil, fmt.Errorf("building column: %w", err)
	}
	lg.Debug("built column", "seed", seed, "populations", col.Populations(), "groups", len(col.Net.Syns))
	tr, err := column.NewTrainer(col, sms, cf.Train, lg)
	if err != nil {
		return nil, err
	}
	tr.Trace = trace
	runID := store.RunID(seed)
	tr.OnTrial = func(res column.TrialResult) error {
		return st.SaveTrial(ctx, runID, res)
	}
	oc, rerr := tr.Run(ctx)
	// save what was reached even if canceled
	if err := st.SaveOutcome(context.WithoutCancel(ctx), runID, *oc); err != nil {
		return nil, fmt.Errorf("saving outcome: %w", err)
	}
	lg.Info("saved run", "run", runID, "status", oc.Status, "score", oc.Score, "elapsed", tr.Elapsed())
	return &seedRun{Col: col, Trainer: tr, Outcome: oc}, rerr
}

func openStore(ctx context.Context, cf *config.Config) (store.Store, error) {
	st, err := store.New(cf.Store.Driver, cf.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

func openTrace(cf *config.Config) (*logging.Trace, error) {
	if cf.Logging.Trace == "" {
		return nil, nil
	}
	return logging.OpenTrace(cf.Logging.Trace)
}

func printOutcome(cmd *cobra.Command, oc *column.Outcome) error {
	return printJSONOr(cmd, oc, func(w io.Writer) {
		fmt.Fprintln(w, oc)
	})
}

// printJSONOr prints v as indented JSON with --json, or calls text otherwise
func printJSONOr(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if js, _ := cmd.Flags().GetBool("json"); js {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
