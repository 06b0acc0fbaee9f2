// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/emer/dacolumn/column"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// seedsSummary aggregates the outcomes of several seeds
type seedsSummary struct {
	Outcomes  []column.Outcome `json:"outcomes"`
	MeanScore float64          `json:"mean_score"`
	StdScore  float64          `json:"std_score"`
	Succeeded int              `json:"succeeded"`
}

func summarize(ocs []column.Outcome) seedsSummary {
	sm := seedsSummary{Outcomes: ocs}
	scores := make([]float64, len(ocs))
	for i, oc := range ocs {
		scores[i] = oc.Score
		if oc.Status == column.Success || oc.Status == column.EarlySuccess {
			sm.Succeeded++
		}
	}
	if len(scores) > 0 {
		sm.MeanScore = stat.Mean(scores, nil)
	}
	if len(scores) > 1 {
		sm.StdScore = stat.StdDev(scores, nil)
	}
	return sm
}

// seedsTable returns the outcomes as a run log, one row per seed
func seedsTable(ocs []column.Outcome) *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "Seeds")
	dt.SetMetaData("desc", "outcome of each training run")
	dt.SetFromSchema(etable.Schema{
		{"Seed", etensor.INT64, nil, nil},
		{"Status", etensor.STRING, nil, nil},
		{"Trial", etensor.INT64, nil, nil},
		{"Score", etensor.FLOAT64, nil, nil},
		{"Expected", etensor.FLOAT64, nil, nil},
		{"Accuracy", etensor.FLOAT64, nil, nil},
	}, len(ocs))
	for i, oc := range ocs {
		dt.SetCellFloat("Seed", i, float64(oc.Seed))
		dt.SetCellString("Status", i, oc.Status.String())
		dt.SetCellFloat("Trial", i, float64(oc.Iter))
		dt.SetCellFloat("Score", i, oc.Score)
		dt.SetCellFloat("Expected", i, float64(oc.Expected))
		dt.SetCellFloat("Accuracy", i, oc.Accuracy)
	}
	return dt
}

func newSeedsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Train columns over consecutive seeds and summarize the scores",
		Long: `Train one column for each of n seeds starting at the configured seed, one
after the other, and print each outcome and the mean score.  Lower scores are
better: 3 for killed runs, 0.5 for success in the initial trials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("n")
			if n < 1 {
				return fmt.Errorf("--n must be >= 1, got %d", n)
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

			var ocs []column.Outcome
			var rerr error
			for i := 0; i < n; i++ {
				res, err := trainSeed(cmd.Context(), cf, cf.Seed+uint64(i), st, tr, lg)
				if res != nil {
					ocs = append(ocs, *res.Outcome)
				}
				if err != nil {
					rerr = err
					break
				}
			}
			sm := summarize(ocs)
			if perr := printJSONOr(cmd, sm, func(w io.Writer) {
				dt := seedsTable(ocs)
				dt.WriteCSVHeaders(w, etable.Tab)
				for row := 0; row < dt.Rows; row++ {
					dt.WriteCSVRow(w, row, etable.Tab)
				}
				fmt.Fprintf(w, "mean score %.4g (std %.3g), %d of %d succeeded\n", sm.MeanScore, sm.StdScore, sm.Succeeded, len(ocs))
			}); perr != nil {
				return perr
			}
			return rerr
		},
	}
	cmd.Flags().Int("n", 5, "number of seeds")
	return cmd
}
