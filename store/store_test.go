// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/emer/dacolumn/column"
)

func testStores(t *testing.T) map[string]Store {
	sq, err := New("sqlite", filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	mem, err := New("memory", "")
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{"memory": mem, "sqlite": sq}
}

func TestNew(t *testing.T) {
	if _, err := New("postgres", ""); err == nil {
		t.Errorf("unknown backend: no error")
	}
	if _, err := New("sqlite", ""); err == nil {
		t.Errorf("sqlite without path: no error")
	}
	if RunID(42) != "seed-000042" {
		t.Errorf("RunID = %s", RunID(42))
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.SaveOutcome(ctx, "r", column.Outcome{}); !errors.Is(err, ErrNotInit) {
				t.Errorf("save before Init: %v", err)
			}
			if err := st.Init(ctx); err != nil {
				t.Fatal(err)
			}
			defer st.Close()

			oc := column.Outcome{Seed: 3, Status: column.Success, Score: 0.25, Iter: 32, Total: 128,
				Expected: 0.93, Spikes: 40, Accuracy: 0.75, Secs: 1.5}
			if err := st.SaveOutcome(ctx, RunID(3), oc); err != nil {
				t.Fatal(err)
			}
			oc1 := oc
			oc1.Seed = 1
			oc1.Status = column.Killed
			oc1.Score = 3
			if err := st.SaveOutcome(ctx, RunID(1), oc1); err != nil {
				t.Fatal(err)
			}
			got, ok, err := st.GetOutcome(ctx, RunID(3))
			if err != nil || !ok {
				t.Fatalf("GetOutcome: %v %v", ok, err)
			}
			if !reflect.DeepEqual(got, oc) {
				t.Errorf("outcome = %+v, want %+v", got, oc)
			}
			if _, ok, err := st.GetOutcome(ctx, "nope"); ok || err != nil {
				t.Errorf("missing outcome: %v %v", ok, err)
			}

			// overwrite
			oc.Score = 0.3
			if err := st.SaveOutcome(ctx, RunID(3), oc); err != nil {
				t.Fatal(err)
			}
			recs, err := st.ListOutcomes(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(recs) != 2 || recs[0].RunID != RunID(1) || recs[1].Outcome.Score != 0.3 || recs[0].Outcome.Status != column.Killed {
				t.Errorf("ListOutcomes = %+v", recs)
			}

			for _, i := range []int{2, 0, 1, 1} {
				res := column.TrialResult{Index: i, Label: i % 2, Pattern: "0110:0", Start: float64(i) * 100,
					OutSpikes: []int{i, 1}, TotSpikes: 2 * i, Expected: float32(i) / 10, Correct: i == 0}
				if err := st.SaveTrial(ctx, "r", res); err != nil {
					t.Fatal(err)
				}
			}
			trs, err := st.GetTrials(ctx, "r")
			if err != nil {
				t.Fatal(err)
			}
			if len(trs) != 3 {
				t.Fatalf("got %d trials, want 3", len(trs))
			}
			for i, res := range trs {
				if res.Index != i || res.OutSpikes[0] != i || res.Expected != float32(i)/10 {
					t.Errorf("trial %d = %+v", i, res)
				}
			}
			if trs, err := st.GetTrials(ctx, "other"); err != nil || len(trs) != 0 {
				t.Errorf("trials of unknown run: %v %v", trs, err)
			}
		})
	}
}

func TestConcurrentSave(t *testing.T) {
	ctx := context.Background()
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Init(ctx); err != nil {
				t.Fatal(err)
			}
			defer st.Close()
			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < 10; i++ {
						if err := st.SaveTrial(ctx, RunID(uint64(w)), column.TrialResult{Index: i}); err != nil {
							errs <- err
							return
						}
					}
				}(w)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
			for w := 0; w < 8; w++ {
				trs, err := st.GetTrials(ctx, RunID(uint64(w)))
				if err != nil || len(trs) != 10 {
					t.Errorf("run %d: %d trials, %v", w, len(trs), err)
				}
			}
		})
	}
}
