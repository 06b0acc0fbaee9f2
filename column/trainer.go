// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emer/dacolumn/logging"
	"github.com/emer/dacolumn/spike"
	"github.com/emer/dacolumn/stim"
	"github.com/emer/emergent/timer"
)

// TrainParams control the trial stream and the stopping rules of a Trainer
type TrainParams struct {
	Epochs           int          `yaml:"epochs" def:"8" min:"1" desc:"number of passes through the samples"`
	InitialIters     int          `yaml:"initial_iters" def:"16" min:"0" desc:"number of trials before the first stopping check"`
	SuccessThreshold float32      `yaml:"success_threshold" def:"0.925" desc:"normalized expected reward above which training has succeeded"`
	KillThreshold    float32      `yaml:"kill_threshold" def:"-0.8" desc:"normalized expected reward below which training has failed"`
	Enc              stim.Encoder `yaml:"encoder" view:"inline" desc:"presentation of each sample"`
}

func (tp *TrainParams) Defaults() {
	tp.Epochs = 8
	tp.InitialIters = 16
	tp.SuccessThreshold = 0.925
	tp.KillThreshold = -0.8
	tp.Enc.Defaults()
}

// Validate returns an error wrapping spike.ErrConfig for unusable params
func (tp *TrainParams) Validate() error {
	if tp.Epochs < 1 || tp.InitialIters < 0 {
		return fmt.Errorf("%w: Epochs %d must be >= 1 and InitialIters %d >= 0", spike.ErrConfig, tp.Epochs, tp.InitialIters)
	}
	if err := tp.Enc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", spike.ErrConfig, err)
	}
	return nil
}

// TrialResult is the record of one presented trial
type TrialResult struct {
	Index     int     `json:"index" desc:"position in the trial stream"`
	Label     int     `json:"label" desc:"label of the presented sample"`
	Pattern   string  `json:"pattern" desc:"presented sample, as 0/1 characters and label"`
	Start     float64 `json:"start" desc:"network time at the start of the trial (ms)"`
	OutSpikes []int   `json:"out_spikes" desc:"spikes of each output neuron during the trial"`
	TotSpikes int     `json:"tot_spikes" desc:"output spikes since the start of the run"`
	Expected  float32 `json:"expected" desc:"normalized expected reward after the trial"`
	Correct   bool    `json:"correct" desc:"true if the output neuron of the label fired strictly more than any other"`
}

// Outcome summarizes a training run.  Score is lower for better runs:
// 3 when killed or canceled, 0.5 for success by the end of the initial trials, the
// fraction of trials used for later success, and 2 - expected reward when
// the trials run out.
type Outcome struct {
	Seed     uint64   `json:"seed"`
	Status   Statuses `json:"status"`
	Score    float64  `json:"score"`
	Iter     int      `json:"iter" desc:"index of the trial at which the run stopped"`
	Total    int      `json:"total" desc:"number of trials in the stream"`
	Expected float32  `json:"expected" desc:"final normalized expected reward"`
	Spikes   int      `json:"spikes" desc:"total output spikes"`
	Accuracy float64  `json:"accuracy" desc:"fraction of trials with a correct output"`
	Secs     float64  `json:"secs" desc:"wall-clock duration of the run"`
}

// String satisfies fmt.Stringer
func (oc *Outcome) String() string {
	return fmt.Sprintf("seed %d: %s at trial %d/%d score %.4g expected %.4g spikes %d accuracy %.3g",
		oc.Seed, oc.Status, oc.Iter, oc.Total, oc.Score, oc.Expected, oc.Spikes, oc.Accuracy)
}

// Trainer presents a stream of labeled samples to a column, trial by trial,
// setting the reward for each label and stopping early by the expected reward
type Trainer struct {
	Col     *Column                 `desc:"trained column"`
	Params  TrainParams             `desc:"stream and stopping rules"`
	Trials  []stim.Trial            `desc:"trial stream"`
	Results []TrialResult           `desc:"results of the trials presented so far"`
	Log     *slog.Logger            `view:"-" desc:"run log"`
	Trace   *logging.Trace          `view:"-" desc:"optional JSONL trace of trials"`
	OnTrial func(TrialResult) error `view:"-" desc:"optional callback after each trial -- an error stops the run"`
	Timer   timer.Time              `view:"-" desc:"wall-clock time of Run"`
}

// NewTrainer returns a trainer for col over the given samples.  Labels must
// be 0 or 1, and patterns must match the column input dimension.
func NewTrainer(col *Column, samples []stim.Sample, tp TrainParams, lg *slog.Logger) (*Trainer, error) {
	if err := tp.Validate(); err != nil {
		return nil, err
	}
	dim, err := stim.Dim(samples)
	if err != nil {
		return nil, err
	}
	if dim != col.Input.N {
		return nil, fmt.Errorf("%w: pattern dimension %d != input size %d", spike.ErrConfig, dim, col.Input.N)
	}
	if col.Mod.NChannels() != 2 {
		return nil, fmt.Errorf("%w: training needs 2 output neurons, have %d", spike.ErrConfig, col.Mod.NChannels())
	}
	for i, sm := range samples {
		if sm.Label != 0 && sm.Label != 1 {
			return nil, fmt.Errorf("%w: sample %d label %d is not 0 or 1", stim.ErrPattern, i, sm.Label)
		}
	}
	trls, err := tp.Enc.Stream(samples, tp.Epochs)
	if err != nil {
		return nil, err
	}
	if lg == nil {
		lg = logging.Discard()
	}
	tr := &Trainer{Col: col, Params: tp, Trials: trls, Log: lg}
	return tr, nil
}

// Reward returns the reward of every channel for a trial of the given label
func (tr *Trainer) Reward(label int) float32 {
	eps := tr.Col.Mod.Params.Epsilon
	if label == 0 {
		return eps
	}
	return -eps
}

// RunTrial presents one trial: sets the reward, injects the stimulus
// starting at the next tick, runs for the trial duration and merges the
// expected rewards.
func (tr *Trainer) RunTrial(tl *stim.Trial) (TrialResult, error) {
	col := tr.Col
	nt := col.Net
	res := TrialResult{Index: tl.Index, Label: tl.Label, Pattern: tl.Sample.String()}
	nt.Time.TrialInc()
	col.Mod.SetRewardAll(tr.Reward(tl.Label))
	origin := nt.Time.T() + nt.Time.Dt
	res.Start = origin
	for _, inj := range tl.Spikes {
		if err := nt.Inject(col.Input, inj.Idx, origin+inj.Time); err != nil {
			return res, fmt.Errorf("trial %d: %w", tl.Index, err)
		}
	}
	n0 := col.OutRec.N()
	if err := nt.Run(tr.Params.Enc.Duration); err != nil {
		return res, fmt.Errorf("trial %d: %w", tl.Index, err)
	}
	res.OutSpikes = make([]int, col.Output.N)
	for _, ni := range col.OutRec.Idxs[n0:] {
		res.OutSpikes[ni]++
	}
	res.TotSpikes = col.OutRec.N()
	col.Mod.UpdateExpectedReward()
	res.Expected = col.Mod.Normalized()
	res.Correct = true
	for i, n := range res.OutSpikes {
		if i != tl.Label && n >= res.OutSpikes[tl.Label] {
			res.Correct = false
		}
	}
	return res, nil
}

// Run presents the trial stream, checking the stopping rules at trial
// boundaries: after InitialIters trials the run is killed if the output
// fired outside [n/2, 1.25 n] times, or succeeds early if the expected
// reward exceeds SuccessThreshold.  After that each trial can end the run
// by success, or by failure when the expected reward drops below
// KillThreshold or the output has fired fewer than i/2 times.  A done ctx
// ends the run at the next trial boundary with Status Canceled and the
// context error.
func (tr *Trainer) Run(ctx context.Context) (*Outcome, error) {
	tp := &tr.Params
	total := len(tr.Trials)
	oc := &Outcome{Seed: tr.Col.Net.Seed, Total: total, Status: Running}
	tr.Timer.Start()
	defer func() {
		tr.Timer.Stop()
		oc.Secs = tr.Timer.TotalSecs()
	}()
	tr.Log.Info("training", "seed", oc.Seed, "trials", total, "neurons", tr.neurons())

	nInit := min(tp.InitialIters, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			tr.Log.Warn("training canceled", "seed", oc.Seed, "trial", i, "err", err)
			if ferr := tr.finish(oc, Canceled, i, 3); ferr != nil {
				return oc, errors.Join(err, ferr)
			}
			return oc, err
		}
		res, err := tr.RunTrial(&tr.Trials[i])
		if err != nil {
			return oc, err
		}
		if err := tr.record(res); err != nil {
			return oc, err
		}
		exp := res.Expected
		nspk := float64(res.TotSpikes)
		switch {
		case i+1 < nInit:
			continue
		case i+1 == nInit:
			if nspk > float64(nInit)*1.25 || nspk < float64(nInit)/2 {
				tr.Log.Info("killed at initial spike count", "seed", oc.Seed, "spikes", res.TotSpikes)
				return oc, tr.finish(oc, Killed, i, 3)
			}
			if exp > tp.SuccessThreshold {
				tr.Log.Info("trained by end of initial trials", "seed", oc.Seed, "expected", exp)
				return oc, tr.finish(oc, EarlySuccess, i, 0.5)
			}
		default:
			if exp > tp.SuccessThreshold {
				tr.Log.Info("trained", "seed", oc.Seed, "trial", i, "expected", exp)
				return oc, tr.finish(oc, Success, i, float64(i)/float64(total))
			}
			if exp < tp.KillThreshold || nspk < float64(i)/2 {
				tr.Log.Info("killed", "seed", oc.Seed, "trial", i, "expected", exp, "spikes", res.TotSpikes)
				return oc, tr.finish(oc, Killed, i, 3)
			}
		}
	}
	exp := tr.Col.Mod.Normalized()
	tr.Log.Info("trials exhausted", "seed", oc.Seed, "expected", exp)
	return oc, tr.finish(oc, Exhausted, total-1, 2-float64(exp))
}

// record appends res to Results and passes it to the trace and OnTrial
func (tr *Trainer) record(res TrialResult) error {
	tr.Results = append(tr.Results, res)
	tr.Log.Log(context.Background(), logging.LevelTrace, "trial", "index", res.Index, "label", res.Label,
		"out", res.OutSpikes, "expected", res.Expected, "da", tr.Col.Mod.MaxDA())
	if err := tr.Trace.Log("trial", res); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	if tr.OnTrial != nil {
		return tr.OnTrial(res)
	}
	return nil
}

// finish fills in the outcome of a run stopped at trial iter and writes it
// to the trace
func (tr *Trainer) finish(oc *Outcome, st Statuses, iter int, score float64) error {
	oc.Status = st
	oc.Iter = iter
	oc.Score = score
	oc.Expected = tr.Col.Mod.Normalized()
	oc.Spikes = tr.Col.OutRec.N()
	oc.Accuracy = tr.Accuracy()
	if err := tr.Trace.Log("outcome", oc); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

// Accuracy returns the fraction of presented trials with a correct output
func (tr *Trainer) Accuracy() float64 {
	if len(tr.Results) == 0 {
		return 0
	}
	n := 0
	for _, res := range tr.Results {
		if res.Correct {
			n++
		}
	}
	return float64(n) / float64(len(tr.Results))
}

func (tr *Trainer) neurons() int {
	n := 0
	for _, pop := range tr.Col.Net.Pops {
		n += pop.N
	}
	return n
}

// Elapsed returns the wall-clock duration of the last Run
func (tr *Trainer) Elapsed() time.Duration {
	return time.Duration(tr.Timer.TotalSecs() * float64(time.Second))
}
