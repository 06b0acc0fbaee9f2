// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/emer/dacolumn/conn"
	"github.com/emer/dacolumn/logging"
	"github.com/emer/dacolumn/spike"
	"github.com/emer/dacolumn/stim"
	"github.com/goki/mat32"
)

const difTol = float32(1.0e-6)

// testColumn builds a small layer 2/3 column with an 8-bit input
func testColumn(t *testing.T, seed uint64, mod func(cfg *Config)) *Column {
	t.Helper()
	var cfg Config
	cfg.Defaults()
	cfg.NScale = 0.05
	if mod != nil {
		mod(&cfg)
	}
	an, err := Layer23(FullColumn(), cfg.NScale)
	if err != nil {
		t.Fatal(err)
	}
	col, err := Build(&cfg, an, 8, seed)
	if err != nil {
		t.Fatal(err)
	}
	return col
}

func TestHyper(t *testing.T) {
	var hp Hyper
	hp.Defaults()
	if err := hp.Validate(); err != nil {
		t.Fatal(err)
	}
	if d := mat32.Abs(hp.DAPost() + 1.05*hp.DAPre()); d > difTol {
		t.Errorf("DAPost = %v, want -1.05 * %v", hp.DAPost(), hp.DAPre())
	}
	var ls spike.DASTDP
	ls.Defaults()
	hp.SetSTDP(&ls)
	if ls.CMax != hp.GMaxCoef*hp.InOutMaxStrength || ls.Hom.Max != hp.InOutMaxStrength {
		t.Errorf("SetSTDP bounds: CMax %v Hom.Max %v", ls.CMax, ls.Hom.Max)
	}
	if d := mat32.Abs(ls.Hom.Sub - hp.HomAdd()*hp.HomSubtractCoef); d > difTol {
		t.Errorf("Hom.Sub = %v, want %v", ls.Hom.Sub, hp.HomAdd()*hp.HomSubtractCoef)
	}
	hp.HomAddCoef = 0
	if err := hp.Validate(); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("zero HomAddCoef: %v", err)
	}
	hp.Defaults()
	hp.EpsilonDopa = mat32.NaN()
	if err := hp.Validate(); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("NaN epsilon: %v", err)
	}
}

func TestBuild(t *testing.T) {
	col := testColumn(t, 1, nil)
	nt := col.Net
	want := []string{"Input", "L23E", "L23PV", "L23SST", "L23VIP", "Output"}
	if got := col.Populations(); !reflect.DeepEqual(got, want) {
		t.Errorf("populations = %v, want %v", got, want)
	}
	if len(nt.Syns) != 16+3 {
		t.Errorf("got %d synapse groups, want 19", len(nt.Syns))
	}
	if nt.ModPop != col.Output || nt.Mod == nil || col.Mod.NChannels() != 2 {
		t.Errorf("modulator not wired to the output")
	}
	if col.Exc.Nm != "L23E" || col.Exc.N != 61 {
		t.Errorf("excitatory population = %v", col.Exc)
	}

	an := col.Anat
	for ti, tgt := range col.Layer {
		for si, src := range col.Layer {
			sg := nt.SynByName(src.Nm + "To" + tgt.Nm)
			if sg == nil {
				t.Fatalf("no group %sTo%s", src.Nm, tgt.Nm)
			}
			w := conn.Weight(an.GlobalG, an.Strength[ti][si], src.N, an.ConnProb[ti][si], 1)
			if an.IsExc(si) {
				if sg.Rec != spike.AMPA || sg.Learn != spike.NoLearn {
					t.Errorf("%s: %v %v, want static AMPA", sg.Nm, sg.Rec, sg.Learn)
				}
			} else {
				if sg.Rec != spike.GABA || sg.Learn != spike.InhibLearn {
					t.Errorf("%s: %v %v, want GABA with inhibitory homeostasis", sg.Nm, sg.Rec, sg.Learn)
				}
				if d := mat32.Abs(sg.WtBound.Max - 5*w); d > difTol*w {
					t.Errorf("%s: weight bound %v, want %v", sg.Nm, sg.WtBound.Max, 5*w)
				}
			}
			if sg.Delay != 2 {
				t.Errorf("%s: delay %v, want 2", sg.Nm, sg.Delay)
			}
			if src == tgt {
				for ri := 0; ri < tgt.N; ri++ {
					st := sg.RConIdxSt[ri]
					for ci := st; ci < st+sg.RConN[ri]; ci++ {
						if int(sg.RConIdx[ci]) == ri {
							t.Errorf("%s: autapse on neuron %d", sg.Nm, ri)
						}
					}
				}
			}
			for i := range sg.Syns {
				if sg.Syns[i].Wt != w {
					t.Errorf("%s: synapse %d weight %v, want %v", sg.Nm, i, sg.Syns[i].Wt, w)
					break
				}
			}
		}
	}

	hp := &col.Cfg.Hyper
	for _, sg := range []*spike.SynGroup{col.InToExc, col.ExcToOut} {
		if sg.Learn != spike.DASTDPLearn || sg.Delay != 1 {
			t.Errorf("%s: learn %v delay %v", sg.Nm, sg.Learn, sg.Delay)
		}
		if sg.NSyns == 0 {
			t.Errorf("%s: no synapses", sg.Nm)
		}
		for i := range sg.Syns {
			if wt := sg.Syns[i].Wt; wt < 0 || wt > hp.InOutMaxStrength {
				t.Errorf("%s: weight %v out of bounds", sg.Nm, wt)
			}
		}
	}
	if col.InToExc.DA != spike.DAMean || col.ExcToOut.DA != spike.DAPerTarget {
		t.Errorf("dopamine modes: %v %v", col.InToExc.DA, col.ExcToOut.DA)
	}
	if col.InToExc.GScale != 50 || col.ExcToOut.Exp.Tau != 5 {
		t.Errorf("input gain %v output tau %v", col.InToExc.GScale, col.ExcToOut.Exp.Tau)
	}
	oo := col.OutToOut
	if oo.NSyns != 2 || oo.Rec != spike.GABA {
		t.Errorf("lateral inhibition: %d synapses, %v", oo.NSyns, oo.Rec)
	}
	for i := range oo.Syns {
		if oo.Syns[i].Wt != hp.PostPredictionInhib {
			t.Errorf("lateral weight %v", oo.Syns[i].Wt)
		}
	}
	if col.Output.Act.Thr != -54 || col.Output.Act.Reset != -74 || col.Output.ALIF.TauAdapt != 50 {
		t.Errorf("output neuron params %+v %+v", col.Output.Act, col.Output.ALIF)
	}
	if col.Exc.Act.BgRate != 930 || col.Exc.Act.Thr != an.Thr[0] {
		t.Errorf("excitatory neuron params %+v", col.Exc.Act)
	}
}

func TestBuildErrors(t *testing.T) {
	an, err := Layer23(FullColumn(), 0.05)
	if err != nil {
		t.Fatal(err)
	}
	var cfg Config
	cfg.Defaults()
	if _, err := Build(&cfg, an, 0, 1); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("zero input dimension: %v", err)
	}
	cfg.NOut = 0
	if _, err := Build(&cfg, an, 8, 1); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("zero outputs: %v", err)
	}
	cfg.Defaults()
	cfg.ParamSet = "NoSuchSet"
	if _, err := Build(&cfg, an, 8, 1); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("unknown param set: %v", err)
	}
	cfg.Defaults()
	inh, err := an.Slice(1, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(&cfg, inh, 8, 1); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("no excitatory population: %v", err)
	}
	bad, err := an.Slice(0, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	bad.Strength[1][0] = mat32.NaN()
	if _, err := Build(&cfg, bad, 8, 1); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("NaN strength: %v", err)
	}
}

func TestParamSets(t *testing.T) {
	col := testColumn(t, 1, func(cfg *Config) { cfg.ParamSet = "NoBg" })
	for _, pop := range col.Layer {
		if pop.Act.BgRate != 0 {
			t.Errorf("%s: BgRate %v with NoBg", pop.Nm, pop.Act.BgRate)
		}
	}
	col = testColumn(t, 1, func(cfg *Config) { cfg.ParamSet = "NoHom" })
	if col.InToExc.STDP.Hom.On || col.ExcToOut.STDP.Hom.On {
		t.Errorf("homeostasis still on with NoHom")
	}
	if col.Exc.Act.BgRate != 930 {
		t.Errorf("NoHom changed background: %v", col.Exc.Act.BgRate)
	}
}

func trainParams() TrainParams {
	var tp TrainParams
	tp.Defaults()
	tp.Epochs = 1
	return tp
}

func TestTrainerSilent(t *testing.T) {
	col := testColumn(t, 3, func(cfg *Config) {
		cfg.Background = false
		cfg.InputGain = 0
	})
	tr, err := NewTrainer(col, stim.Balanced(16, 8), trainParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if r0, r1 := tr.Reward(0), tr.Reward(1); r0 != col.Cfg.Hyper.EpsilonDopa || r1 != -r0 {
		t.Errorf("rewards %v %v", r0, r1)
	}
	oc, err := tr.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if oc.Status != Killed || oc.Score != 3 || oc.Iter != 15 || oc.Spikes != 0 {
		t.Errorf("silent column outcome: %v", oc)
	}
	if len(tr.Results) != 16 {
		t.Fatalf("got %d results, want 16", len(tr.Results))
	}
	for i, res := range tr.Results {
		if res.Index != i || res.Label != i%2 || res.TotSpikes != 0 || res.Expected != 0 || res.Correct {
			t.Errorf("trial %d: %+v", i, res)
		}
		if want := float64(i)*100 + 0.1; mat32.Abs(float32(res.Start-want)) > 1e-3 {
			t.Errorf("trial %d start %v, want %v", i, res.Start, want)
		}
	}
	if n := col.InToExc.Send.Neurons[0].NSpikes; n != 10*8 {
		t.Errorf("input neuron 0 fired %d times, want 80", n)
	}
}

// limitWriter fails every write after the first n
type limitWriter struct {
	n, writes int
}

var errFull = errors.New("trace full")

func (lw *limitWriter) Write(b []byte) (int, error) {
	lw.writes++
	if lw.writes > lw.n {
		return 0, errFull
	}
	return len(b), nil
}

func TestTrainerTraceError(t *testing.T) {
	col := testColumn(t, 3, func(cfg *Config) {
		cfg.Background = false
		cfg.InputGain = 0
	})
	tr, err := NewTrainer(col, stim.Balanced(16, 8), trainParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	// all 16 trials are traced, then the outcome write fails
	lw := &limitWriter{n: 16}
	tr.Trace = logging.NewTrace(lw)
	oc, err := tr.Run(context.Background())
	if !errors.Is(err, errFull) {
		t.Fatalf("outcome trace error not returned: %v", err)
	}
	if oc.Status != Killed || len(tr.Results) != 16 || lw.writes != 17 {
		t.Errorf("outcome %v after %d results and %d writes", oc, len(tr.Results), lw.writes)
	}
}

func TestTrainerErrors(t *testing.T) {
	col := testColumn(t, 1, nil)
	if _, err := NewTrainer(col, stim.Balanced(4, 7), trainParams(), nil); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("dimension mismatch: %v", err)
	}
	sms := stim.Balanced(4, 8)
	sms[2].Label = 2
	if _, err := NewTrainer(col, sms, trainParams(), nil); !errors.Is(err, stim.ErrPattern) {
		t.Errorf("bad label: %v", err)
	}
	tp := trainParams()
	tp.Epochs = 0
	if _, err := NewTrainer(col, stim.Balanced(4, 8), tp, nil); !errors.Is(err, spike.ErrConfig) {
		t.Errorf("zero epochs: %v", err)
	}

	tr, err := NewTrainer(col, stim.Balanced(4, 8), trainParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	oc, err := tr.Run(ctx)
	if !errors.Is(err, context.Canceled) || oc.Status != Canceled || len(tr.Results) != 0 {
		t.Errorf("canceled run: %v %v", oc, err)
	}

	errStop := errors.New("stop")
	tr, err = NewTrainer(col, stim.Balanced(4, 8), trainParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	tr.OnTrial = func(res TrialResult) error { return errStop }
	if _, err := tr.Run(context.Background()); !errors.Is(err, errStop) || len(tr.Results) != 1 {
		t.Errorf("OnTrial error: %v after %d trials", err, len(tr.Results))
	}
}

// trajectory is everything observable about a training run
type trajectory struct {
	Outcome Outcome
	Results []TrialResult
	ExcSpk  int
	InWt    float32
	OutWt   float32
}

func runTrajectory(t *testing.T, seed uint64) trajectory {
	col := testColumn(t, seed, nil)
	exc := spike.NewSpikeRec(col.Net, col.Exc)
	tr, err := NewTrainer(col, stim.Balanced(16, 8), trainParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	oc, err := tr.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	oc.Secs = 0
	return trajectory{Outcome: *oc, Results: tr.Results, ExcSpk: exc.N(), InWt: col.InToExc.WtSum(), OutWt: col.ExcToOut.WtSum()}
}

func TestDeterminism(t *testing.T) {
	if testing.Short() {
		t.Skip("runs three column simulations")
	}
	a := runTrajectory(t, 7)
	b := runTrajectory(t, 7)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed, different trajectories:\n%+v\n%+v", a.Outcome, b.Outcome)
	}
	if len(a.Results) == 0 || a.Outcome.Status == Running {
		t.Errorf("run did not finish: %+v", a.Outcome)
	}
	c := runTrajectory(t, 8)
	if reflect.DeepEqual(a, c) {
		t.Errorf("different seeds gave identical trajectories")
	}
	if a.InWt == c.InWt && a.ExcSpk == c.ExcSpk {
		t.Errorf("different seeds: same input weights %v and excitatory spikes %d", a.InWt, a.ExcSpk)
	}
}
