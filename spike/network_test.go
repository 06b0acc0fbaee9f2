// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/emer/emergent/params"
)

// testMod is a fixed-level Modulator that counts reported spikes
type testMod struct {
	da    []float32
	spks  []int
	steps int
}

func newTestMod(da ...float32) *testMod {
	return &testMod{da: da, spks: make([]int, len(da))}
}

func (tm *testMod) NChannels() int    { return len(tm.da) }
func (tm *testMod) DA(ch int) float32 { return tm.da[ch] }
func (tm *testMod) OnSpike(ch int)    { tm.spks[ch]++ }
func (tm *testMod) Step(dt float64)   { tm.steps++ }

func TestSynapticDelay(t *testing.T) {
	nt := NewNetwork("Delay", 1)
	in := nt.AddPop("Input", 1, InputNeuron)
	out := nt.AddPop("Out", 1, CondNeuron)
	sg := nt.ConnectPops("InToOut", in, out, 1, AMPA)
	sg.WtInit.Mean = 0.5
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if sg.NSyns != 1 {
		t.Fatalf("NSyns: %d\n", sg.NSyns)
	}
	sr, err := NewStateRec(nt, out, []string{"GeAMPA"}, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.Inject(in, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := nt.Run(5); err != nil {
		t.Fatal(err)
	}
	ge, err := sr.Series("GeAMPA", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ge) != 50 {
		t.Fatalf("samples: %d\n", len(ge))
	}
	// spike at tick 10, delivered at tick 30, integrated at tick 31
	for i, g := range ge {
		tick := i + 1
		switch {
		case tick < 31:
			if g != 0 {
				t.Errorf("tick %d: early conductance %v\n", tick, g)
			}
		case tick == 31:
			if math.Abs(float64(g)-0.5) > 1e-6 {
				t.Errorf("tick 31: conductance %v want 0.5\n", g)
			}
		case tick == 32:
			want := 0.5 * math.Exp(-0.1/float64(sg.Exp.Tau))
			if math.Abs(float64(g)-want) > 1e-6 {
				t.Errorf("tick 32: conductance %v want %v\n", g, want)
			}
		}
	}
}

func TestDAModes(t *testing.T) {
	mod := newTestMod(0.1, -0.3)
	mean := ModMean(mod)
	if math.Abs(float64(mean)+0.1) > 1e-6 {
		t.Errorf("mean: %v\n", mean)
	}
	tests := []struct {
		mode DAModes
		ch   int
		ri   int
		want float32
	}{
		{DANone, 0, 0, 0},
		{DAPerTarget, 0, 0, 0.1},
		{DAPerTarget, 0, 1, -0.3},
		{DAPerTarget, 0, 2, 0},
		{DAMean, 0, 5, mean},
		{DAChannel, 1, 0, -0.3},
		{DAChannel, 3, 0, 0},
	}
	for _, ts := range tests {
		if da := ts.mode.DA(mod, ts.ch, ts.ri, mean); da != ts.want {
			t.Errorf("%v ch %d ri %d: %v want %v\n", ts.mode, ts.ch, ts.ri, da, ts.want)
		}
	}
	if da := DAPerTarget.DA(nil, 0, 0, 0); da != 0 {
		t.Errorf("nil modulator: %v\n", da)
	}
}

// driveNet returns a small recurrent network driven by noisy DC input
func driveNet(seed uint64) (*Network, *SpikeRec) {
	nt := NewNetwork("Drive", seed)
	ex := nt.AddPop("Ex", 40, CondNeuron)
	ex.Act.IDC = 250
	ex.Act.Noise = 2
	in := nt.AddPop("In", 10, CondNeuron)
	in.Act.BgRate = 1500
	ee := nt.ConnectPops("ExToEx", ex, ex, 0.2, AMPA)
	ee.WtInit.Mode = WtGauss
	ee.WtInit.Mean = 0.5
	ee.WtInit.Std = 0.1
	nt.ConnectPops("ExToIn", ex, in, 0.3, NMDA)
	ie := nt.ConnectPops("InToEx", in, ex, 0.3, GABA)
	ie.Learn = InhibLearn
	ie.WtBound.Max = 5
	sr := NewSpikeRec(nt, ex)
	return nt, sr
}

func TestNetworkDeterminism(t *testing.T) {
	run := func(seed uint64) *SpikeRec {
		nt, sr := driveNet(seed)
		if err := nt.Build(); err != nil {
			t.Fatal(err)
		}
		if err := nt.Run(100); err != nil {
			t.Fatal(err)
		}
		return sr
	}
	a := run(5)
	b := run(5)
	c := run(6)
	if a.N() == 0 {
		t.Fatalf("no spikes\n")
	}
	if a.N() != b.N() {
		t.Fatalf("same seed: %d vs %d spikes\n", a.N(), b.N())
	}
	for i := range a.Times {
		if a.Times[i] != b.Times[i] || a.Idxs[i] != b.Idxs[i] {
			t.Fatalf("same seed: spike %d differs: %v/%d vs %v/%d\n", i, a.Times[i], a.Idxs[i], b.Times[i], b.Idxs[i])
		}
	}
	same := a.N() == c.N()
	if same {
		for i := range a.Times {
			if a.Times[i] != c.Times[i] || a.Idxs[i] != c.Idxs[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Errorf("different seeds gave identical spike trains\n")
	}
	for i := 1; i < len(a.Times); i++ {
		if a.Times[i] < a.Times[i-1] {
			t.Fatalf("spike times not ordered at %d\n", i)
		}
	}
}

func TestNetworkModulator(t *testing.T) {
	nt := NewNetwork("Mod", 1)
	in := nt.AddPop("Input", 2, InputNeuron)
	mod := newTestMod(0, 0)
	nt.Mod = mod
	nt.ModPop = in
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	nt.Inject(in, 1, 0.5)
	nt.Inject(in, 1, 1.5)
	nt.Inject(in, 0, 1.5)
	if err := nt.RunTicks(30); err != nil {
		t.Fatal(err)
	}
	if mod.spks[0] != 1 || mod.spks[1] != 2 {
		t.Errorf("modulator spikes: %v\n", mod.spks)
	}
	if mod.steps != 30 {
		t.Errorf("modulator steps: %d\n", mod.steps)
	}
	nt.InitState()
	if nt.Time.Tick != 0 || in.SpikeCount() != 0 {
		t.Errorf("InitState: tick %d spikes %d\n", nt.Time.Tick, in.SpikeCount())
	}
}

func TestNetworkBuildErrors(t *testing.T) {
	nt := NewNetwork("Bad", 1)
	a := nt.AddPop("A", 10, CondNeuron)
	nt.ConnectPops("AToA", a, a, 1.5, AMPA)
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("p > 1: expected ErrConfig, got %v\n", err)
	}
	nt = NewNetwork("Bad", 1)
	a = nt.AddPop("A", 10, CondNeuron)
	sg := nt.ConnectPops("AToA", a, a, 0.1, AMPA)
	sg.Delay = -1
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("negative delay: expected ErrConfig, got %v\n", err)
	}
	nt = NewNetwork("Bad", 1)
	a = nt.AddPop("A", 10, CondNeuron)
	sg = nt.ConnectPops("AToA", a, a, 0.1, AMPA)
	sg.WtBound.Max = float32(math.NaN())
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("NaN weight bound: expected ErrConfig, got %v\n", err)
	}
	nt = NewNetwork("Bad", 1)
	nt.AddPop("A", 10, CondNeuron)
	nt.AddPop("A", 5, CondNeuron)
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate names: expected ErrConfig, got %v\n", err)
	}
	if err := NewNetwork("Empty", 1).Step(); err == nil {
		t.Errorf("Step before Build: expected error\n")
	}
}

func TestZeroProbGroup(t *testing.T) {
	nt := NewNetwork("Zero", 1)
	a := nt.AddPop("A", 20, CondNeuron)
	b := nt.AddPop("B", 20, CondNeuron)
	sg := nt.ConnectPops("AToB", a, b, 0, AMPA)
	sg.WtInit.Mean = 0
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if sg.NSyns != 0 || len(b.Slots) != 1 {
		t.Errorf("zero-probability group: NSyns %d slots %d\n", sg.NSyns, len(b.Slots))
	}
	if err := nt.Run(2); err != nil {
		t.Fatal(err)
	}
}

func TestReports(t *testing.T) {
	nt, _ := driveNet(1)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if err := nt.Run(1); err != nil {
		t.Fatal(err)
	}
	rep := nt.SizeReport()
	for _, nm := range []string{"Ex", "In", "Drive"} {
		if !strings.Contains(rep, nm) {
			t.Errorf("SizeReport missing %s:\n%s", nm, rep)
		}
	}
	var b bytes.Buffer
	nt.TimerReport(&b)
	for _, fn := range []string{"Integrate", "Deliver", "SynStep"} {
		if !strings.Contains(b.String(), fn) {
			t.Errorf("TimerReport missing %s:\n%s", fn, b.String())
		}
	}
	tab := NewSpikeRec(nt, nt.PopByName("Ex")).Table()
	if tab.Rows != 0 || tab.ColByName("Time") == nil {
		t.Errorf("empty spike table: rows %d\n", tab.Rows)
	}
}

func TestApplyParams(t *testing.T) {
	nt, _ := driveNet(1)
	sheet := params.Sheet{
		{Sel: "Population", Desc: "all populations",
			Params: params.Params{
				"Population.Act.Thr": "-45",
			}},
		{Sel: "#InToEx", Desc: "one group",
			Params: params.Params{
				"SynGroup.Delay": "1",
			}},
	}
	if _, err := nt.ApplyParams(&sheet, false); err != nil {
		t.Fatal(err)
	}
	for _, pop := range nt.Pops {
		if pop.Act.Thr != -45 {
			t.Errorf("%s: Thr %v\n", pop.Nm, pop.Act.Thr)
		}
	}
	if d := nt.SynByName("InToEx").Delay; d != 1 {
		t.Errorf("InToEx delay: %v\n", d)
	}
	if d := nt.SynByName("ExToEx").Delay; d != 2 {
		t.Errorf("ExToEx delay: %v\n", d)
	}
}

func TestRateRec(t *testing.T) {
	nt, sr := driveNet(2)
	ex := nt.PopByName("Ex")
	if _, err := NewRateRec(nt, ex, 0.01); !errors.Is(err, ErrConfig) {
		t.Errorf("sub-tick bin: %v\n", err)
	}
	rr, err := NewRateRec(nt, ex, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if err := nt.Run(50); err != nil {
		t.Fatal(err)
	}
	if len(rr.Rates) != 5 {
		t.Fatalf("%d bins after 50 ms, want 5\n", len(rr.Rates))
	}
	tot := 0.0
	for _, r := range rr.Rates {
		tot += r * rr.Bin * float64(ex.N) / 1000
	}
	if n := int(math.Round(tot)); n != sr.N() {
		t.Errorf("binned rates account for %d spikes, recorded %d\n", n, sr.N())
	}
	if tab := rr.Table(); tab.Rows != 5 {
		t.Errorf("rate table rows %d\n", tab.Rows)
	}
}
