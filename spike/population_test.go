// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

// vmTol is the tolerance (mV) for comparing integrated vs. closed-form potentials
const vmTol = 5.0e-3

func TestLeakIntegration(t *testing.T) {
	tests := []struct {
		vm0, vl, gl, cm, thr float32
	}{
		{-55, -70, 10, 200, -40},
		{-45, -65, 4.07, 37.11, -40},
		{-90, -70, 16.66, 149.43, -50},
		{-60, -60, 5, 100, -50},
	}
	const nsteps = 500
	for ti, ts := range tests {
		tm := NewTime()
		pop := NewPopulation("Leak", 3, CondNeuron)
		pop.Act.Vm0, pop.Act.VL, pop.Act.GL, pop.Act.Cm, pop.Act.Thr = ts.vm0, ts.vl, ts.gl, ts.cm, ts.thr
		pop.Act.Reset = ts.vl - 5
		if err := pop.Build(tm, rand.New(rand.NewSource(1))); err != nil {
			t.Fatal(err)
		}
		// Euler steps match (1 - dt gL/Cm)^n exactly, and the continuous
		// solution VL + (V0 - VL) e^(-t gL/Cm) to first order in dt
		rate := float64(ts.gl) / float64(ts.cm)
		fac := 1 - tm.Dt*rate
		eulerTol := rate*tm.Dt*math.Abs(float64(ts.vm0-ts.vl))/2 + vmTol
		for n := 1; n <= nsteps; n++ {
			tm.Inc()
			pop.Integrate(tm)
			if sp := pop.DetectSpikes(tm); len(sp) > 0 {
				t.Fatalf("test %d: unexpected spike at tick %d\n", ti, n)
			}
			want := float64(ts.vl) + float64(ts.vm0-ts.vl)*math.Pow(fac, float64(n))
			exact := float64(ts.vl) + float64(ts.vm0-ts.vl)*math.Exp(-float64(n)*tm.Dt*rate)
			for ni := range pop.Neurons {
				vm := float64(pop.Neurons[ni].Vm)
				if dif := math.Abs(vm - want); dif > vmTol {
					t.Fatalf("test %d step %d neuron %d: vm %v want %v dif %v\n", ti, n, ni, vm, want, dif)
				}
				if dif := math.Abs(vm - exact); dif > eulerTol {
					t.Fatalf("test %d step %d neuron %d: vm %v exact %v dif %v > %v\n", ti, n, ni, vm, exact, dif, eulerTol)
				}
			}
		}
	}
}

func TestThresholdRefractory(t *testing.T) {
	tm := NewTime()
	pop := NewPopulation("DC", 2, CondNeuron)
	pop.Act.IDC = 1000
	pop.Act.Reset = -60
	pop.Act.TauRef = 2
	if err := pop.Build(tm, rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}
	refTicks := tm.Ticks(float64(pop.Act.TauRef))
	last := []int{-1, -1}
	nspk := 0
	for n := 1; n <= 3000; n++ {
		tm.Inc()
		pop.Integrate(tm)
		pop.DetectSpikes(tm)
		for ni := range pop.Neurons {
			nrn := &pop.Neurons[ni]
			if nrn.Spike > 0 {
				nspk++
				if nrn.Vm != pop.Act.Reset {
					t.Errorf("tick %d: vm %v after spike, want reset %v\n", n, nrn.Vm, pop.Act.Reset)
				}
				if last[ni] >= 0 && n-last[ni] <= refTicks {
					t.Errorf("tick %d: spike %d ticks after previous, refractory %d\n", n, n-last[ni], refTicks)
				}
				last[ni] = n
				continue
			}
			if last[ni] >= 0 && n < last[ni]+refTicks && nrn.Vm != pop.Act.Reset {
				t.Errorf("tick %d: refractory vm %v != reset\n", n, nrn.Vm)
			}
			if nrn.Vm >= nrn.Thr {
				t.Errorf("tick %d: vm %v above threshold without spike\n", n, nrn.Vm)
			}
		}
	}
	if nspk == 0 {
		t.Errorf("no spikes with suprathreshold drive\n")
	}
	if pop.SpikeCount() != nspk {
		t.Errorf("SpikeCount %d != %d\n", pop.SpikeCount(), nspk)
	}
}

func TestPopValidate(t *testing.T) {
	tests := []struct {
		nm  string
		set func(pop *Population)
	}{
		{"size", func(pop *Population) { pop.N = 0 }},
		{"Cm", func(pop *Population) { pop.Act.Cm = 0 }},
		{"GL", func(pop *Population) { pop.Act.GL = -1 }},
		{"TauRef", func(pop *Population) { pop.Act.TauRef = -1 }},
		{"Thr", func(pop *Population) { pop.Act.Thr = pop.Act.Reset }},
		{"NaN", func(pop *Population) { pop.Act.VL = float32(math.NaN()) }},
		{"BgRate", func(pop *Population) { pop.Act.BgRate = -5 }},
		{"Tau", func(pop *Population) { pop.Kind = AdaptNeuron; pop.ALIF.Tau = 0 }},
	}
	for _, ts := range tests {
		pop := NewPopulation("Bad", 4, CondNeuron)
		ts.set(pop)
		if err := pop.Build(NewTime(), rand.New(rand.NewSource(1))); !errors.Is(err, ErrConfig) {
			t.Errorf("%s: expected ErrConfig, got %v\n", ts.nm, err)
		}
	}
}

func TestInject(t *testing.T) {
	tm := NewTime()
	pop := NewPopulation("Input", 4, InputNeuron)
	if err := pop.Inject(tm, 0, 1); err == nil {
		t.Errorf("inject before build: expected error\n")
	}
	if err := pop.Build(tm, rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}
	if err := pop.Inject(tm, 2, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := pop.Inject(tm, 1, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := pop.Inject(tm, 4, 0.5); err == nil {
		t.Errorf("out of range index: expected error\n")
	}
	if err := pop.Inject(tm, 0, 0); !errors.Is(err, ErrPast) {
		t.Errorf("current tick: expected ErrPast, got %v\n", err)
	}
	for n := 1; n <= 20; n++ {
		tm.Inc()
		pop.Integrate(tm)
		sp := pop.DetectSpikes(tm)
		if n == 5 {
			if len(sp) != 2 || sp[0] != 1 || sp[1] != 2 {
				t.Errorf("tick 5: spikes %v, want [1 2]\n", sp)
			}
			continue
		}
		if len(sp) != 0 {
			t.Errorf("tick %d: unexpected spikes %v\n", n, sp)
		}
	}
}

func TestBackgroundInput(t *testing.T) {
	tm := NewTime()
	pop := NewPopulation("Bg", 20, CondNeuron)
	pop.Act.BgRate = 2000
	if err := pop.Build(tm, rand.New(rand.NewSource(3))); err != nil {
		t.Fatal(err)
	}
	for n := 0; n < 1000; n++ {
		tm.Inc()
		pop.Integrate(tm)
		pop.DetectSpikes(tm)
	}
	var vals []float32
	if err := pop.UnitVals(&vals, "Vm"); err != nil {
		t.Fatal(err)
	}
	above := 0
	for _, v := range vals {
		if v > pop.Act.VL {
			above++
		}
	}
	if above == 0 {
		t.Errorf("background input did not depolarize any neuron: %v\n", vals)
	}
	if _, err := pop.UnitVal("Nope", 0); err == nil {
		t.Errorf("expected error for unknown variable\n")
	}
}

func TestBackgroundDecayLargeStep(t *testing.T) {
	tm := NewTime()
	tm.Dt = 5
	pop := NewPopulation("Bg", 1, CondNeuron)
	if err := pop.Build(tm, rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}
	pop.Neurons[0].SExt = 1
	want := 1.0
	for n := 1; n <= 3; n++ {
		tm.Inc()
		pop.Integrate(tm)
		want *= math.Exp(-tm.Dt / float64(pop.BgTau))
		if got := float64(pop.Neurons[0].SExt); math.Abs(got-want) > 1e-6 {
			t.Errorf("step %d: SExt %v want %v\n", n, got, want)
		}
	}
}
