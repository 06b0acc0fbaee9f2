// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package da

import (
	"errors"
	"math"
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func TestMerge(t *testing.T) {
	tests := []struct {
		e0, e1, c float32
	}{
		{0, 0, 0},
		{0.01, -0.01, 0.01},
		{0.01, 0.01, 0},
		{-0.004, 0.006, -0.005},
		{0.3, -0.1, 0.2},
	}
	for _, ts := range tests {
		a, b := Merge(ts.e0, ts.e1)
		if mat32.Abs(a-ts.c) > difTol {
			t.Errorf("Merge(%v, %v): %v want %v\n", ts.e0, ts.e1, a, ts.c)
		}
		if a != -b {
			t.Errorf("Merge(%v, %v): not anti-correlated: %v %v\n", ts.e0, ts.e1, a, b)
		}
	}
}

func TestSurprise(t *testing.T) {
	md := New(2)
	if md.Chans[0].Polarity != 1 || md.Chans[1].Polarity != -1 {
		t.Fatalf("polarities: %+v\n", md.Chans)
	}
	eps := md.Params.Epsilon
	if err := md.SetReward([]float32{eps, eps}); err != nil {
		t.Fatal(err)
	}
	md.OnSpike(0)
	if mat32.Abs(md.Chans[0].DA-eps) > difTol {
		t.Errorf("first spike DA: %v want %v\n", md.Chans[0].DA, eps)
	}
	if mat32.Abs(md.Chans[0].Expected-0.25*eps) > difTol {
		t.Errorf("expected after spike: %v\n", md.Chans[0].Expected)
	}
	// second spike: smaller surprise
	md.OnSpike(0)
	want := eps + 0.75*eps
	if mat32.Abs(md.Chans[0].DA-want) > difTol {
		t.Errorf("second spike DA: %v want %v\n", md.Chans[0].DA, want)
	}
	md.OnSpike(1)
	if md.Chans[1].DA >= 0 {
		t.Errorf("negative polarity channel DA: %v\n", md.Chans[1].DA)
	}
	// fully predicted reward releases nothing
	md.Chans[0].Expected = eps
	da := md.Chans[0].DA
	md.OnSpike(0)
	if md.Chans[0].DA != da {
		t.Errorf("predicted reward changed DA: %v -> %v\n", da, md.Chans[0].DA)
	}
	if err := md.SetReward([]float32{1}); !errors.Is(err, ErrChannels) {
		t.Errorf("expected ErrChannels, got %v\n", err)
	}
}

func TestDecay(t *testing.T) {
	md := New(2)
	md.Chans[0].DA = 1
	md.Chans[1].DA = -0.5
	const dt = 0.1
	for n := 1; n <= 1000; n++ {
		md.Step(dt)
	}
	fac := math.Exp(-1000 * dt / float64(md.Params.TauD))
	if dif := math.Abs(float64(md.Chans[0].DA)-fac) / fac; dif > 1e-3 {
		t.Errorf("DA after 100 ms: %v want %v\n", md.Chans[0].DA, fac)
	}
	if dif := math.Abs(float64(md.Chans[1].DA)+0.5*fac) / (0.5 * fac); dif > 1e-3 {
		t.Errorf("negative DA after 100 ms: %v want %v\n", md.Chans[1].DA, -0.5*fac)
	}
	if md.MaxDA() != md.Chans[0].DA {
		t.Errorf("MaxDA: %v\n", md.MaxDA())
	}
}

func TestUpdateExpectedReward(t *testing.T) {
	md := New(2)
	md.Chans[0].Expected = 0.008
	md.Chans[1].Expected = -0.002
	base := md.UpdateExpectedReward()
	if mat32.Abs(base-0.005) > difTol {
		t.Errorf("baseline: %v want 0.005\n", base)
	}
	if md.Chans[1].Expected != -base || md.ExpectedReward() != base {
		t.Errorf("channels: %+v\n", md.Chans)
	}
	if mat32.Abs(md.Normalized()-0.5) > 1e-4 {
		t.Errorf("normalized: %v want 0.5\n", md.Normalized())
	}
	md.Init()
	if md.ExpectedReward() != 0 || md.Chans[1].Polarity != -1 {
		t.Errorf("after Init: %+v\n", md.Chans)
	}
	one := New(1)
	one.Chans[0].Expected = 0.3
	if one.UpdateExpectedReward() != 0.3 {
		t.Errorf("single channel merge changed expectation\n")
	}
}
