// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

func TestBernoulliExpectation(t *testing.T) {
	const (
		n    = 1000
		p    = 0.1
		reps = 100
	)
	rnd := rand.New(rand.NewSource(42))
	pat := NewBernoulli(p)
	counts := make([]float64, reps)
	for r := 0; r < reps; r++ {
		es, err := pat.Connect(n, n, true, rnd)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < n; i++ {
			if es.Has(i, i) {
				t.Fatalf("rep %d: self edge at %d\n", r, i)
			}
		}
		sn, rn := int32(0), int32(0)
		for i := 0; i < n; i++ {
			sn += es.SendN[i]
			rn += es.RecvN[i]
		}
		if int(sn) != es.N || int(rn) != es.N {
			t.Errorf("rep %d: send total %d recv total %d != N %d\n", r, sn, rn, es.N)
		}
		counts[r] = float64(es.N)
	}
	exp := pat.Expected(n, n, true)
	if math.Abs(exp-p*n*(n-1)) > 0.01 {
		t.Errorf("expected count: %v\n", exp)
	}
	mean := stat.Mean(counts, nil)
	// binomial standard error of the mean over reps
	se := math.Sqrt(n*(n-1)*p*(1-p)) / math.Sqrt(reps)
	if dif := math.Abs(mean - exp); dif > 5*se {
		t.Errorf("mean edge count: %v expected: %v dif: %v > 5 se: %v\n", mean, exp, dif, 5*se)
	}
}

func TestBernoulliSelfCon(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pat := &Bernoulli{P: 1, SelfCon: true}
	es, err := pat.Connect(5, 5, true, rnd)
	if err != nil {
		t.Fatal(err)
	}
	if es.N != 25 {
		t.Errorf("full self con: %d edges\n", es.N)
	}
	pat.SelfCon = false
	es, _ = pat.Connect(5, 5, true, rnd)
	if es.N != 20 {
		t.Errorf("no self con: %d edges\n", es.N)
	}
	es, _ = pat.Connect(5, 5, false, rnd)
	if es.N != 25 {
		t.Errorf("different pops: %d edges\n", es.N)
	}
	np := 0
	es.Pairs(func(si, ri int) { np++ })
	if np != es.N {
		t.Errorf("pairs visited %d != %d\n", np, es.N)
	}
}

func TestBernoulliZero(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	es, err := NewBernoulli(0).Connect(50, 40, false, rnd)
	if err != nil {
		t.Fatal(err)
	}
	if es.N != 0 {
		t.Errorf("p = 0 produced %d edges\n", es.N)
	}
}

func TestBernoulliValidate(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, p := range []float32{-0.1, 1.5, float32(math.NaN())} {
		_, err := NewBernoulli(p).Connect(10, 10, false, rnd)
		if !errors.Is(err, ErrProb) {
			t.Errorf("p = %v: expected ErrProb, got %v\n", p, err)
		}
	}
}

func TestFanIn(t *testing.T) {
	tests := []struct {
		k    float32
		n    int
		want float32
	}{
		{32, 1237, 32.0 / 1237},
		{10, 5, 1},
		{0, 100, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := FanIn(tt.k, tt.n); got != tt.want {
			t.Errorf("FanIn(%v, %v) = %v, want %v\n", tt.k, tt.n, got, tt.want)
		}
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		g, str  float32
		n       int
		p, prop float32
		want    float32
	}{
		{5, 0.36, 1237, 0.16, 1, 5 * 0.36 / (1237 * 0.16)},
		{5, 0.36, 1237, 0, 1, 0},
		{5, 0, 1237, 0.16, 1, 0},
		{5, 0.36, 1237, 0.16, 0, 0},
		{5, 0.36, 0, 0.16, 1, 0},
	}
	for i, tt := range tests {
		got := Weight(tt.g, tt.str, tt.n, tt.p, tt.prop)
		if math.Abs(float64(got-tt.want)) > 1.0e-7 {
			t.Errorf("%d: Weight = %v, want %v\n", i, got, tt.want)
		}
		if tt.want == 0 && got != 0 {
			t.Errorf("%d: degenerate weight not exactly zero: %v\n", i, got)
		}
	}
}
