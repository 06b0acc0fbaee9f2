// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"math"
	"testing"
)

func TestMgBlock(t *testing.T) {
	mg := MgBlock{}
	mg.Defaults()
	vs := []float32{-80, -65, -40, 0, 20}
	prv := float32(0)
	for _, v := range vs {
		g := mg.Gate(v)
		cor := 1 / (1 + math.Exp(-0.062*float64(v))/3.57)
		if dif := math.Abs(float64(g) - cor); dif > 1.0e-6 {
			t.Errorf("gate err: v: %v, g: %v, cor: %v, dif: %v\n", v, g, cor, dif)
		}
		if g <= prv {
			t.Errorf("gate not increasing with depolarization at v: %v\n", v)
		}
		prv = g
	}
}

func TestExcite(t *testing.T) {
	gbar := Chans{}
	gbar.SetAll(1, 2, 5, 0.5)
	ch := Chans{}
	ch.SetAll(0.5, 0.25, 10, 2)
	if ex := ch.Excite(&gbar, 1); ex != 2 {
		t.Errorf("excite: %v, expected 2\n", ex)
	}
	if ex := ch.Excite(&gbar, 0.5); ex != 1.75 {
		t.Errorf("excite with half NMDA block: %v, expected 1.75\n", ex)
	}
	ch.Zero()
	if ex := ch.Excite(&gbar, 1); ex != 0 {
		t.Errorf("excite after zero: %v\n", ex)
	}
}
