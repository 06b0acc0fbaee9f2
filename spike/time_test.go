// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"errors"
	"math"
	"testing"
)

func TestTime(t *testing.T) {
	tm := NewTime()
	for i := 0; i < 25; i++ {
		tm.Inc()
	}
	if tm.Tick != 25 {
		t.Errorf("tick: %d\n", tm.Tick)
	}
	if math.Abs(tm.T()-2.5) > 1e-12 {
		t.Errorf("T: %v\n", tm.T())
	}
	if tm.TickOf(0.3) != 3 || tm.Ticks(2) != 20 {
		t.Errorf("TickOf(0.3): %d Ticks(2): %d\n", tm.TickOf(0.3), tm.Ticks(2))
	}
	tm.TrialInc()
	tm.Reset()
	if tm.Tick != 0 || tm.Trial != 0 || tm.Dt != 0.1 {
		t.Errorf("after Reset: %v\n", tm)
	}
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		bad := Time{Dt: dt}
		if err := bad.Validate(); !errors.Is(err, ErrConfig) {
			t.Errorf("Dt %v: expected ErrConfig, got %v\n", dt, err)
		}
	}
}
