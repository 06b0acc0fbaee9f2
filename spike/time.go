// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"math"
)

// spike.Time is the global simulation clock: a fixed step size and the
// number of steps taken.  The current time is always Tick * Dt.
type Time struct {
	Dt    float64 `def:"0.1" desc:"integration step size, in msec"`
	Tick  int     `desc:"number of steps taken since the last Reset"`
	Trial int     `desc:"trial counter, incremented by the trial driver"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 0.1
}

// Validate returns an error if the step size is not positive
func (tm *Time) Validate() error {
	if !(tm.Dt > 0) || math.IsInf(tm.Dt, 0) {
		return fmt.Errorf("%w: time step Dt must be > 0, got %v", ErrConfig, tm.Dt)
	}
	return nil
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Tick = 0
	tm.Trial = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// T returns the current time in msec
func (tm *Time) T() float64 {
	return float64(tm.Tick) * tm.Dt
}

// Inc advances the clock by one step
func (tm *Time) Inc() {
	tm.Tick++
}

// TrialInc increments the trial counter
func (tm *Time) TrialInc() {
	tm.Trial++
}

// TickOf returns the tick nearest to time t (msec)
func (tm *Time) TickOf(t float64) int {
	return int(math.Round(t / tm.Dt))
}

// Ticks returns the number of steps nearest to duration d (msec)
func (tm *Time) Ticks(d float64) int {
	return int(math.Round(d / tm.Dt))
}

// String satisfies fmt.Stringer
func (tm *Time) String() string {
	return fmt.Sprintf("t: %g ms (tick %d, trial %d)", tm.T(), tm.Tick, tm.Trial)
}
