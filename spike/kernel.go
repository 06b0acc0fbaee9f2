// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"

	"github.com/goki/mat32"
)

// Kernel is the conductance time course of a synapse in response to
// delivered spikes.  The kernel value K scales the weight in the conductance
// sent to the receiving neuron.
type Kernel interface {
	// Kick applies the effect of one delivered spike
	Kick(sy *Synapse)

	// Init precomputes the decay factors for steps of dt ms
	Init(dt float32)

	// Step advances the kernel by one step of dt ms
	Step(sy *Synapse, dt float32)

	// Validate returns an error wrapping ErrConfig for invalid parameters
	Validate() error
}

// ExpKernel jumps by 1 on each spike and decays exponentially, by the
// exact factor e^(-dt/Tau) per step
type ExpKernel struct {
	Tau float32 `def:"2,5" min:"0" desc:"decay time constant (ms)"`

	dt    float32
	decay float32
}

func (ek *ExpKernel) Init(dt float32) {
	ek.dt = dt
	ek.decay = mat32.Exp(-dt / ek.Tau)
}

func (ek *ExpKernel) Kick(sy *Synapse) {
	sy.K += 1
}

func (ek *ExpKernel) Step(sy *Synapse, dt float32) {
	if dt != ek.dt {
		ek.Init(dt)
	}
	sy.K *= ek.decay
}

func (ek *ExpKernel) Validate() error {
	if !(ek.Tau > 0) {
		return fmt.Errorf("%w: kernel Tau must be > 0, got %v", ErrConfig, ek.Tau)
	}
	return nil
}

// BiExpKernel is a saturating rise / decay kernel, as for NMDA receptors:
// each spike kicks the rise variable X by 1, and
//
//	dK/dt = Alpha X (1 - K) - K / TauDecay
//	dX/dt = -X / TauRise
//
// The decays are exact per step, the saturating rise is an Euler step, and
// K stays in [0, 1].
type BiExpKernel struct {
	TauRise  float32 `def:"2" min:"0" desc:"rise time constant (ms)"`
	TauDecay float32 `def:"80" min:"0" desc:"decay time constant (ms)"`
	Alpha    float32 `def:"0.5" min:"0" desc:"saturation rate (1/ms)"`

	dt     float32
	rDecay float32
	kDecay float32
}

func (bk *BiExpKernel) Init(dt float32) {
	bk.dt = dt
	bk.rDecay = mat32.Exp(-dt / bk.TauRise)
	bk.kDecay = mat32.Exp(-dt / bk.TauDecay)
}

func (bk *BiExpKernel) Kick(sy *Synapse) {
	sy.X += 1
}

func (bk *BiExpKernel) Step(sy *Synapse, dt float32) {
	if dt != bk.dt {
		bk.Init(dt)
	}
	k := sy.K*bk.kDecay + dt*bk.Alpha*sy.X*(1-sy.K)
	sy.K = mat32.Max(0, mat32.Min(k, 1))
	sy.X *= bk.rDecay
}

func (bk *BiExpKernel) Validate() error {
	if !(bk.TauRise > 0) || !(bk.TauDecay > 0) || bk.Alpha < 0 {
		return fmt.Errorf("%w: biexponential kernel %+v", ErrConfig, *bk)
	}
	return nil
}
