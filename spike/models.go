// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"

	"github.com/emer/dacolumn/chans"
	"github.com/goki/mat32"
)

// NeuronModel is the dynamics of one kind of neuron.  Populations hold one
// value of each model and dispatch through this interface according to their
// Kind.
type NeuronModel interface {
	// Kind returns the kind implemented by the model
	Kind() NeuronKinds

	// Defaults sets default parameter values
	Defaults()

	// Update must be called after any changes to parameters
	Update()

	// Validate returns an error wrapping ErrConfig for invalid parameters
	Validate() error

	// Taum returns the membrane time constant of the neuron (ms),
	// used to scale membrane noise.
	Taum(nrn *Neuron) float32

	// Step advances a non-refractory neuron by one explicit Euler step of
	// dt ms, given the receptor gating summed over all its inputs.
	// noise is an additive potential increment already scaled to the step.
	Step(nrn *Neuron, gs *chans.Chans, dt, noise float32)

	// Decay advances state that evolves whether or not the neuron is refractory
	Decay(nrn *Neuron, dt float32)

	// OnSpike applies spike-triggered changes other than the reset itself
	OnSpike(nrn *Neuron)

	// Fires is false for neurons that never cross threshold on their own
	Fires() bool
}

//////////////////////////////////////////////////////////////////////
//  CondLIF

// CondLIF is a conductance-based leaky integrate-and-fire neuron:
//
//	Cm dV/dt = -GL (V - VL) - I_syn + IDC
//
// where each receptor current is Gbar * s * (V - Erev), s is the summed gating
// from all incoming synapses, and NMDA is further scaled by the magnesium block.
type CondLIF struct {
	Gbar  chans.Chans   `view:"inline" desc:"[Defaults: 1, 1, 1, 1] maximal conductance of each receptor (nS)"`
	ErevE float32       `def:"0" desc:"reversal potential of AMPA and NMDA receptors (mV) -- GABA reversal is per neuron (VI)"`
	Mg    chans.MgBlock `view:"inline" desc:"magnesium block of NMDA receptors"`
}

func (lf *CondLIF) Kind() NeuronKinds { return CondNeuron }

func (lf *CondLIF) Defaults() {
	lf.Gbar.SetAll(1, 1, 1, 1)
	lf.ErevE = 0
	lf.Mg.Defaults()
}

func (lf *CondLIF) Update() {
}

func (lf *CondLIF) Validate() error {
	if lf.Gbar.AMPA < 0 || lf.Gbar.NMDA < 0 || lf.Gbar.GABA < 0 || lf.Gbar.Ext < 0 {
		return fmt.Errorf("%w: negative maximal conductance %+v", ErrConfig, lf.Gbar)
	}
	return nil
}

func (lf *CondLIF) Taum(nrn *Neuron) float32 {
	return nrn.Cm / nrn.GL
}

func (lf *CondLIF) Step(nrn *Neuron, gs *chans.Chans, dt, noise float32) {
	v := nrn.Vm
	ie := gs.Excite(&lf.Gbar, lf.Mg.Gate(v)) * (v - lf.ErevE)
	ii := lf.Gbar.GABA * gs.GABA * (v - nrn.VI)
	nrn.ISyn = ie + ii
	nrn.Vm = v + dt*(-nrn.GL*(v-nrn.VL)-nrn.ISyn+nrn.IDC)/nrn.Cm + noise
}

func (lf *CondLIF) Decay(nrn *Neuron, dt float32) {
}

func (lf *CondLIF) OnSpike(nrn *Neuron) {
}

func (lf *CondLIF) Fires() bool { return true }

//////////////////////////////////////////////////////////////////////
//  AdaptLIF

// AdaptLIF is a leaky integrate-and-fire neuron with conductances expressed
// relative to the leak, and a spike-triggered adaptation term:
//
//	Tau dV/dt = ge (ErevE - V) + gi (VI - V) + VL - V - Adapt + IDC
//
// IDC is interpreted as a potential (mV) in this model.
type AdaptLIF struct {
	Tau       float32       `def:"10" min:"0" desc:"membrane time constant (ms)"`
	Gbar      chans.Chans   `view:"inline" desc:"[Defaults: 1, 1, 1, 1] relative conductance of each receptor"`
	ErevE     float32       `def:"0" desc:"reversal potential of AMPA and NMDA receptors (mV)"`
	Mg        chans.MgBlock `view:"inline" desc:"magnesium block of NMDA receptors"`
	TauAdapt  float32       `def:"50" min:"0" desc:"decay time constant of adaptation (ms)"`
	AdaptIncr float32       `def:"5" desc:"increment of adaptation on each spike (mV)"`
}

func (al *AdaptLIF) Kind() NeuronKinds { return AdaptNeuron }

func (al *AdaptLIF) Defaults() {
	al.Tau = 10
	al.Gbar.SetAll(1, 1, 1, 1)
	al.ErevE = 0
	al.Mg.Defaults()
	al.TauAdapt = 50
	al.AdaptIncr = 5
}

func (al *AdaptLIF) Update() {
}

func (al *AdaptLIF) Validate() error {
	if al.Tau <= 0 || al.TauAdapt <= 0 {
		return fmt.Errorf("%w: adapting neuron time constants must be > 0: Tau %v TauAdapt %v", ErrConfig, al.Tau, al.TauAdapt)
	}
	return nil
}

func (al *AdaptLIF) Taum(nrn *Neuron) float32 {
	return al.Tau
}

func (al *AdaptLIF) Step(nrn *Neuron, gs *chans.Chans, dt, noise float32) {
	v := nrn.Vm
	ge := gs.Excite(&al.Gbar, al.Mg.Gate(v))
	gi := al.Gbar.GABA * gs.GABA
	drive := ge*(al.ErevE-v) + gi*(nrn.VI-v)
	nrn.ISyn = -drive
	nrn.Vm = v + dt*(drive+nrn.VL-v-nrn.Adapt+nrn.IDC)/al.Tau + noise
}

func (al *AdaptLIF) Decay(nrn *Neuron, dt float32) {
	nrn.Adapt *= mat32.Exp(-dt / al.TauAdapt)
}

func (al *AdaptLIF) OnSpike(nrn *Neuron) {
	nrn.Adapt += al.AdaptIncr
}

func (al *AdaptLIF) Fires() bool { return true }

//////////////////////////////////////////////////////////////////////
//  Generator

// Generator neurons have no dynamics: they spike only when a spike is
// injected, e.g., to present a stimulus.
type Generator struct {
}

func (gn *Generator) Kind() NeuronKinds                                    { return InputNeuron }
func (gn *Generator) Defaults()                                            {}
func (gn *Generator) Update()                                              {}
func (gn *Generator) Validate() error                                      { return nil }
func (gn *Generator) Taum(nrn *Neuron) float32                             { return 1 }
func (gn *Generator) Step(nrn *Neuron, gs *chans.Chans, dt, noise float32) {}
func (gn *Generator) Decay(nrn *Neuron, dt float32)                        {}
func (gn *Generator) OnSpike(nrn *Neuron)                                  {}
func (gn *Generator) Fires() bool                                          { return false }
