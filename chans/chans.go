// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the synaptic receptor channels for a conductance-based
point neuron: recurrent AMPA, voltage-gated NMDA with magnesium block,
GABA-A inhibition, and external AMPA driven by background input.
Values are either gating variables (dimensionless, summed over incoming
synapses) or maximal conductances in nS, depending on use.
*/
package chans

import "github.com/goki/mat32"

// Chans are the receptor channels driving a point neuron
type Chans struct {
	AMPA float32 `desc:"recurrent AMPA receptors activated by synaptic glutamate"`
	NMDA float32 `desc:"NMDA receptors, subject to voltage-dependent magnesium block"`
	GABA float32 `desc:"GABA-A receptors activated by inhibitory synapses"`
	Ext  float32 `desc:"external AMPA receptors driven by background Poisson input"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(ampa, nmda, gaba, ext float32) {
	ch.AMPA, ch.NMDA, ch.GABA, ch.Ext = ampa, nmda, gaba, ext
}

// Zero sets all values to 0
func (ch *Chans) Zero() {
	ch.AMPA, ch.NMDA, ch.GABA, ch.Ext = 0, 0, 0, 0
}

// Excite returns the total of the glutamatergic channels, weighted by
// the given maximal conductances, with NMDA scaled by the magnesium gate
// (1 for no block).
func (ch *Chans) Excite(gbar *Chans, mgGate float32) float32 {
	return gbar.AMPA*ch.AMPA + gbar.NMDA*ch.NMDA*mgGate + gbar.Ext*ch.Ext
}

// MgBlock parameterizes the voltage dependence of NMDA receptors
// from extracellular magnesium (Jahr & Stevens, 1990).
type MgBlock struct {
	Mg    float32 `def:"1" desc:"extracellular magnesium concentration (mM)"`
	Slope float32 `def:"0.062" desc:"voltage sensitivity of the block (1/mV)"`
	Kd    float32 `def:"3.57" desc:"dissociation constant (mM)"`
}

func (mg *MgBlock) Defaults() {
	mg.Mg = 1
	mg.Slope = 0.062
	mg.Kd = 3.57
}

// Gate returns the fraction of NMDA conductance unblocked at membrane potential v (mV)
func (mg *MgBlock) Gate(v float32) float32 {
	return 1 / (1 + mg.Mg*mat32.Exp(-mg.Slope*v)/mg.Kd)
}

// Receptors holds the kernel time constants of each receptor type, in ms
type Receptors struct {
	TauAMPA      float32 `def:"2" desc:"decay time constant of AMPA conductance"`
	TauGABA      float32 `def:"5" desc:"decay time constant of GABA-A conductance"`
	TauNMDARise  float32 `def:"2" desc:"rise time constant of NMDA conductance"`
	TauNMDADecay float32 `def:"80" desc:"decay time constant of NMDA conductance"`
	NMDAAlpha    float32 `def:"0.5" desc:"NMDA saturation rate (1/ms)"`
}

func (rc *Receptors) Defaults() {
	rc.TauAMPA = 2
	rc.TauGABA = 5
	rc.TauNMDARise = 2
	rc.TauNMDADecay = 80
	rc.NMDAAlpha = 0.5
}
