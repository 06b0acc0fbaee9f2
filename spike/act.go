// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"

	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the per-population neuron parameters

// spike.NeuronParams are the membrane parameters shared by the neurons of a
// Population.  They are copied into each Neuron by InitState, after which
// individual neurons can be modified.
type NeuronParams struct {
	Vm0    float32 `def:"-70" desc:"initial membrane potential (mV)"`
	Thr    float32 `def:"-50" desc:"spike threshold (mV) -- a spike occurs when Vm reaches or exceeds this"`
	Reset  float32 `def:"-70" desc:"membrane potential after a spike (mV)"`
	VL     float32 `def:"-70" desc:"leak reversal potential (mV)"`
	GL     float32 `def:"10" min:"0" desc:"leak conductance (nS)"`
	Cm     float32 `def:"200" min:"0" desc:"membrane capacitance (pF)"`
	TauRef float32 `def:"2" min:"0" desc:"refractory period after a spike (ms), rounded to whole ticks"`
	VI     float32 `def:"-80" desc:"reversal potential of GABA receptors (mV)"`
	IDC    float32 `desc:"constant injected current (pA), positive is depolarizing"`
	Noise  float32 `min:"0" desc:"standard deviation of membrane noise (mV), as an Ornstein-Uhlenbeck term scaled by the membrane time constant -- 0 = none"`
	BgRate float32 `min:"0" desc:"rate (Hz) of independent background Poisson input to each neuron's external AMPA receptors -- 0 = none"`
}

func (np *NeuronParams) Defaults() {
	np.Vm0 = -70
	np.Thr = -50
	np.Reset = -70
	np.VL = -70
	np.GL = 10
	np.Cm = 200
	np.TauRef = 2
	np.VI = -80
	np.IDC = 0
	np.Noise = 0
	np.BgRate = 0
}

// Update must be called after any changes to parameters
func (np *NeuronParams) Update() {
}

// Validate returns an error wrapping ErrConfig for any parameter that
// is physically meaningless.
func (np *NeuronParams) Validate() error {
	vals := []float32{np.Vm0, np.Thr, np.Reset, np.VL, np.GL, np.Cm, np.TauRef, np.VI, np.IDC, np.Noise, np.BgRate}
	for _, v := range vals {
		if mat32.IsNaN(v) || mat32.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite neuron parameter in %+v", ErrConfig, *np)
		}
	}
	switch {
	case np.Cm <= 0:
		return fmt.Errorf("%w: membrane capacitance Cm must be > 0, got %v", ErrConfig, np.Cm)
	case np.GL <= 0:
		return fmt.Errorf("%w: leak conductance GL must be > 0, got %v", ErrConfig, np.GL)
	case np.TauRef < 0:
		return fmt.Errorf("%w: refractory period TauRef must be >= 0, got %v", ErrConfig, np.TauRef)
	case np.Thr <= np.Reset:
		return fmt.Errorf("%w: threshold %v must be above reset %v", ErrConfig, np.Thr, np.Reset)
	case np.Noise < 0:
		return fmt.Errorf("%w: Noise must be >= 0, got %v", ErrConfig, np.Noise)
	case np.BgRate < 0:
		return fmt.Errorf("%w: BgRate must be >= 0, got %v", ErrConfig, np.BgRate)
	}
	return nil
}

// InitNeuron sets the neuron parameters and initial state
func (np *NeuronParams) InitNeuron(nrn *Neuron) {
	nrn.RefEnd = 0
	nrn.NSpikes = 0
	nrn.Vm = np.Vm0
	nrn.Spike = 0
	nrn.Thr = np.Thr
	nrn.Reset = np.Reset
	nrn.VL = np.VL
	nrn.GL = np.GL
	nrn.Cm = np.Cm
	nrn.VI = np.VI
	nrn.IDC = np.IDC
	nrn.SExt = 0
	nrn.GeAMPA = 0
	nrn.GeNMDA = 0
	nrn.GiGABA = 0
	nrn.Adapt = 0
	nrn.ISyn = 0
}
