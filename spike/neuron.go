// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"unsafe"
)

// NeuronVarStart is the byte offset of fields in the Neuron structure
// where the float32 named variables start.
// Note: all non-float32 infrastructure variables must be at the start!
const NeuronVarStart = 8

// spike.Neuron holds the state of one point neuron, including its own copy
// of the membrane parameters so that they can vary across neurons.
// All variables accessible via VarByName must be float32 and follow the
// infrastructure fields, in contiguous order.
type Neuron struct {
	RefEnd  int32 `desc:"tick at which the refractory period ends -- the neuron does not integrate and cannot spike while the current tick is before this"`
	NSpikes int32 `desc:"number of spikes since the last InitState"`

	Vm     float32 `desc:"membrane potential (mV)"`
	Spike  float32 `desc:"1 if the neuron spiked on the current tick, else 0"`
	Thr    float32 `desc:"spike threshold (mV)"`
	Reset  float32 `desc:"potential after a spike (mV)"`
	VL     float32 `desc:"leak reversal (resting) potential (mV)"`
	GL     float32 `desc:"leak conductance (nS)"`
	Cm     float32 `desc:"membrane capacitance (pF)"`
	VI     float32 `desc:"GABA reversal potential (mV)"`
	IDC    float32 `desc:"constant injected current (pA), positive is depolarizing"`
	SExt   float32 `desc:"external AMPA gating, driven by background Poisson input"`
	GeAMPA float32 `desc:"recurrent AMPA gating summed over inputs on the last step"`
	GeNMDA float32 `desc:"NMDA gating summed over inputs on the last step"`
	GiGABA float32 `desc:"GABA gating summed over inputs on the last step"`
	Adapt  float32 `desc:"spike-triggered adaptation (mV), for adapting neurons"`
	ISyn   float32 `desc:"net synaptic current on the last step -- pA, or mV for dimensionless models"`
}

var NeuronVars = []string{"Vm", "Spike", "Thr", "Reset", "VL", "GL", "Cm", "VI", "IDC", "SExt", "GeAMPA", "GeNMDA", "GiGABA", "Adapt", "ISyn"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return 0, err
	}
	return nrn.VarByIndex(i), nil
}

// IsRefractory returns true if the neuron is refractory at the given tick
func (nrn *Neuron) IsRefractory(tick int) bool {
	return tick < int(nrn.RefEnd)
}
