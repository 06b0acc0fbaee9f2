// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"unsafe"
)

// SynapseVarStart is the byte offset of fields in the Synapse structure
// where the float32 named variables start.
const SynapseVarStart = 4

// spike.Synapse holds the state of one edge
type Synapse struct {
	LastTick int32 `desc:"tick of the last pre- or post-synaptic event, from which the pairing traces decay"`

	Wt    float32 `desc:"plastic synaptic weight, kept within the group's weight bounds"`
	Base  float32 `desc:"initial weight: the baseline toward which inhibitory homeostasis relaxes"`
	Hom   float32 `desc:"homeostatic weight offset, added to Wt in the delivered conductance"`
	K     float32 `desc:"conductance kernel, kicked by 1 on each delivered spike"`
	X     float32 `desc:"rise variable of a biexponential kernel"`
	C     float32 `desc:"eligibility trace, converted to weight change by dopamine"`
	APre  float32 `desc:"pre-synaptic pairing trace"`
	APost float32 `desc:"post-synaptic pairing trace"`
}

var SynapseVars = []string{"Wt", "Base", "Hom", "K", "X", "C", "APre", "APost"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(sy)) + uintptr(SynapseVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}

// InitState zeros the dynamic state, keeping the weight and baseline
func (sy *Synapse) InitState() {
	sy.LastTick = 0
	sy.Hom = 0
	sy.K = 0
	sy.X = 0
	sy.C = 0
	sy.APre = 0
	sy.APost = 0
}
