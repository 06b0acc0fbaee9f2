// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"

	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  learn.go contains the synaptic plasticity rules

// Learner is a synaptic plasticity rule.  Event updates are applied when a
// spike is delivered to the synapse (OnPre) or the receiving neuron spikes
// (OnPost); Step advances the continuous state once per tick.  Every update
// clips the weight to the group's bounds.
type Learner interface {
	// Init sets the step size (ms) and weight bounds used by the rule
	Init(dt float32, wb minmax.F32)

	// Plastic is false for rules that never change any synapse state
	Plastic() bool

	// OnPre applies the update for a spike delivered at the given tick
	OnPre(sy *Synapse, tick int32)

	// OnPost applies the update for a spike of the receiving neuron
	OnPost(sy *Synapse, tick int32)

	// Step advances the continuous state by one tick, given the dopamine level
	Step(sy *Synapse, da float32)

	// Validate returns an error wrapping ErrConfig for invalid parameters
	Validate() error
}

// StaticLearn keeps weights fixed
type StaticLearn struct {
}

func (sl *StaticLearn) Init(dt float32, wb minmax.F32) {}
func (sl *StaticLearn) Plastic() bool                  { return false }
func (sl *StaticLearn) OnPre(sy *Synapse, tick int32)  {}
func (sl *StaticLearn) OnPost(sy *Synapse, tick int32) {}
func (sl *StaticLearn) Step(sy *Synapse, da float32)   {}
func (sl *StaticLearn) Validate() error                { return nil }

//////////////////////////////////////////////////////////////////////
//  DASTDP

// HomeoParams control the homeostatic weight offset of DASTDP: a bounded
// term that grows with each delivered spike and shrinks with each spike of
// the receiving neuron, keeping drive within range.
type HomeoParams struct {
	On      bool    `desc:"enable the homeostatic offset"`
	Add     float32 `viewif:"On" def:"0.05" desc:"increment on each delivered spike"`
	SubCoef float32 `viewif:"On" def:"2" desc:"decrement on each receiving spike, as a multiple of Add"`
	Max     float32 `viewif:"On" def:"1" desc:"offset is clipped to [0, Max]"`
	Tau     float32 `viewif:"On" def:"1000" desc:"decay time constant of the offset (ms) -- 0 = no decay"`
	Sub     float32 `inactive:"+" desc:"decrement on each receiving spike = Add * SubCoef"`
}

func (hp *HomeoParams) Defaults() {
	hp.On = true
	hp.Add = 0.05
	hp.SubCoef = 2
	hp.Max = 1
	hp.Tau = 1000
	hp.Update()
}

func (hp *HomeoParams) Update() {
	hp.Sub = hp.Add * hp.SubCoef
}

// DASTDP is dopamine-modulated spike-timing-dependent plasticity.
// Pre / post pairings accumulate in an eligibility trace C through two
// exponentially decaying pairing traces, evaluated in closed form between
// events; the weight then changes by dW/dt = C * DA / TauS.
type DASTDP struct {
	TauPre  float32     `def:"20" min:"0" desc:"decay time constant of the pre-synaptic pairing trace (ms)"`
	TauPost float32     `def:"20" min:"0" desc:"decay time constant of the post-synaptic pairing trace (ms)"`
	DAPre   float32     `def:"0.05" desc:"increment of the pre-synaptic trace on each delivered spike"`
	DAPost  float32     `def:"-0.0525" desc:"increment of the post-synaptic trace on each receiving spike -- typically negative"`
	CMax    float32     `def:"0.5" min:"0" desc:"eligibility trace is clipped to [-CMax, CMax]"`
	TauC    float32     `def:"25" min:"0" desc:"decay time constant of the eligibility trace (ms)"`
	TauS    float32     `def:"1" min:"0" desc:"time constant of dopamine-gated weight change (ms) -- smaller is faster learning"`
	Hom     HomeoParams `view:"inline" desc:"homeostatic weight offset"`

	dt       float32
	cDecay   float32
	homDecay float32
	wb       minmax.F32
}

func (ls *DASTDP) Defaults() {
	ls.TauPre = 20
	ls.TauPost = 20
	ls.DAPre = 0.05
	ls.DAPost = -0.0525
	ls.CMax = 0.5
	ls.TauC = 25
	ls.TauS = 1
	ls.Hom.Defaults()
}

func (ls *DASTDP) Update() {
	ls.Hom.Update()
}

func (ls *DASTDP) Validate() error {
	if !(ls.TauPre > 0) || !(ls.TauPost > 0) || !(ls.TauC > 0) || !(ls.TauS > 0) {
		return fmt.Errorf("%w: DASTDP time constants must be > 0: %v %v %v %v", ErrConfig, ls.TauPre, ls.TauPost, ls.TauC, ls.TauS)
	}
	if ls.CMax < 0 || (ls.Hom.On && (ls.Hom.Max < 0 || ls.Hom.Tau < 0)) {
		return fmt.Errorf("%w: DASTDP bounds must be >= 0: CMax %v Hom %+v", ErrConfig, ls.CMax, ls.Hom)
	}
	return nil
}

func (ls *DASTDP) Init(dt float32, wb minmax.F32) {
	ls.Update()
	ls.dt = dt
	ls.wb = wb
	ls.cDecay = mat32.Exp(-dt / ls.TauC)
	ls.homDecay = 1
	if ls.Hom.Tau > 0 {
		ls.homDecay = mat32.Exp(-dt / ls.Hom.Tau)
	}
}

func (ls *DASTDP) Plastic() bool { return true }

// decayTraces brings the pairing traces up to the given tick
func (ls *DASTDP) decayTraces(sy *Synapse, tick int32) {
	if el := float32(tick-sy.LastTick) * ls.dt; el > 0 {
		sy.APre *= mat32.Exp(-el / ls.TauPre)
		sy.APost *= mat32.Exp(-el / ls.TauPost)
	}
	sy.LastTick = tick
}

func (ls *DASTDP) clipC(c float32) float32 {
	return mat32.Max(-ls.CMax, mat32.Min(ls.CMax, c))
}

func (ls *DASTDP) clipHom(h float32) float32 {
	return mat32.Max(0, mat32.Min(ls.Hom.Max, h))
}

func (ls *DASTDP) OnPre(sy *Synapse, tick int32) {
	sy.Wt = ls.wb.ClipVal(sy.Wt)
	ls.decayTraces(sy, tick)
	sy.APre += ls.DAPre
	sy.C = ls.clipC(sy.C + sy.APost)
	if ls.Hom.On {
		sy.Hom = ls.clipHom(sy.Hom + ls.Hom.Add)
	}
}

func (ls *DASTDP) OnPost(sy *Synapse, tick int32) {
	ls.decayTraces(sy, tick)
	sy.APost += ls.DAPost
	sy.C = ls.clipC(sy.C + sy.APre)
	if ls.Hom.On {
		sy.Hom = ls.clipHom(sy.Hom - ls.Hom.Sub)
	}
}

func (ls *DASTDP) Step(sy *Synapse, da float32) {
	if da != 0 && sy.C != 0 {
		sy.Wt = ls.wb.ClipVal(sy.Wt + ls.dt*sy.C*da/ls.TauS)
	}
	sy.C *= ls.cDecay
	if ls.Hom.On {
		sy.Hom *= ls.homDecay
	}
}

//////////////////////////////////////////////////////////////////////
//  InhibHomeo

// InhibHomeo balances excitation and inhibition on GABA synapses: each
// delivered spike weakens the synapse and each spike of the receiving neuron
// strengthens it, both by steps that shrink exponentially as the weight moves
// away from its baseline in that direction.
type InhibHomeo struct {
	LRate float32 `def:"0.05" desc:"learning rate: step size at the baseline"`
	Amp   float32 `def:"2" min:"0" desc:"distance from baseline over which the step size changes by a factor of e"`

	wb minmax.F32
}

func (ih *InhibHomeo) Defaults() {
	ih.LRate = 0.05
	ih.Amp = 2
}

func (ih *InhibHomeo) Validate() error {
	if !(ih.Amp > 0) || ih.LRate < 0 {
		return fmt.Errorf("%w: InhibHomeo %+v", ErrConfig, *ih)
	}
	return nil
}

func (ih *InhibHomeo) Init(dt float32, wb minmax.F32) {
	ih.wb = wb
}

func (ih *InhibHomeo) Plastic() bool { return true }

func (ih *InhibHomeo) OnPre(sy *Synapse, tick int32) {
	sy.Wt = ih.wb.ClipVal(sy.Wt - ih.LRate*mat32.Exp((sy.Wt-sy.Base)/ih.Amp))
}

func (ih *InhibHomeo) OnPost(sy *Synapse, tick int32) {
	sy.Wt = ih.wb.ClipVal(sy.Wt + ih.LRate*mat32.Exp(-(sy.Wt-sy.Base)/ih.Amp))
}

func (ih *InhibHomeo) Step(sy *Synapse, da float32) {}
