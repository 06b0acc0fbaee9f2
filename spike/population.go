// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"

	"github.com/emer/dacolumn/chans"
	"github.com/emer/emergent/params"
	"github.com/goki/mat32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// InputSlot is the synaptic input accumulator registered by one SynGroup on
// its receiving Population: the group adds conductance into G during its
// step, and the population consumes and zeroes G when it integrates.
type InputSlot struct {
	Rec  Receptors `desc:"receptor driven by this input"`
	From string    `desc:"name of the registering synapse group"`
	G    []float32 `view:"-" desc:"gating per receiving neuron accumulated since the last integration"`
}

// spike.Population is a homogeneous group of point neurons sharing a model.
type Population struct {
	Nm      string       `desc:"name of the population -- must be unique within the network"`
	Cls     string       `desc:"class(es) for applying parameter styles, space separated"`
	Index   int          `inactive:"+" desc:"index of the population in the network"`
	N       int          `desc:"number of neurons"`
	Kind    NeuronKinds  `desc:"dynamical model of the neurons"`
	Act     NeuronParams `view:"inline" desc:"membrane parameters, copied into each neuron at InitState"`
	LIF     CondLIF      `viewif:"Kind=CondNeuron" view:"inline" desc:"conductance-based model parameters"`
	ALIF    AdaptLIF     `viewif:"Kind=AdaptNeuron" view:"inline" desc:"adapting model parameters"`
	BgTau   float32      `def:"2" desc:"decay time constant of the external AMPA gating (ms)"`
	Model   NeuronModel  `view:"-" json:"-" desc:"model selected by Kind"`
	Slots   []InputSlot  `view:"-" desc:"registered synaptic inputs, indexed by slot"`
	Neurons []Neuron     `view:"-" desc:"neuron state, one per neuron"`
	Spiked  []int32      `view:"-" desc:"indices of the neurons that spiked on the current tick, ascending"`

	gen    Generator
	dt     float64
	inject *Queue
	bg     distuv.Poisson
	noise  distuv.Normal
	gs     chans.Chans
}

// NewPopulation returns a new population with default parameters
func NewPopulation(name string, n int, kind NeuronKinds) *Population {
	pop := &Population{Nm: name, N: n, Kind: kind}
	pop.Defaults()
	return pop
}

func (pop *Population) Name() string     { return pop.Nm }
func (pop *Population) Label() string    { return pop.Nm }
func (pop *Population) TypeName() string { return "Population" } // type category, for params..
func (pop *Population) Class() string    { return pop.Kind.String() + " " + pop.Cls }

func (pop *Population) Defaults() {
	pop.Act.Defaults()
	pop.LIF.Defaults()
	pop.ALIF.Defaults()
	pop.BgTau = 2
	if pop.Kind == InputNeuron {
		pop.Act.TauRef = 0
	}
	pop.UpdateParams()
}

// UpdateParams updates derived parameters and selects the model for Kind
func (pop *Population) UpdateParams() {
	pop.Act.Update()
	switch pop.Kind {
	case AdaptNeuron:
		pop.Model = &pop.ALIF
	case InputNeuron:
		pop.Model = &pop.gen
	default:
		pop.Model = &pop.LIF
	}
	pop.Model.Update()
	if pop.dt > 0 {
		pop.bg.Lambda = float64(pop.Act.BgRate) * pop.dt / 1000
	}
}

// Validate returns an error wrapping ErrConfig if the population is misconfigured
func (pop *Population) Validate() error {
	if pop.N <= 0 {
		return fmt.Errorf("%w: population %s: size must be > 0, got %d", ErrConfig, pop.Nm, pop.N)
	}
	if pop.Kind < 0 || pop.Kind >= NeuronKindsN {
		return fmt.Errorf("%w: population %s: invalid kind %d", ErrConfig, pop.Nm, pop.Kind)
	}
	if !(pop.BgTau > 0) {
		return fmt.Errorf("%w: population %s: BgTau must be > 0, got %v", ErrConfig, pop.Nm, pop.BgTau)
	}
	if err := pop.Act.Validate(); err != nil {
		return fmt.Errorf("population %s: %w", pop.Nm, err)
	}
	pop.UpdateParams()
	if err := pop.Model.Validate(); err != nil {
		return fmt.Errorf("population %s: %w", pop.Nm, err)
	}
	return nil
}

// Build validates the parameters and allocates the neurons.  Any input
// slots registered by a previous build are cleared.
func (pop *Population) Build(tm *Time, rnd *rand.Rand) error {
	if err := pop.Validate(); err != nil {
		return err
	}
	pop.Neurons = make([]Neuron, pop.N)
	pop.Spiked = make([]int32, 0, pop.N)
	pop.Slots = nil
	pop.dt = tm.Dt
	pop.inject = NewQueue(tm.Dt)
	pop.bg = distuv.Poisson{Lambda: float64(pop.Act.BgRate) * tm.Dt / 1000, Src: rnd}
	pop.noise = distuv.Normal{Mu: 0, Sigma: 1, Src: rnd}
	pop.InitState()
	return nil
}

// RegisterInput allocates a new input slot for the given receptor, returning
// its index.  Called once per receiving synapse group during network build.
func (pop *Population) RegisterInput(rec Receptors, from string) int {
	pop.Slots = append(pop.Slots, InputSlot{Rec: rec, From: from, G: make([]float32, pop.N)})
	return len(pop.Slots) - 1
}

// InitState initializes the neurons from Act and clears all pending input
func (pop *Population) InitState() {
	for ni := range pop.Neurons {
		pop.Act.InitNeuron(&pop.Neurons[ni])
	}
	for si := range pop.Slots {
		g := pop.Slots[si].G
		for i := range g {
			g[i] = 0
		}
	}
	pop.Spiked = pop.Spiked[:0]
	if pop.inject != nil {
		pop.inject.Reset()
	}
}

// Inject schedules a forced spike of neuron idx at time t (ms), which must
// fall on a tick after the current one.  The spike is dropped if the neuron
// is refractory at that tick.
func (pop *Population) Inject(tm *Time, idx int, t float64) error {
	if pop.inject == nil {
		return fmt.Errorf("population %s: inject before Build", pop.Nm)
	}
	if idx < 0 || idx >= pop.N {
		return fmt.Errorf("population %s: inject index %d out of range [0, %d)", pop.Nm, idx, pop.N)
	}
	if tick := tm.TickOf(t); tick <= tm.Tick {
		return fmt.Errorf("population %s: %w: inject tick %d <= current %d", pop.Nm, ErrPast, tick, tm.Tick)
	}
	return pop.inject.Enqueue(SpikeEvent{Pop: pop.Index, Idx: int32(idx), Time: t}, 0)
}

// Integrate advances all non-refractory neurons by one step, consuming and
// zeroing the synaptic input in all slots, and updates background input.
func (pop *Population) Integrate(tm *Time) {
	dt := float32(tm.Dt)
	bgDecay := mat32.Exp(-dt / pop.BgTau)
	bgOn := pop.Act.BgRate > 0
	noiseOn := pop.Act.Noise > 0
	for ni := range pop.Neurons {
		nrn := &pop.Neurons[ni]
		gs := &pop.gs
		gs.Zero()
		for si := range pop.Slots {
			sl := &pop.Slots[si]
			switch sl.Rec {
			case AMPA:
				gs.AMPA += sl.G[ni]
			case NMDA:
				gs.NMDA += sl.G[ni]
			case GABA:
				gs.GABA += sl.G[ni]
			}
			sl.G[ni] = 0
		}
		gs.Ext = nrn.SExt
		nrn.GeAMPA, nrn.GeNMDA, nrn.GiGABA = gs.AMPA, gs.NMDA, gs.GABA
		if !nrn.IsRefractory(tm.Tick) {
			noise := float32(0)
			if noiseOn {
				noise = pop.Act.Noise * mat32.Sqrt(2*dt/pop.Model.Taum(nrn)) * float32(pop.noise.Rand())
			}
			pop.Model.Step(nrn, gs, dt, noise)
		}
		pop.Model.Decay(nrn, dt)
		nrn.SExt *= bgDecay
		if bgOn {
			nrn.SExt += float32(pop.bg.Rand())
		}
	}
}

// DetectSpikes finds the neurons at or above threshold, merges in the spikes
// injected for the current tick, and resets every neuron that spiked.
// Returns the spiking indices in ascending order: the slice is reused on
// the next call.
func (pop *Population) DetectSpikes(tm *Time) []int32 {
	tick := tm.Tick
	fires := pop.Model.Fires()
	for ni := range pop.Neurons {
		nrn := &pop.Neurons[ni]
		nrn.Spike = 0
		if fires && !nrn.IsRefractory(tick) && nrn.Vm >= nrn.Thr {
			nrn.Spike = 1
		}
	}
	for _, ev := range pop.inject.Deliver(tick) {
		nrn := &pop.Neurons[ev.Idx]
		if !nrn.IsRefractory(tick) {
			nrn.Spike = 1
		}
	}
	refTicks := int32(tm.Ticks(float64(pop.Act.TauRef)))
	pop.Spiked = pop.Spiked[:0]
	for ni := range pop.Neurons {
		nrn := &pop.Neurons[ni]
		if nrn.Spike == 0 {
			continue
		}
		nrn.Vm = nrn.Reset
		nrn.RefEnd = int32(tick) + refTicks
		nrn.NSpikes++
		pop.Model.OnSpike(nrn)
		pop.Spiked = append(pop.Spiked, int32(ni))
	}
	return pop.Spiked
}

// SpikeCount returns the total number of spikes since the last InitState
func (pop *Population) SpikeCount() int {
	n := 0
	for ni := range pop.Neurons {
		n += int(pop.Neurons[ni].NSpikes)
	}
	return n
}

// UnitVal returns the value of the given variable for neuron idx
func (pop *Population) UnitVal(varNm string, idx int) (float32, error) {
	if idx < 0 || idx >= len(pop.Neurons) {
		return 0, fmt.Errorf("population %s: neuron index %d out of range", pop.Nm, idx)
	}
	return pop.Neurons[idx].VarByName(varNm)
}

// UnitVals fills vals with the value of the given variable for all neurons
func (pop *Population) UnitVals(vals *[]float32, varNm string) error {
	vidx, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	if cap(*vals) < pop.N {
		*vals = make([]float32, pop.N)
	}
	*vals = (*vals)[:pop.N]
	for ni := range pop.Neurons {
		(*vals)[ni] = pop.Neurons[ni].VarByIndex(vidx)
	}
	return nil
}

// ApplyParams applies given parameter style Sheet to this population.
// Calls UpdateParams if anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (pop *Population) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(pop, setMsg)
	if app {
		pop.UpdateParams()
	}
	return app, err
}

// String satisfies fmt.Stringer
func (pop *Population) String() string {
	return fmt.Sprintf("%s: %s N=%d", pop.Nm, pop.Kind, pop.N)
}
