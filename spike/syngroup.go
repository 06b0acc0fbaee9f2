// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"math"

	"github.com/emer/dacolumn/chans"
	"github.com/emer/dacolumn/conn"
	"github.com/emer/emergent/params"
	"github.com/emer/etable/minmax"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// WtInitParams determine the initial weights of a SynGroup
type WtInitParams struct {
	Mode WtInitModes `desc:"how weights are drawn"`
	Mean float32     `desc:"mean weight -- the constant value for WtConst"`
	Std  float32     `viewif:"Mode=WtGauss" desc:"standard deviation of weights for WtGauss"`
}

// spike.SynGroup is a set of synapses from one population to another (or
// itself), sharing a receptor, a transmission delay, a conductance kernel
// and a plasticity rule.  Synapses are stored sending-major: the synapses
// of sending neuron si are Syns[SConIdxSt[si] : SConIdxSt[si]+SConN[si]],
// and RSynIdx maps the receiving-side connection lists into Syns.
type SynGroup struct {
	Nm      string         `desc:"name of the group -- must be unique within the network"`
	Cls     string         `desc:"class(es) for applying parameter styles, space separated"`
	Index   int            `inactive:"+" desc:"index of the group in the network"`
	Send    *Population    `desc:"sending population"`
	Recv    *Population    `desc:"receiving population"`
	Pat     conn.Bernoulli `view:"inline" desc:"connectivity pattern"`
	Rec     Receptors      `desc:"receptor driven in the receiving population"`
	Delay   float32        `def:"2" min:"0" desc:"transmission delay (ms)"`
	WtInit  WtInitParams   `view:"inline" desc:"initial weights"`
	WtBound minmax.F32     `view:"inline" desc:"range of the weights, enforced by plasticity and Gaussian initialization"`
	GScale  float32        `def:"1" desc:"gating delivered per unit of effective weight -- converts learned weights to the units of the receiving model"`
	Exp     ExpKernel      `viewif:"Rec!=NMDA" view:"inline" desc:"conductance kernel of AMPA and GABA synapses"`
	BiExp   BiExpKernel    `viewif:"Rec=NMDA" view:"inline" desc:"conductance kernel of NMDA synapses"`
	Learn   LearnKinds     `desc:"plasticity rule"`
	STDP    DASTDP         `viewif:"Learn=DASTDPLearn" view:"inline" desc:"dopamine-modulated STDP parameters"`
	Inhib   InhibHomeo     `viewif:"Learn=InhibLearn" view:"inline" desc:"inhibitory homeostasis parameters"`
	DA      DAModes        `desc:"which modulator channel the synapses read"`
	DAChan  int            `viewif:"DA=DAChannel" desc:"channel read by DAChannel"`

	Slot      int         `inactive:"+" desc:"input slot registered on the receiving population"`
	Syns      []Synapse   `view:"-" desc:"synapse state, sending-major"`
	SConN     []int32     `view:"-" desc:"number of synapses for each sending neuron"`
	SConIdxSt []int32     `view:"-" desc:"starting index into Syns / SConIdx for each sending neuron"`
	SConIdx   []int32     `view:"-" desc:"receiving neuron index for each synapse, sending-major"`
	RConN     []int32     `view:"-" desc:"number of synapses for each receiving neuron"`
	RConIdxSt []int32     `view:"-" desc:"starting index into RConIdx / RSynIdx for each receiving neuron"`
	RConIdx   []int32     `view:"-" desc:"sending neuron index for each synapse, receiving-major"`
	RSynIdx   []int32     `view:"-" desc:"index into Syns for each synapse, receiving-major"`
	NSyns     int         `inactive:"+" desc:"total number of synapses"`
	RConNMax  int32       `inactive:"+" desc:"maximum number of synapses onto one receiving neuron"`
	SConNMax  int32       `inactive:"+" desc:"maximum number of synapses from one sending neuron"`
	Queue     *Queue      `view:"-" desc:"spikes in transit to this group"`
	dt        float32     // step size, set at Build
	kern      Kernel      // selected by Rec
	learn     Learner     // selected by Learn
	static    StaticLearn // NoLearn
}

// NewSynGroup returns a new synapse group with default parameters
func NewSynGroup(name string, send, recv *Population, p float32, rec Receptors) *SynGroup {
	sg := &SynGroup{Nm: name, Send: send, Recv: recv, Rec: rec}
	sg.Defaults()
	sg.Pat.P = p
	return sg
}

func (sg *SynGroup) Name() string     { return sg.Nm }
func (sg *SynGroup) Label() string    { return sg.Nm }
func (sg *SynGroup) TypeName() string { return "SynGroup" } // type category, for params..
func (sg *SynGroup) Class() string    { return sg.Rec.String() + " " + sg.Learn.String() + " " + sg.Cls }

func (sg *SynGroup) Defaults() {
	var kin chans.Receptors
	kin.Defaults()
	sg.Delay = 2
	sg.WtBound = minmax.F32{Min: 0, Max: 1}
	sg.GScale = 1
	sg.WtInit.Mode = WtConst
	sg.WtInit.Mean = 0.5
	switch sg.Rec {
	case GABA:
		sg.Exp.Tau = kin.TauGABA
	default:
		sg.Exp.Tau = kin.TauAMPA
	}
	sg.BiExp.TauRise = kin.TauNMDARise
	sg.BiExp.TauDecay = kin.TauNMDADecay
	sg.BiExp.Alpha = kin.NMDAAlpha
	sg.STDP.Defaults()
	sg.Inhib.Defaults()
	sg.UpdateParams()
}

// UpdateParams updates derived parameters and selects kernel and learner
func (sg *SynGroup) UpdateParams() {
	sg.STDP.Update()
	if sg.Rec == NMDA {
		sg.kern = &sg.BiExp
	} else {
		sg.kern = &sg.Exp
	}
	switch sg.Learn {
	case DASTDPLearn:
		sg.learn = &sg.STDP
	case InhibLearn:
		sg.learn = &sg.Inhib
	default:
		sg.learn = &sg.static
	}
	if sg.dt > 0 {
		sg.kern.Init(sg.dt)
		sg.learn.Init(sg.dt, sg.WtBound)
	}
}

// Validate returns an error wrapping ErrConfig if the group is misconfigured
func (sg *SynGroup) Validate() error {
	if sg.Send == nil || sg.Recv == nil {
		return fmt.Errorf("%w: synapse group %s: nil population", ErrConfig, sg.Nm)
	}
	if err := sg.Pat.Validate(); err != nil {
		return fmt.Errorf("%w: synapse group %s: %w", ErrConfig, sg.Nm, err)
	}
	if sg.Rec < 0 || sg.Rec >= ReceptorsN || sg.Learn < 0 || sg.Learn >= LearnKindsN || sg.DA < 0 || sg.DA >= DAModesN {
		return fmt.Errorf("%w: synapse group %s: invalid enum value", ErrConfig, sg.Nm)
	}
	if !(sg.Delay >= 0) || math.IsInf(float64(sg.Delay), 0) {
		return fmt.Errorf("%w: synapse group %s: delay must be finite and >= 0, got %v", ErrConfig, sg.Nm, sg.Delay)
	}
	if !(sg.WtBound.Min <= sg.WtBound.Max) || math.IsNaN(float64(sg.WtInit.Mean)) || !(sg.WtInit.Std >= 0) || !(sg.GScale >= 0) {
		return fmt.Errorf("%w: synapse group %s: weight bounds %v init %+v", ErrConfig, sg.Nm, sg.WtBound, sg.WtInit)
	}
	sg.UpdateParams()
	if err := sg.kern.Validate(); err != nil {
		return fmt.Errorf("synapse group %s: %w", sg.Nm, err)
	}
	if err := sg.learn.Validate(); err != nil {
		return fmt.Errorf("synapse group %s: %w", sg.Nm, err)
	}
	return nil
}

// Build validates the group, samples its connectivity, builds the
// connection index tables, registers the input slot on the receiving
// population and initializes the weights.  The receiving population must
// already be built.
func (sg *SynGroup) Build(tm *Time, rnd *rand.Rand) error {
	sg.dt = float32(tm.Dt)
	if err := sg.Validate(); err != nil {
		return err
	}
	es, err := sg.Pat.Connect(sg.Send.N, sg.Recv.N, sg.Send == sg.Recv, rnd)
	if err != nil {
		return fmt.Errorf("%w: synapse group %s: %w", ErrConfig, sg.Nm, err)
	}
	sg.BuildStru(es)
	sg.Syns = make([]Synapse, sg.NSyns)
	sg.Slot = sg.Recv.RegisterInput(sg.Rec, sg.Nm)
	sg.Queue = NewQueue(tm.Dt)
	sg.InitWts(rnd)
	return nil
}

// BuildStru builds the sending and receiving connection index tables from
// the given edges.
func (sg *SynGroup) BuildStru(es *conn.Edges) {
	slen := es.NSend
	rlen := es.NRecv
	tcons := setNIdxSt(&sg.SConN, &sg.SConIdxSt, &sg.SConNMax, es.SendN)
	tconr := setNIdxSt(&sg.RConN, &sg.RConIdxSt, &sg.RConNMax, es.RecvN)
	if tcons != tconr {
		panic(fmt.Sprintf("%v programmer error: total recv cons %v != total send cons %v", sg.String(), tconr, tcons))
	}
	sg.NSyns = int(tcons)
	sg.RConIdx = make([]int32, tconr)
	sg.RSynIdx = make([]int32, tconr)
	sg.SConIdx = make([]int32, tcons)

	sconN := make([]int32, slen) // current n of sending cons
	rconN := make([]int32, rlen)
	es.Pairs(func(si, ri int) {
		rci := sg.RConIdxSt[ri] + rconN[ri]
		sci := sg.SConIdxSt[si] + sconN[si]
		sg.RConIdx[rci] = int32(si)
		sg.SConIdx[sci] = int32(ri)
		sg.RSynIdx[rci] = sci
		sconN[si]++
		rconN[ri]++
	})
}

// setNIdxSt sets the *ConN and *ConIdxSt values from counts.
// Returns total number of connections for this direction.
func setNIdxSt(n, idxst *[]int32, mx *int32, cnt []int32) int32 {
	ln := len(cnt)
	*n = make([]int32, ln)
	*idxst = make([]int32, ln)
	*mx = 0
	idx := int32(0)
	for i, nv := range cnt {
		(*n)[i] = nv
		(*idxst)[i] = idx
		idx += nv
		if nv > *mx {
			*mx = nv
		}
	}
	return idx
}

// InitWts draws the initial weights, sets each baseline to its weight and
// clears the dynamic synapse state and pending spikes
func (sg *SynGroup) InitWts(rnd *rand.Rand) {
	wi := &sg.WtInit
	var nrm distuv.Normal
	gauss := wi.Mode == WtGauss && wi.Std > 0
	if gauss {
		nrm = distuv.Normal{Mu: float64(wi.Mean), Sigma: float64(wi.Std), Src: rnd}
	}
	for i := range sg.Syns {
		sy := &sg.Syns[i]
		if gauss {
			sy.Wt = sg.WtBound.ClipVal(float32(nrm.Rand()))
		} else {
			sy.Wt = wi.Mean
		}
		sy.Base = sy.Wt
	}
	sg.InitState()
}

// InitState clears the dynamic synapse state and pending spikes, keeping weights
func (sg *SynGroup) InitState() {
	for i := range sg.Syns {
		sg.Syns[i].InitState()
	}
	if sg.Queue != nil {
		sg.Queue.Reset()
	}
}

// SendSpikes enqueues the spikes of the given sending neurons, emitted at
// time t, for delivery after the group's delay
func (sg *SynGroup) SendSpikes(spiked []int32, t float64) error {
	for _, si := range spiked {
		if sg.SConN[si] == 0 {
			continue
		}
		err := sg.Queue.Enqueue(SpikeEvent{Pop: sg.Send.Index, Idx: si, Time: t}, float64(sg.Delay))
		if err != nil {
			return fmt.Errorf("synapse group %s: %w", sg.Nm, err)
		}
	}
	return nil
}

// DeliverPre delivers the spikes due at the given tick: each synapse of a
// delivered sending neuron gets the pre-synaptic learning update and a
// kernel kick, in emission order
func (sg *SynGroup) DeliverPre(tick int) {
	evs := sg.Queue.Deliver(tick)
	t32 := int32(tick)
	for _, ev := range evs {
		si := ev.Idx
		st := int(sg.SConIdxSt[si])
		nc := int(sg.SConN[si])
		for ci := 0; ci < nc; ci++ {
			sy := &sg.Syns[st+ci]
			sg.learn.OnPre(sy, t32)
			sg.kern.Kick(sy)
		}
	}
}

// OnPost applies the post-synaptic learning update to all synapses onto
// the given receiving neurons
func (sg *SynGroup) OnPost(spiked []int32, tick int) {
	if !sg.learn.Plastic() {
		return
	}
	t32 := int32(tick)
	for _, ri := range spiked {
		st := int(sg.RConIdxSt[ri])
		nc := int(sg.RConN[ri])
		for ci := 0; ci < nc; ci++ {
			sg.learn.OnPost(&sg.Syns[sg.RSynIdx[st+ci]], t32)
		}
	}
}

// Step adds the conductance of every active synapse, GScale * (Wt + Hom) * K, into
// the receiving population's input slot, then advances the kernels and the
// continuous learning state by one step
func (sg *SynGroup) Step(dt float32, mod Modulator) {
	g := sg.Recv.Slots[sg.Slot].G
	plastic := sg.learn.Plastic()
	mean := float32(0)
	if plastic && sg.DA == DAMean {
		mean = ModMean(mod)
	}
	rlen := len(sg.RConN)
	for ri := 0; ri < rlen; ri++ {
		da := float32(0)
		if plastic {
			da = sg.DA.DA(mod, sg.DAChan, ri, mean)
		}
		st := int(sg.RConIdxSt[ri])
		nc := int(sg.RConN[ri])
		gr := float32(0)
		for ci := 0; ci < nc; ci++ {
			sy := &sg.Syns[sg.RSynIdx[st+ci]]
			if sy.K != 0 || sy.X != 0 {
				gr += (sy.Wt + sy.Hom) * sy.K
				sg.kern.Step(sy, dt)
			}
			if plastic {
				sg.learn.Step(sy, da)
			}
		}
		g[ri] += sg.GScale * gr
	}
}

// WtSum returns the sum of all weights
func (sg *SynGroup) WtSum() float32 {
	sum := float32(0)
	for i := range sg.Syns {
		sum += sg.Syns[i].Wt
	}
	return sum
}

// ApplyParams applies given parameter style Sheet to this group.
// Calls UpdateParams if anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (sg *SynGroup) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(sg, setMsg)
	if app {
		sg.UpdateParams()
	}
	return app, err
}

// String satisfies fmt.Stringer
func (sg *SynGroup) String() string {
	snm, rnm := "<nil>", "<nil>"
	if sg.Send != nil {
		snm = sg.Send.Nm
	}
	if sg.Recv != nil {
		rnm = sg.Recv.Nm
	}
	return fmt.Sprintf("%s: %s -> %s %s %s N=%d", sg.Nm, snm, rnm, sg.Rec, sg.Learn, sg.NSyns)
}
