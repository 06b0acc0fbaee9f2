// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/timer"
	"golang.org/x/exp/rand"
)

// spike.Network is a set of populations and the synapse groups between
// them, advanced in lock step by a shared clock.  All random draws, from
// connectivity sampling to background input, come from Rand.
type Network struct {
	Nm       string                 `desc:"overall name of network -- helps discriminate if there are multiple"`
	Time     Time                   `desc:"simulation clock shared by all components"`
	Pops     []*Population          `desc:"populations, in update order"`
	Syns     []*SynGroup            `desc:"synapse groups, in update order"`
	Mod      Modulator              `view:"-" desc:"neuromodulator read by plastic synapse groups -- may be nil"`
	ModPop   *Population            `desc:"population whose spikes are reported to Mod, neuron index = channel"`
	Recs     []Recorder             `view:"-" desc:"recorders sampled after each step"`
	Obs      []SpikeObserver        `view:"-" desc:"observers notified of the spikes of each population"`
	Seed     uint64                 `desc:"seed of Rand"`
	Rand     *rand.Rand             `view:"-" desc:"source of all random draws"`
	Built    bool                   `inactive:"+" desc:"true after a successful Build"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function (step of processing)"`
	popMap   map[string]*Population
	synMap   map[string]*SynGroup
}

// NewNetwork returns a new empty network seeded with seed
func NewNetwork(name string, seed uint64) *Network {
	nt := &Network{Nm: name, Seed: seed}
	nt.Time.Defaults()
	nt.Rand = rand.New(rand.NewSource(seed))
	nt.FunTimes = make(map[string]*timer.Time)
	nt.popMap = make(map[string]*Population)
	nt.synMap = make(map[string]*SynGroup)
	return nt
}

func (nt *Network) Name() string { return nt.Nm }

// AddPop adds a new population with default parameters
func (nt *Network) AddPop(name string, n int, kind NeuronKinds) *Population {
	pop := NewPopulation(name, n, kind)
	pop.Index = len(nt.Pops)
	nt.Pops = append(nt.Pops, pop)
	nt.popMap[name] = pop
	nt.Built = false
	return pop
}

// ConnectPops adds a new synapse group from send to recv with connection
// probability p, driving the given receptor
func (nt *Network) ConnectPops(name string, send, recv *Population, p float32, rec Receptors) *SynGroup {
	sg := NewSynGroup(name, send, recv, p, rec)
	sg.Index = len(nt.Syns)
	nt.Syns = append(nt.Syns, sg)
	nt.synMap[name] = sg
	nt.Built = false
	return sg
}

// PopByName returns a population by name, or nil
func (nt *Network) PopByName(name string) *Population {
	return nt.popMap[name]
}

// SynByName returns a synapse group by name, or nil
func (nt *Network) SynByName(name string) *SynGroup {
	return nt.synMap[name]
}

// Build validates the configuration, allocates all neurons, samples the
// connectivity of each synapse group and initializes the weights.
// Returns the first configuration error, wrapping ErrConfig.
func (nt *Network) Build() error {
	nt.Built = false
	if err := nt.Time.Validate(); err != nil {
		return err
	}
	if len(nt.popMap) != len(nt.Pops) || len(nt.synMap) != len(nt.Syns) {
		return fmt.Errorf("%w: network %s: duplicate population or synapse group names", ErrConfig, nt.Nm)
	}
	for _, pop := range nt.Pops {
		if err := pop.Build(&nt.Time, nt.Rand); err != nil {
			return err
		}
	}
	for _, sg := range nt.Syns {
		if nt.popMap[sg.Send.Nm] != sg.Send || nt.popMap[sg.Recv.Nm] != sg.Recv {
			return fmt.Errorf("%w: synapse group %s: populations not in network %s", ErrConfig, sg.Nm, nt.Nm)
		}
		if err := sg.Build(&nt.Time, nt.Rand); err != nil {
			return err
		}
	}
	if nt.ModPop != nil && nt.popMap[nt.ModPop.Nm] != nt.ModPop {
		return fmt.Errorf("%w: modulating population %s not in network %s", ErrConfig, nt.ModPop.Nm, nt.Nm)
	}
	nt.Built = true
	return nil
}

// InitWts redraws all weights and resets the network state
func (nt *Network) InitWts() {
	for _, sg := range nt.Syns {
		sg.InitWts(nt.Rand)
	}
	nt.InitState()
}

// InitState resets the clock, neuron state, synapse dynamic state and
// pending spikes, keeping the weights.  Recorders and observers are reset.
func (nt *Network) InitState() {
	nt.Time.Reset()
	for _, pop := range nt.Pops {
		pop.InitState()
	}
	for _, sg := range nt.Syns {
		sg.InitState()
	}
	for _, rc := range nt.Recs {
		rc.Reset()
	}
	for _, ob := range nt.Obs {
		ob.Reset()
	}
}

// AddRecorder adds a recorder sampled after each step
func (nt *Network) AddRecorder(rc Recorder) {
	nt.Recs = append(nt.Recs, rc)
}

// AddObserver adds an observer notified of all spikes
func (nt *Network) AddObserver(ob SpikeObserver) {
	nt.Obs = append(nt.Obs, ob)
}

// Inject schedules a forced spike of neuron idx of pop at time t (ms),
// which must fall after the current tick
func (nt *Network) Inject(pop *Population, idx int, t float64) error {
	return pop.Inject(&nt.Time, idx, t)
}

// Step advances the network by one tick:
//   - the clock advances
//   - every population integrates its input and detects its spikes,
//     notifying observers and the modulator
//   - every synapse group enqueues the spikes of its sending population,
//     applies post-synaptic updates for the spikes of its receiving
//     population, and delivers the spikes due at this tick
//   - every synapse group adds its conductance into its input slot and
//     advances kernels and learning state
//   - the modulator decays and recorders sample the new state.
func (nt *Network) Step() error {
	if !nt.Built {
		return fmt.Errorf("network %s: Step before Build", nt.Nm)
	}
	tm := &nt.Time
	tm.Inc()
	tick := tm.Tick
	t := tm.T()

	nt.FunTimerStart("Integrate")
	for _, pop := range nt.Pops {
		pop.Integrate(tm)
	}
	for _, pop := range nt.Pops {
		sp := pop.DetectSpikes(tm)
		if len(sp) == 0 {
			continue
		}
		for _, ob := range nt.Obs {
			ob.Spikes(pop.Index, sp, t)
		}
		if pop == nt.ModPop && nt.Mod != nil {
			nch := nt.Mod.NChannels()
			for _, ni := range sp {
				if int(ni) < nch {
					nt.Mod.OnSpike(int(ni))
				}
			}
		}
	}
	nt.FunTimerStop("Integrate")

	nt.FunTimerStart("Deliver")
	for _, sg := range nt.Syns {
		if err := sg.SendSpikes(sg.Send.Spiked, t); err != nil {
			nt.FunTimerStop("Deliver")
			return err
		}
	}
	for _, sg := range nt.Syns {
		sg.OnPost(sg.Recv.Spiked, tick)
	}
	for _, sg := range nt.Syns {
		sg.DeliverPre(tick)
	}
	nt.FunTimerStop("Deliver")

	nt.FunTimerStart("SynStep")
	dt := float32(tm.Dt)
	for _, sg := range nt.Syns {
		sg.Step(dt, nt.Mod)
	}
	if nt.Mod != nil {
		nt.Mod.Step(tm.Dt)
	}
	nt.FunTimerStop("SynStep")

	for _, rc := range nt.Recs {
		rc.Record(nt)
	}
	return nil
}

// RunTicks runs n steps, stopping at the first error
func (nt *Network) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if err := nt.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run runs for the given duration (ms), rounded to the nearest tick
func (nt *Network) Run(dur float64) error {
	return nt.RunTicks(nt.Time.Ticks(dur))
}

// ApplyParams applies given parameter style Sheet to populations and synapse groups.
// returns true if any params were set, and error if there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, pop := range nt.Pops {
		app, err := pop.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	for _, sg := range nt.Syns {
		app, err := sg.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// SizeReport returns a string reporting the size of
// each population and synapse group, and overall.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, pop := range nt.Pops {
		nn := len(pop.Neurons)
		nmem := nn * int(unsafe.Sizeof(Neuron{}))
		for si := range pop.Slots {
			nmem += 4 * len(pop.Slots[si].G)
		}
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", pop.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, sg := range nt.Syns {
			if sg.Send != pop {
				continue
			}
			ns := len(sg.Syns)
			syn += ns
			pmem := ns*int(unsafe.Sizeof(Synapse{})) + 4*(len(sg.SConIdx)+len(sg.RConIdx)+len(sg.RSynIdx))
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynnMem: %v\n", sg.Recv.Nm, ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (nt *Network) FunTimerStart(fun string) {
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}

// TimerReport writes a report of times used for each function
func (nt *Network) TimerReport(w io.Writer) {
	fmt.Fprintf(w, "TimerReport: %v\n", nt.Nm)
	fmt.Fprintf(w, "\t%13s \t%7s\t%7s\n", "Function Name", "Secs", "Pct")
	fnms := make([]string, 0, len(nt.FunTimes))
	for k := range nt.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	secs := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		secs[i] = nt.FunTimes[fn].TotalSecs()
		tot += secs[i]
	}
	for i, fn := range fnms {
		pct := 0.0
		if tot > 0 {
			pct = 100 * secs[i] / tot
		}
		fmt.Fprintf(w, "\t%13s \t%7.3f\t%7.1f\n", fn, secs[i], pct)
	}
	fmt.Fprintf(w, "\t%13s \t%7.3f\n", "Total", tot)
}
