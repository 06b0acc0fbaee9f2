// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/goki/gi/gi"
)

// Recorder samples network state after each step.  Record must only read
// the network.
type Recorder interface {
	// Record samples the network after a completed step
	Record(nt *Network)

	// Reset discards everything recorded
	Reset()
}

// SpikeObserver is notified synchronously of the spikes of each population
// on every step in which it has any.  The idxs slice is owned by the
// population: it must not be modified or retained after the call returns.
type SpikeObserver interface {
	// Spikes reports the ascending indices of the neurons of population pop
	// that spiked at time t
	Spikes(pop int, idxs []int32, t float64)

	// Reset discards everything recorded
	Reset()
}

//////////////////////////////////////////////////////////////////////
//  SpikeRec

// SpikeRec records the spikes of one population as (time, neuron) pairs
type SpikeRec struct {
	Pop    *Population `desc:"recorded population"`
	Times  []float64   `desc:"spike times (ms), non-decreasing"`
	Idxs   []int32     `desc:"spiking neuron index, parallel to Times"`
	Counts []int32     `desc:"number of spikes of each neuron"`
}

// NewSpikeRec returns a new recorder for pop, registered on nt
func NewSpikeRec(nt *Network, pop *Population) *SpikeRec {
	sr := &SpikeRec{Pop: pop, Counts: make([]int32, pop.N)}
	nt.AddObserver(sr)
	return sr
}

func (sr *SpikeRec) Spikes(pop int, idxs []int32, t float64) {
	if pop != sr.Pop.Index {
		return
	}
	for _, ni := range idxs {
		sr.Times = append(sr.Times, t)
		sr.Idxs = append(sr.Idxs, ni)
		sr.Counts[ni]++
	}
}

func (sr *SpikeRec) Reset() {
	sr.Times = sr.Times[:0]
	sr.Idxs = sr.Idxs[:0]
	for i := range sr.Counts {
		sr.Counts[i] = 0
	}
}

// N returns the total number of recorded spikes
func (sr *SpikeRec) N() int {
	return len(sr.Times)
}

// CountSince returns the number of spikes of each neuron at or after time t0
func (sr *SpikeRec) CountSince(t0 float64) []int {
	cnt := make([]int, sr.Pop.N)
	for i := len(sr.Times) - 1; i >= 0 && sr.Times[i] >= t0; i-- {
		cnt[sr.Idxs[i]]++
	}
	return cnt
}

// Rate returns the mean firing rate (Hz) per neuron over [t0, t1)
func (sr *SpikeRec) Rate(t0, t1 float64) float64 {
	if t1 <= t0 || sr.Pop.N == 0 {
		return 0
	}
	n := 0
	for _, t := range sr.Times {
		if t >= t0 && t < t1 {
			n++
		}
	}
	return 1000 * float64(n) / ((t1 - t0) * float64(sr.Pop.N))
}

// Table returns the recorded spikes as a table with Time and Unit columns
func (sr *SpikeRec) Table() *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", sr.Pop.Nm+"Spikes")
	dt.SetMetaData("desc", "spike times of population "+sr.Pop.Nm)
	dt.SetFromSchema(etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"Unit", etensor.INT64, nil, nil},
	}, len(sr.Times))
	for i, t := range sr.Times {
		dt.SetCellFloat("Time", i, t)
		dt.SetCellFloat("Unit", i, float64(sr.Idxs[i]))
	}
	return dt
}

// SaveCSV saves the recorded spikes to a comma-separated file with headers
func (sr *SpikeRec) SaveCSV(fn gi.FileName) error {
	return sr.Table().SaveCSV(fn, etable.Comma, etable.Headers)
}

//////////////////////////////////////////////////////////////////////
//  StateRec

// StateRec samples named variables of selected neurons of a population, or
// of selected synapses of a synapse group, every Every ticks
type StateRec struct {
	Nm    string      `desc:"name of the recording"`
	Pop   *Population `desc:"recorded population -- nil if recording a synapse group"`
	Syn   *SynGroup   `desc:"recorded synapse group -- nil if recording a population"`
	Vars  []string    `desc:"recorded variable names"`
	Units []int       `desc:"recorded neuron or synapse indices"`
	Every int         `desc:"sampling interval in ticks"`
	Times []float64   `desc:"sample times (ms)"`
	Vals  []float32   `desc:"samples, time-major, then variable, then unit"`
	vidx  []int
}

// NewStateRec returns a new recorder of the given neuron variables of pop,
// registered on nt.  Units nil records all neurons.
func NewStateRec(nt *Network, pop *Population, vars []string, units []int, every int) (*StateRec, error) {
	sr := &StateRec{Nm: pop.Nm, Pop: pop, Vars: vars, Every: every}
	for _, v := range vars {
		vi, err := NeuronVarIdxByName(v)
		if err != nil {
			return nil, err
		}
		sr.vidx = append(sr.vidx, vi)
	}
	if units == nil {
		units = make([]int, pop.N)
		for i := range units {
			units[i] = i
		}
	}
	for _, ui := range units {
		if ui < 0 || ui >= pop.N {
			return nil, fmt.Errorf("%w: state recorder %s: unit %d out of range", ErrConfig, sr.Nm, ui)
		}
	}
	sr.Units = units
	if err := sr.validEvery(); err != nil {
		return nil, err
	}
	nt.AddRecorder(sr)
	return sr, nil
}

// NewSynStateRec returns a new recorder of the given synapse variables of
// sg, registered on nt.  Synapse indices are sending-major and the group
// must be built.
func NewSynStateRec(nt *Network, sg *SynGroup, vars []string, syns []int, every int) (*StateRec, error) {
	sr := &StateRec{Nm: sg.Nm, Syn: sg, Vars: vars, Units: syns, Every: every}
	for _, v := range vars {
		vi, err := SynapseVarByName(v)
		if err != nil {
			return nil, err
		}
		sr.vidx = append(sr.vidx, vi)
	}
	for _, si := range syns {
		if si < 0 || si >= len(sg.Syns) {
			return nil, fmt.Errorf("%w: state recorder %s: synapse %d out of range", ErrConfig, sr.Nm, si)
		}
	}
	if err := sr.validEvery(); err != nil {
		return nil, err
	}
	nt.AddRecorder(sr)
	return sr, nil
}

func (sr *StateRec) validEvery() error {
	if sr.Every <= 0 {
		return fmt.Errorf("%w: state recorder %s: Every must be > 0, got %d", ErrConfig, sr.Nm, sr.Every)
	}
	return nil
}

func (sr *StateRec) Record(nt *Network) {
	if nt.Time.Tick%sr.Every != 0 {
		return
	}
	sr.Times = append(sr.Times, nt.Time.T())
	for _, vi := range sr.vidx {
		for _, ui := range sr.Units {
			if sr.Syn != nil {
				sr.Vals = append(sr.Vals, sr.Syn.Syns[ui].VarByIndex(vi))
			} else {
				sr.Vals = append(sr.Vals, sr.Pop.Neurons[ui].VarByIndex(vi))
			}
		}
	}
}

func (sr *StateRec) Reset() {
	sr.Times = sr.Times[:0]
	sr.Vals = sr.Vals[:0]
}

// Series returns the samples of one variable for one recorded unit, given
// as the position of the unit in Units
func (sr *StateRec) Series(varNm string, ui int) ([]float32, error) {
	vp := -1
	for i, v := range sr.Vars {
		if v == varNm {
			vp = i
			break
		}
	}
	if vp < 0 {
		return nil, fmt.Errorf("state recorder %s: variable %s not recorded", sr.Nm, varNm)
	}
	if ui < 0 || ui >= len(sr.Units) {
		return nil, fmt.Errorf("state recorder %s: unit position %d out of range", sr.Nm, ui)
	}
	nu := len(sr.Units)
	stride := len(sr.Vars) * nu
	ser := make([]float32, len(sr.Times))
	for ti := range sr.Times {
		ser[ti] = sr.Vals[ti*stride+vp*nu+ui]
	}
	return ser, nil
}

// Table returns the samples in long format, one row per time, variable
// and unit, with columns Time, Var, Unit, Value
func (sr *StateRec) Table() *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", sr.Nm+"State")
	dt.SetFromSchema(etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"Var", etensor.STRING, nil, nil},
		{"Unit", etensor.INT64, nil, nil},
		{"Value", etensor.FLOAT64, nil, nil},
	}, len(sr.Vals))
	row := 0
	for _, t := range sr.Times {
		for _, v := range sr.Vars {
			for _, ui := range sr.Units {
				dt.SetCellFloat("Time", row, t)
				dt.SetCellString("Var", row, v)
				dt.SetCellFloat("Unit", row, float64(ui))
				dt.SetCellFloat("Value", row, float64(sr.Vals[row]))
				row++
			}
		}
	}
	return dt
}

// SaveCSV saves the samples to a comma-separated file with headers
func (sr *StateRec) SaveCSV(fn gi.FileName) error {
	return sr.Table().SaveCSV(fn, etable.Comma, etable.Headers)
}

//////////////////////////////////////////////////////////////////////
//  RateRec

// RateRec records the mean firing rate of a population in bins of Bin ms
type RateRec struct {
	Pop   *Population `desc:"recorded population"`
	Bin   float64     `desc:"bin width (ms)"`
	Rates []float64   `desc:"mean rate per neuron (Hz) of each completed bin"`
	ticks int
	cnt   int
	nbin  int
}

// NewRateRec returns a new rate recorder for pop, registered on nt
func NewRateRec(nt *Network, pop *Population, bin float64) (*RateRec, error) {
	nb := nt.Time.Ticks(bin)
	if nb <= 0 {
		return nil, fmt.Errorf("%w: rate recorder %s: bin %v shorter than a tick", ErrConfig, pop.Nm, bin)
	}
	rr := &RateRec{Pop: pop, Bin: float64(nb) * nt.Time.Dt, nbin: nb}
	nt.AddRecorder(rr)
	return rr, nil
}

func (rr *RateRec) Record(nt *Network) {
	rr.cnt += len(rr.Pop.Spiked)
	rr.ticks++
	if rr.ticks < rr.nbin {
		return
	}
	rr.Rates = append(rr.Rates, 1000*float64(rr.cnt)/(rr.Bin*float64(rr.Pop.N)))
	rr.ticks = 0
	rr.cnt = 0
}

func (rr *RateRec) Reset() {
	rr.Rates = rr.Rates[:0]
	rr.ticks = 0
	rr.cnt = 0
}

// Table returns the binned rates with columns Time (bin end, ms) and Rate
func (rr *RateRec) Table() *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", rr.Pop.Nm+"Rate")
	dt.SetFromSchema(etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"Rate", etensor.FLOAT64, nil, nil},
	}, len(rr.Rates))
	for i, r := range rr.Rates {
		dt.SetCellFloat("Time", i, float64(i+1)*rr.Bin)
		dt.SetCellFloat("Rate", i, r)
	}
	return dt
}
