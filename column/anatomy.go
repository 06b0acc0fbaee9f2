// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import (
	"fmt"
	"strings"

	"github.com/emer/dacolumn/spike"
	"github.com/goki/mat32"
)

// Anatomy is the population-level description of a cortical circuit.
// Matrices are indexed [target][source].
type Anatomy struct {
	Pops     []string    `desc:"population names -- names ending in E are excitatory"`
	N        []int       `desc:"number of neurons of each population"`
	ConnProb [][]float32 `desc:"connection probability, [target][source]"`
	Strength [][]float32 `desc:"synaptic strength, [target][source]"`
	GlobalG  float32     `def:"5" desc:"global conductance scale (nS)"`
	PropAMPA float32     `def:"1" desc:"proportion of excitatory connections using AMPA receptors"`
	PropNMDA float32     `def:"0" desc:"proportion of excitatory connections using NMDA receptors"`
	Delay    float32     `def:"2" desc:"transmission delay of all recurrent connections (ms)"`
	BgRate   []float32   `desc:"background Poisson rate of each population (Hz)"`
	IDC      []float32   `desc:"DC input to each population (pA)"`
	V0       []float32   `desc:"initial membrane potential (mV)"`
	Thr      []float32   `desc:"spike threshold (mV)"`
	Reset    []float32   `desc:"reset potential (mV)"`
	VL       []float32   `desc:"leak reversal potential (mV)"`
	VI       []float32   `desc:"GABA reversal potential (mV)"`
	Cm       []float32   `desc:"membrane capacitance (pF)"`
	GL       []float32   `desc:"leak conductance (nS)"`
	TauRef   []float32   `desc:"refractory period (ms)"`
}

// NTot is the total number of neurons of the full column
const NTot = 5000

// fraction of NTot in each layer, and of excitatory / inhibitory neurons in each layer
const (
	fracL1  = 0.0192574218
	fracL23 = 0.291088453
	fracL4  = 0.237625904
	fracL5  = 0.17425693
	fracExc = 0.85
	fracInh = 0.15
)

// fullSizes returns the population sizes of the full column of nTot neurons
func fullSizes(nTot float64) []int {
	n1 := fracL1 * nTot
	n23 := fracL23 * nTot
	n4 := fracL4 * nTot
	n5 := fracL5 * nTot
	n6 := nTot - n23 - n4 - n5
	layer := func(n, pv, sst, vip float64) []int {
		return []int{int(fracExc * n), int(pv * fracInh * n), int(sst * fracInh * n), int(vip * fracInh * n)}
	}
	sz := []int{int(n1)}
	sz = append(sz, layer(n23, 0.295918, 0.214286, 0.489796)...)
	sz = append(sz, layer(n4, 0.552381, 0.295238, 0.152381)...)
	sz = append(sz, layer(n5, 0.485714, 0.428571, 0.085714)...)
	sz = append(sz, layer(n6, 0.458333, 0.458333, 0.083333)...)
	return sz
}

// FullColumn returns the anatomy of the 17-population cortical column
func FullColumn() *Anatomy {
	vl := []float32{-65.5, -80.97, -82.35, -69.16, -67.94, -72.53, -70.45, -74.2, -63.14, -68.28, -77.5, -70.01, -72., -77.5, -76.42, -62.99, -78.85}
	an := &Anatomy{
		Pops: []string{"L1VIP", "L23E", "L23PV", "L23SST", "L23VIP", "L4E", "L4PV", "L4SST", "L4VIP", "L5E", "L5PV", "L5SST", "L5VIP", "L6E", "L6PV", "L6SST", "L6VIP"},
		N:    fullSizes(NTot),
		ConnProb: [][]float32{
			{0.656, 0., 0.024, 0.279, 0., 0., 0., 0.241, 0., 0.017, 0., 0.203, 0., 0., 0., 0., 0.},
			{0.356, 0.16, 0.411, 0.424, 0.087, 0.14, 0.25, 0.25, 0.25, 0.021, 0., 0.169, 0., 0., 0.1, 0., 0.},
			{0.093, 0.395, 0.451, 0.857, 0.02, 0.1, 0.05, 0.05, 0.05, 0.05, 0.102, 0., 0., 0., 0., 0., 0.},
			{0.068, 0.182, 0.03, 0.082, 0.625, 0.1, 0.05, 0.05, 0.05, 0.05, 0., 0.017, 0., 0., 0., 0., 0.},
			{0.464, 0.105, 0.22, 0.77, 0.028, 0.1, 0.05, 0.05, 0.05, 0.05, 0., 0., 0., 0., 0., 0., 0.},
			{0.148, 0.016, 0.05, 0.05, 0.05, 0.243, 0.437, 0.351, 0.351, 0.007, 0., 0.056, 0.03, 0., 0.1, 0., 0.},
			{0., 0.083, 0.05, 0.05, 0.05, 0.43, 0.451, 0.857, 0.02, 0.05, 0.034, 0.03, 0.03, 0., 0., 0., 0.},
			{0., 0.083, 0.05, 0.05, 0.05, 0.571, 0.03, 0.082, 0.625, 0.05, 0.03, 0.006, 0.03, 0., 0., 0., 0.},
			{0, 0.083, 0.05, 0.05, 0.05, 0.571, 0.22, 0.77, 0.028, 0.05, 0.03, 0.03, 0.03, 0., 0., 0., 0.},
			{0.148, 0.083, 0.07, 0.021, 0., 0.104, 0.088, 0.026, 0., 0.116, 0.455, 0.317, 0.125, 0.012, 0.1, 0.03, 0.03},
			{0., 0.081, 0.073, 0., 0., 0.101, 0.091, 0.03, 0.03, 0.083, 0.361, 0.857, 0.02, 0.01, 0.03, 0.03, 0.03},
			{0., 0.102, 0., 0., 0., 0.128, 0.03, 0., 0.03, 0.063, 0.03, 0.04, 0.625, 0.01, 0.03, 0.03, 0.03},
			{0., 0., 0., 0., 0., 0.05, 0.03, 0.03, 0.03, 0.105, 0.22, 0.77, 0.02, 0.01, 0.03, 0.03, 0.03},
			{0.148, 0., 0., 0., 0., 0.032, 0., 0., 0., 0.047, 0.03, 0.03, 0.03, 0.026, 0.1, 0.1, 0.1},
			{0., 0., 0., 0., 0., 0., 0., 0., 0., 0.03, 0.01, 0.01, 0.01, 0.145, 0.08, 0.05, 0.05},
			{0., 0., 0., 0., 0., 0., 0., 0., 0., 0.03, 0.01, 0.01, 0.01, 0.1, 0.1, 0.05, 0.05},
			{0., 0., 0., 0., 0., 0., 0., 0., 0., 0.03, 0.01, 0.01, 0.01, 0.1, 0.08, 0.05, 0.03},
		},
		Strength: [][]float32{
			{1.73, 0., 0.37, 0.47, 0., 0., 0., 0.39, 0., 0.76, 0., 0.31, 0., 0., 0., 0., 0.},
			{0.53, 0.36, 0.48, 0.31, 0.28, 0.78, 0.56, 0.3, 0.29, 0.47, 0., 0.25, 0., 0., 0.81, 0., 0.},
			{0.48, 1.49, 0.68, 0.5, 0.18, 1.39, 0.68, 0.5, 0.18, 1.25, 0.51, 0., 0., 0., 0., 0., 0.},
			{0.57, 0.86, 0.42, 0.15, 0.32, 0.69, 0.42, 0.15, 0.32, 0.52, 0., 0.39, 0., 0., 0., 0., 0.},
			{0.78, 1.31, 0.41, 0.52, 0.37, 0.91, 0.41, 0.52, 0.37, 0.91, 0., 0., 0., 0., 0., 0., 0.},
			{0.42, 0.34, 0.56, 0.3, 0.29, 0.83, 0.64, 0.29, 0.29, 0.38, 0., 0.28, 0.29, 0., 0.81, 0., 0.},
			{0., 1.39, 0.68, 0.5, 0.18, 1.29, 0.68, 0.5, 0.18, 1.25, 0.94, 0.45, 0.18, 0., 0., 0., 0.},
			{0., 0.69, 0.42, 0.15, 0.32, 0.51, 0.42, 0.15, 0.32, 0.52, 0.42, 0.28, 0.33, 0., 0., 0., 0.},
			{0., 0.91, 0.41, 0.52, 0.37, 0.51, 0.41, 0.52, 0.37, 0.91, 0.41, 0.52, 0.37, 0., 0., 0., 0.},
			{0.42, 0.74, 0.2, 0.22, 0., 0.63, 0.73, 0.28, 0., 0.75, 0.81, 0.27, 0.28, 0.23, 0.81, 0.27, 0.28},
			{0., 1.32, 0.79, 0., 0., 1.25, 0.94, 0.45, 0.18, 1.2, 1.19, 0.4, 0.18, 2.5, 1.19, 0.4, 0.18},
			{0., 0.53, 0., 0., 0., 0.52, 0.42, 0.28, 0.33, 0.52, 0.41, 0.4, 0.33, 0.52, 0.41, 0.4, 0.33},
			{0., 0., 0., 0., 0., 0.91, 0.41, 0.52, 0.37, 1.31, 0.41, 0.52, 0.37, 1.31, 0.41, 0.52, 0.37},
			{0.42, 0., 0., 0., 0., 0.96, 0., 0., 0., 0.4, 0.81, 0.27, 0.28, 0.94, 0.81, 0.27, 0.28},
			{0., 0., 0., 0., 0., 0., 0., 0., 0., 2.5, 1.19, 0.4, 0.18, 3.8, 1.19, 0.4, 0.18},
			{0., 0., 0., 0., 0., 0., 0., 0., 0., 0.52, 0.41, 0.4, 0.33, 0.52, 0.41, 0.4, 0.33},
			{0., 0., 0., 0., 0., 0., 0., 0., 0., 1.31, 0.41, 0.52, 0.37, 1.31, 0.41, 0.52, 0.37},
		},
		GlobalG:  5,
		PropAMPA: 1,
		PropNMDA: 0,
		Delay:    2,
		BgRate:   []float32{650., 930., 1460., 870., 1405., 890., 1980., 2105., 240., 4740., 930., 530., 870., 1770., 1170., 885., 1620.},
		IDC:      make([]float32, 17),
		V0:       append([]float32(nil), vl...),
		Thr:      []float32{-40.2, -40.53, -56.32, -39.95, -41.34, -47.63, -44.23, -44.07, -40.89, -40.55, -51.2, -47.38, -51.2, -42.31, -49.06, -37.19, -44.81},
		Reset:    append([]float32(nil), vl...),
		VL:       append([]float32(nil), vl...),
		VI:       append([]float32(nil), vl...),
		Cm:       []float32{37.11, 123.41, 70.95, 82.34, 41.23, 80.16, 81.21, 132.86, 40.3, 149.43, 70.9, 52.32, 59.29, 99.96, 49.65, 96.09, 65.87},
		GL:       []float32{4.07, 2.47, 9.49, 3.17, 6.4, 5.16, 9.19, 7.96, 1.87, 16.66, 5.21, 3.43, 6.52, 5.88, 6.86, 2.99, 6.09},
		TauRef:   []float32{3.5, 3., 1.26, 1.85, 2.75, 4.4, 1.5, 2.2, 2.4, 4.25, 1.85, 1.9, 2.55, 3.3, 1.65, 2.1, 2.85},
	}
	return an
}

// NPops returns the number of populations
func (an *Anatomy) NPops() int {
	return len(an.Pops)
}

// IsExc returns true if population i is excitatory
func (an *Anatomy) IsExc(i int) bool {
	return strings.HasSuffix(an.Pops[i], "E")
}

// PopIdx returns the index of the named population, or -1
func (an *Anatomy) PopIdx(name string) int {
	for i, nm := range an.Pops {
		if nm == name {
			return i
		}
	}
	return -1
}

// Validate checks that every table has one entry per population, that the
// matrices are square, and that probabilities and sizes are in range.
// Errors wrap spike.ErrConfig.
func (an *Anatomy) Validate() error {
	np := len(an.Pops)
	if np == 0 {
		return fmt.Errorf("%w: anatomy has no populations", spike.ErrConfig)
	}
	vecs := map[string]int{"N": len(an.N), "BgRate": len(an.BgRate), "IDC": len(an.IDC), "V0": len(an.V0),
		"Thr": len(an.Thr), "Reset": len(an.Reset), "VL": len(an.VL), "VI": len(an.VI), "Cm": len(an.Cm),
		"GL": len(an.GL), "TauRef": len(an.TauRef), "ConnProb": len(an.ConnProb), "Strength": len(an.Strength)}
	for nm, ln := range vecs {
		if ln != np {
			return fmt.Errorf("%w: anatomy %s has %d entries, expected %d", spike.ErrConfig, nm, ln, np)
		}
	}
	for ti := 0; ti < np; ti++ {
		if len(an.ConnProb[ti]) != np || len(an.Strength[ti]) != np {
			return fmt.Errorf("%w: anatomy matrix row %d (%s) is not of length %d", spike.ErrConfig, ti, an.Pops[ti], np)
		}
		if an.N[ti] <= 0 {
			return fmt.Errorf("%w: population %s has size %d", spike.ErrConfig, an.Pops[ti], an.N[ti])
		}
		for si, p := range an.ConnProb[ti] {
			if !(p >= 0 && p <= 1) {
				return fmt.Errorf("%w: connection probability %s -> %s = %v", spike.ErrConfig, an.Pops[si], an.Pops[ti], p)
			}
		}
		for si, s := range an.Strength[ti] {
			if !(s >= 0) || mat32.IsInf(s, 0) {
				return fmt.Errorf("%w: synaptic strength %s -> %s = %v", spike.ErrConfig, an.Pops[si], an.Pops[ti], s)
			}
		}
	}
	if !(an.GlobalG > 0) || mat32.IsInf(an.GlobalG, 0) {
		return fmt.Errorf("%w: global conductance %v must be finite and > 0", spike.ErrConfig, an.GlobalG)
	}
	if !(an.PropAMPA >= 0) || !(an.PropNMDA >= 0) || !(an.PropAMPA+an.PropNMDA > 0) {
		return fmt.Errorf("%w: receptor proportions AMPA %v NMDA %v", spike.ErrConfig, an.PropAMPA, an.PropNMDA)
	}
	if !(an.Delay >= 0) {
		return fmt.Errorf("%w: delay %v", spike.ErrConfig, an.Delay)
	}
	return nil
}

// Slice returns a new Anatomy with populations [st, ed) of an, with sizes
// scaled by nScale (at least one neuron each).  an is not modified.
func (an *Anatomy) Slice(st, ed int, nScale float64) (*Anatomy, error) {
	if st < 0 || ed > len(an.Pops) || st >= ed {
		return nil, fmt.Errorf("%w: anatomy slice [%d, %d) of %d populations", spike.ErrConfig, st, ed, len(an.Pops))
	}
	if !(nScale > 0) {
		return nil, fmt.Errorf("%w: size scale must be > 0, got %v", spike.ErrConfig, nScale)
	}
	vec := func(v []float32) []float32 {
		return append([]float32(nil), v[st:ed]...)
	}
	mat := func(m [][]float32) [][]float32 {
		sm := make([][]float32, ed-st)
		for i := range sm {
			sm[i] = vec(m[st+i])
		}
		return sm
	}
	sl := &Anatomy{
		Pops:     append([]string(nil), an.Pops[st:ed]...),
		N:        make([]int, ed-st),
		ConnProb: mat(an.ConnProb),
		Strength: mat(an.Strength),
		GlobalG:  an.GlobalG,
		PropAMPA: an.PropAMPA,
		PropNMDA: an.PropNMDA,
		Delay:    an.Delay,
		BgRate:   vec(an.BgRate),
		IDC:      vec(an.IDC),
		V0:       vec(an.V0),
		Thr:      vec(an.Thr),
		Reset:    vec(an.Reset),
		VL:       vec(an.VL),
		VI:       vec(an.VI),
		Cm:       vec(an.Cm),
		GL:       vec(an.GL),
		TauRef:   vec(an.TauRef),
	}
	for i := range sl.N {
		n := int(float64(an.N[st+i]) * nScale)
		if n < 1 {
			n = 1
		}
		sl.N[i] = n
	}
	return sl, nil
}

// Layer23 returns the four layer 2/3 populations of the full column, with
// sizes scaled by nScale
func Layer23(full *Anatomy, nScale float64) (*Anatomy, error) {
	if err := full.Validate(); err != nil {
		return nil, err
	}
	st := full.PopIdx("L23E")
	if st < 0 || st+4 > full.NPops() {
		return nil, fmt.Errorf("%w: anatomy has no layer 2/3 populations", spike.ErrConfig)
	}
	return full.Slice(st, st+4, nScale)
}
