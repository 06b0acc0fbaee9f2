// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import (
	"fmt"
	"strings"

	"github.com/emer/dacolumn/conn"
	"github.com/emer/dacolumn/da"
	"github.com/emer/dacolumn/spike"
	"github.com/emer/etable/minmax"
)

// Config holds the structural parameters of a column, beyond its anatomy
type Config struct {
	NScale       float64 `yaml:"n_scale" def:"1" min:"0" desc:"scaling of the population sizes of the anatomy"`
	Dt           float64 `yaml:"dt" def:"0.1" min:"0" desc:"integration step size (ms)"`
	Hyper        Hyper   `yaml:"hyper" view:"inline" desc:"coefficients of the plastic pathways and reward"`
	NOut         int     `yaml:"n_out" def:"2" min:"1" desc:"number of output neurons = number of labels"`
	InputGain    float32 `yaml:"input_gain" def:"50" min:"0" desc:"gating delivered by input synapses per unit of weight -- drives the excitatory neurons in physical units"`
	OutTau       float32 `yaml:"out_tau" def:"5" min:"0" desc:"decay time constant of the synapses onto the output neurons (ms)"`
	PlasticDelay float32 `yaml:"plastic_delay" def:"1" min:"0" desc:"transmission delay of the plastic pathways and lateral output inhibition (ms)"`
	InhibMaxCoef float32 `yaml:"inhib_max_coef" def:"5" min:"1" desc:"upper bound of inhibitory weights, as a multiple of their anatomical weight"`
	Background   bool    `yaml:"background" def:"true" desc:"drive the layer populations with their background Poisson rates"`
	ParamSet     string  `yaml:"param_set" def:"Base" desc:"name of the ParamSets entry applied before building"`
}

func (cf *Config) Defaults() {
	cf.NScale = 1
	cf.Dt = 0.1
	cf.Hyper.Defaults()
	cf.NOut = 2
	cf.InputGain = 50
	cf.OutTau = 5
	cf.PlasticDelay = 1
	cf.InhibMaxCoef = 5
	cf.Background = true
	cf.ParamSet = "Base"
}

// Validate returns an error wrapping spike.ErrConfig if the config is unusable
func (cf *Config) Validate() error {
	switch {
	case !(cf.NScale > 0):
		return fmt.Errorf("%w: NScale must be > 0, got %v", spike.ErrConfig, cf.NScale)
	case !(cf.Dt > 0):
		return fmt.Errorf("%w: Dt must be > 0, got %v", spike.ErrConfig, cf.Dt)
	case cf.NOut < 1:
		return fmt.Errorf("%w: NOut must be >= 1, got %d", spike.ErrConfig, cf.NOut)
	case !(cf.OutTau > 0):
		return fmt.Errorf("%w: OutTau must be > 0, got %v", spike.ErrConfig, cf.OutTau)
	case cf.InputGain < 0 || cf.PlasticDelay < 0:
		return fmt.Errorf("%w: InputGain %v and PlasticDelay %v must be >= 0", spike.ErrConfig, cf.InputGain, cf.PlasticDelay)
	case cf.InhibMaxCoef < 1:
		return fmt.Errorf("%w: InhibMaxCoef must be >= 1, got %v", spike.ErrConfig, cf.InhibMaxCoef)
	}
	return cf.Hyper.Validate()
}

// Column is an assembled layer 2/3 network with its input, readout and
// reward signal
type Column struct {
	Net      *spike.Network      `desc:"the network"`
	Anat     *Anatomy            `desc:"anatomy of the layer populations"`
	Cfg      Config              `desc:"configuration used to build"`
	Input    *spike.Population   `desc:"generator neurons, one per pattern bit"`
	Layer    []*spike.Population `desc:"layer populations, in anatomy order"`
	Exc      *spike.Population   `desc:"excitatory layer population, receiving the input"`
	Output   *spike.Population   `desc:"output neurons, one per label"`
	InToExc  *spike.SynGroup     `desc:"plastic input pathway"`
	ExcToOut *spike.SynGroup     `desc:"plastic readout pathway"`
	OutToOut *spike.SynGroup     `desc:"lateral inhibition between output neurons"`
	Mod      *da.Modulator       `desc:"reward signal, one channel per output neuron"`
	OutRec   *spike.SpikeRec     `desc:"spikes of the output neurons"`
}

// Build assembles and builds a column for the given anatomy (already
// scaled, e.g. by Layer23) and input dimension, seeded with seed
func Build(cfg *Config, anat *Anatomy, inDim int, seed uint64) (*Column, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := anat.Validate(); err != nil {
		return nil, err
	}
	if inDim < 1 {
		return nil, fmt.Errorf("%w: input dimension must be >= 1, got %d", spike.ErrConfig, inDim)
	}
	exi := -1
	for i := range anat.Pops {
		if anat.IsExc(i) {
			exi = i
			break
		}
	}
	if exi < 0 {
		return nil, fmt.Errorf("%w: anatomy has no excitatory population", spike.ErrConfig)
	}
	hp := &cfg.Hyper
	cl := &Column{Anat: anat, Cfg: *cfg}
	nt := spike.NewNetwork("Column", seed)
	nt.Time.Dt = cfg.Dt
	cl.Net = nt

	cl.Input = nt.AddPop("Input", inDim, spike.InputNeuron)
	cl.Input.Cls = "Input"
	for i, nm := range anat.Pops {
		pop := nt.AddPop(nm, anat.N[i], spike.CondNeuron)
		if anat.IsExc(i) {
			pop.Cls = "Column Exc"
		} else {
			pop.Cls = "Column Inh"
		}
		ac := &pop.Act
		ac.Vm0 = anat.V0[i]
		ac.Thr = anat.Thr[i]
		ac.Reset = anat.Reset[i]
		ac.VL = anat.VL[i]
		ac.VI = anat.VI[i]
		ac.Cm = anat.Cm[i]
		ac.GL = anat.GL[i]
		ac.TauRef = anat.TauRef[i]
		ac.IDC = anat.IDC[i]
		if cfg.Background {
			ac.BgRate = anat.BgRate[i]
		}
		pop.UpdateParams()
		cl.Layer = append(cl.Layer, pop)
	}
	cl.Exc = cl.Layer[exi]

	cl.Output = nt.AddPop("Output", cfg.NOut, spike.AdaptNeuron)
	cl.Output.Cls = "Readout"
	oa := &cl.Output.Act
	oa.Vm0 = -74
	oa.VL = -74
	oa.Reset = -74
	oa.Thr = -54
	oa.TauRef = 5
	oa.VI = -80
	cl.Output.ALIF.Tau = 10
	cl.Output.ALIF.TauAdapt = 50
	cl.Output.ALIF.AdaptIncr = 5
	cl.Output.UpdateParams()

	for ti, tgt := range cl.Layer {
		for si, src := range cl.Layer {
			cl.connectLayer(si, ti, src, tgt)
		}
	}

	wb := minmax.F32{Min: 0, Max: hp.InOutMaxStrength}
	nExc := cl.Exc.N

	cl.InToExc = nt.ConnectPops("InputTo"+cl.Exc.Nm, cl.Input, cl.Exc, conn.FanIn(hp.InConnAvg, nExc), spike.AMPA)
	cl.plastic(cl.InToExc, wb)
	cl.InToExc.GScale = cfg.InputGain
	cl.InToExc.DA = spike.DAMean

	cl.ExcToOut = nt.ConnectPops(cl.Exc.Nm+"ToOutput", cl.Exc, cl.Output, conn.FanIn(hp.OutConnAvg, nExc), spike.AMPA)
	cl.plastic(cl.ExcToOut, wb)
	cl.ExcToOut.Exp.Tau = cfg.OutTau
	cl.ExcToOut.DA = spike.DAPerTarget

	oo := nt.ConnectPops("OutputToOutput", cl.Output, cl.Output, 1, spike.GABA)
	oo.Cls = "Lateral"
	oo.Delay = cfg.PlasticDelay
	oo.Exp.Tau = cfg.OutTau
	oo.WtInit.Mode = spike.WtConst
	oo.WtInit.Mean = hp.PostPredictionInhib
	oo.WtBound = minmax.F32{Min: 0, Max: hp.PostPredictionInhib}
	oo.UpdateParams()
	cl.OutToOut = oo

	cl.Mod = da.New(cfg.NOut)
	cl.Mod.Params.Epsilon = hp.EpsilonDopa
	if err := cl.Mod.Params.Validate(); err != nil {
		return nil, err
	}
	nt.Mod = cl.Mod
	nt.ModPop = cl.Output
	cl.OutRec = spike.NewSpikeRec(nt, cl.Output)

	if cfg.ParamSet != "" {
		if err := ApplyParamSet(nt, cfg.ParamSet); err != nil {
			return nil, err
		}
	}
	if err := nt.Build(); err != nil {
		return nil, err
	}
	return cl, nil
}

// connectLayer adds the recurrent groups from layer population si to ti:
// AMPA (and NMDA, by anatomy proportions) from excitatory populations,
// GABA with inhibitory homeostasis from the others.  Groups with zero
// probability are still created, with no synapses.
func (cl *Column) connectLayer(si, ti int, src, tgt *spike.Population) {
	an := cl.Anat
	nt := cl.Net
	p := an.ConnProb[ti][si]
	s := an.Strength[ti][si]
	nm := src.Nm + "To" + tgt.Nm
	if an.IsExc(si) {
		if an.PropAMPA > 0 {
			w := conn.Weight(an.GlobalG, s, src.N, p, an.PropAMPA)
			cl.static(nt.ConnectPops(nm, src, tgt, p*an.PropAMPA, spike.AMPA), w)
		}
		if an.PropNMDA > 0 {
			w := conn.Weight(an.GlobalG, s, src.N, p, an.PropNMDA)
			cl.static(nt.ConnectPops(nm+"NMDA", src, tgt, p*an.PropNMDA, spike.NMDA), w)
		}
		return
	}
	w := conn.Weight(an.GlobalG, s, src.N, p, 1)
	sg := nt.ConnectPops(nm, src, tgt, p, spike.GABA)
	sg.Cls = "Recurrent"
	sg.Delay = an.Delay
	sg.Learn = spike.InhibLearn
	sg.WtInit.Mode = spike.WtConst
	sg.WtInit.Mean = w
	sg.WtBound = minmax.F32{Min: 0, Max: w * cl.Cfg.InhibMaxCoef}
	sg.UpdateParams()
}

// static configures a fixed recurrent group of weight w
func (cl *Column) static(sg *spike.SynGroup, w float32) {
	sg.Cls = "Recurrent"
	sg.Delay = cl.Anat.Delay
	sg.Learn = spike.NoLearn
	sg.WtInit.Mode = spike.WtConst
	sg.WtInit.Mean = w
	sg.WtBound = minmax.F32{Min: 0, Max: w}
	sg.UpdateParams()
}

// plastic configures a reward-modulated pathway with Gaussian initial weights
func (cl *Column) plastic(sg *spike.SynGroup, wb minmax.F32) {
	hp := &cl.Cfg.Hyper
	sg.Cls = "Plastic"
	sg.Delay = cl.Cfg.PlasticDelay
	sg.Learn = spike.DASTDPLearn
	sg.WtInit.Mode = spike.WtGauss
	sg.WtInit.Mean = hp.WtMean()
	sg.WtInit.Std = hp.WtStd()
	sg.WtBound = wb
	hp.SetSTDP(&sg.STDP)
	sg.UpdateParams()
}

// Populations returns the names of all populations, in network order
func (cl *Column) Populations() []string {
	nms := make([]string, len(cl.Net.Pops))
	for i, pop := range cl.Net.Pops {
		nms[i] = pop.Nm
	}
	return nms
}

// OutSpikes returns the number of spikes of each output neuron since time t0
func (cl *Column) OutSpikes(t0 float64) []int {
	return cl.OutRec.CountSince(t0)
}

// String returns a one-line summary of each population and group
func (cl *Column) String() string {
	var b strings.Builder
	for _, pop := range cl.Net.Pops {
		fmt.Fprintf(&b, "%v\n", pop)
	}
	for _, sg := range cl.Net.Syns {
		fmt.Fprintf(&b, "%v\n", sg)
	}
	return b.String()
}
