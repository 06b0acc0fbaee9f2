// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import (
	"fmt"

	"github.com/emer/dacolumn/spike"
	"github.com/goki/mat32"
)

// Hyper are the coefficients that scale the plastic pathways of the column
// (input to excitatory, excitatory to output) and the reward signal.
// Defaults are the best values found by search over these coefficients.
type Hyper struct {
	InConnAvg           float32 `yaml:"in_conn_avg" def:"29.3778" min:"0" desc:"average number of excitatory neurons each input neuron connects to"`
	OutConnAvg          float32 `yaml:"out_conn_avg" def:"35.538" min:"0" desc:"average number of excitatory neurons connecting to each output neuron"`
	WeightCoef          float32 `yaml:"weight_coef" def:"0.37619" min:"0" desc:"mean initial plastic weight, as a fraction of InOutMaxStrength"`
	WeightStdCoef       float32 `yaml:"weight_std_coef" def:"0.25" min:"0" desc:"standard deviation of initial plastic weights, as a fraction of the mean"`
	InOutMaxStrength    float32 `yaml:"in_out_max_strength" def:"0.51439" min:"0" desc:"upper bound of plastic weights and of their homeostatic offset"`
	PostPredictionInhib float32 `yaml:"post_prediction_inhib" def:"0.26743" min:"0" desc:"weight of the lateral inhibition between output neurons"`
	EpsilonDopa         float32 `yaml:"epsilon_dopa" def:"0.0015636" min:"0" desc:"magnitude of the reward"`
	HomAddCoef          float32 `yaml:"hom_add_coef" def:"18.7717" min:"0" desc:"homeostatic increment = InOutMaxStrength / HomAddCoef"`
	HomSubtractCoef     float32 `yaml:"hom_subtract_coef" def:"3.1378" min:"0" desc:"homeostatic decrement, as a multiple of the increment"`
	GMaxCoef            float32 `yaml:"gmax_coef" def:"0.17484" min:"0" desc:"bound of the eligibility trace, as a fraction of InOutMaxStrength"`
	DACoef              float32 `yaml:"da_coef" def:"0.12411" min:"0" desc:"pre-synaptic trace increment, as a fraction of the eligibility bound"`
}

func (hp *Hyper) Defaults() {
	hp.InConnAvg = 29.377815
	hp.OutConnAvg = 35.537957
	hp.WeightCoef = 0.37619052
	hp.WeightStdCoef = 0.25
	hp.InOutMaxStrength = 0.5143908
	hp.PostPredictionInhib = 0.26743356
	hp.EpsilonDopa = 0.0015635841
	hp.HomAddCoef = 18.771657
	hp.HomSubtractCoef = 3.1377985
	hp.GMaxCoef = 0.1748403
	hp.DACoef = 0.12410622
}

// Validate returns an error wrapping spike.ErrConfig for negative or
// non-finite coefficients, or zero divisors
func (hp *Hyper) Validate() error {
	vals := []struct {
		nm string
		v  float32
	}{
		{"InConnAvg", hp.InConnAvg}, {"OutConnAvg", hp.OutConnAvg}, {"WeightCoef", hp.WeightCoef},
		{"WeightStdCoef", hp.WeightStdCoef}, {"InOutMaxStrength", hp.InOutMaxStrength},
		{"PostPredictionInhib", hp.PostPredictionInhib}, {"EpsilonDopa", hp.EpsilonDopa},
		{"HomAddCoef", hp.HomAddCoef}, {"HomSubtractCoef", hp.HomSubtractCoef},
		{"GMaxCoef", hp.GMaxCoef}, {"DACoef", hp.DACoef},
	}
	for _, v := range vals {
		if !(v.v >= 0) || mat32.IsInf(v.v, 0) {
			return fmt.Errorf("%w: hyperparameter %s = %v", spike.ErrConfig, v.nm, v.v)
		}
	}
	if hp.HomAddCoef == 0 {
		return fmt.Errorf("%w: hyperparameter HomAddCoef must be > 0", spike.ErrConfig)
	}
	return nil
}

// WtMean is the mean initial weight of the plastic pathways
func (hp *Hyper) WtMean() float32 { return hp.WeightCoef * hp.InOutMaxStrength }

// WtStd is the standard deviation of the initial plastic weights
func (hp *Hyper) WtStd() float32 { return hp.WeightStdCoef * hp.WtMean() }

// HomAdd is the homeostatic increment on each delivered spike
func (hp *Hyper) HomAdd() float32 { return hp.InOutMaxStrength / hp.HomAddCoef }

// CMax is the bound of the eligibility trace
func (hp *Hyper) CMax() float32 { return hp.GMaxCoef * hp.InOutMaxStrength }

// DAPre is the pre-synaptic trace increment; the post-synaptic increment
// is -1.05 times this, so uncorrelated firing depresses slightly.
func (hp *Hyper) DAPre() float32 { return hp.DACoef * hp.CMax() }

func (hp *Hyper) DAPost() float32 { return -1.05 * hp.DAPre() }

// SetSTDP sets the plastic parameters of ls from the coefficients
func (hp *Hyper) SetSTDP(ls *spike.DASTDP) {
	ls.DAPre = hp.DAPre()
	ls.DAPost = hp.DAPost()
	ls.CMax = hp.CMax()
	ls.Hom.On = true
	ls.Hom.Add = hp.HomAdd()
	ls.Hom.SubCoef = hp.HomSubtractCoef
	ls.Hom.Max = hp.InOutMaxStrength
	ls.Update()
}
