// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import (
	"fmt"

	"github.com/emer/dacolumn/spike"
	"github.com/emer/emergent/params"
)

// ParamSets is the default set of parameters -- Base is always applied, and
// others can be optionally selected to apply on top of that
var ParamSets = params.Sets{
	{Name: "Base", Desc: "these are the best params", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "Population", Desc: "no membrane noise -- variability comes from background input",
				Params: params.Params{
					"Population.Act.Noise": "0",
					"Population.BgTau":     "2",
				}},
			{Sel: "#Output", Desc: "adapting readout neurons",
				Params: params.Params{
					"Population.ALIF.Tau":       "10",
					"Population.ALIF.TauAdapt":  "50",
					"Population.ALIF.AdaptIncr": "5",
				}},
			{Sel: ".DASTDPLearn", Desc: "pairing and eligibility time constants",
				Params: params.Params{
					"SynGroup.STDP.TauPre":  "20",
					"SynGroup.STDP.TauPost": "20",
					"SynGroup.STDP.TauC":    "25",
					"SynGroup.STDP.TauS":    "1",
					"SynGroup.STDP.Hom.Tau": "1000",
				}},
			{Sel: ".InhibLearn", Desc: "excitation-inhibition balance",
				Params: params.Params{
					"SynGroup.Inhib.LRate": "0.05",
					"SynGroup.Inhib.Amp":   "2",
				}},
		},
	}},
	{Name: "NoBg", Desc: "no background input to the layer", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: ".Column", Desc: "background off",
				Params: params.Params{
					"Population.Act.BgRate": "0",
				}},
		},
	}},
	{Name: "NoHom", Desc: "plastic pathways without homeostatic offset", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: ".DASTDPLearn", Desc: "homeostasis off",
				Params: params.Params{
					"SynGroup.STDP.Hom.On": "false",
				}},
		},
	}},
	{Name: "FixedInhib", Desc: "recurrent inhibition without homeostasis", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: ".InhibLearn", Desc: "zero learning rate",
				Params: params.Params{
					"SynGroup.Inhib.LRate": "0",
				}},
		},
	}},
}

// ApplyParamSet applies the Network sheet of Base, and then of the named
// set if it is not Base, to nt
func ApplyParamSet(nt *spike.Network, setNm string) error {
	if err := applySheet(nt, "Base"); err != nil {
		return err
	}
	if setNm == "" || setNm == "Base" {
		return nil
	}
	return applySheet(nt, setNm)
}

func applySheet(nt *spike.Network, setNm string) error {
	pset, err := ParamSets.SetByNameTry(setNm)
	if err != nil {
		return fmt.Errorf("%w: %w", spike.ErrConfig, err)
	}
	sheet, ok := pset.Sheets["Network"]
	if !ok {
		return nil
	}
	if _, err := nt.ApplyParams(sheet, false); err != nil {
		return fmt.Errorf("param set %s: %w", setNm, err)
	}
	return nil
}
