// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import "github.com/goki/ki/kit"

// NeuronKinds selects the dynamical model of a Population
type NeuronKinds int32

//go:generate stringer -type=NeuronKinds

var KiT_NeuronKinds = kit.Enums.AddEnum(NeuronKindsN, kit.NotBitFlag, nil)

func (ev NeuronKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// CondNeuron is a conductance-based leaky integrate-and-fire neuron in
	// physical units, driven by AMPA, NMDA, GABA and external AMPA receptors.
	CondNeuron NeuronKinds = iota

	// AdaptNeuron is a leaky integrate-and-fire neuron with dimensionless
	// conductances and a spike-triggered adaptation current, used for readout.
	AdaptNeuron

	// InputNeuron has no dynamics and only emits injected spikes.
	InputNeuron

	NeuronKindsN
)

// Receptors are the synaptic receptor types a SynGroup can drive
type Receptors int32

//go:generate stringer -type=Receptors

var KiT_Receptors = kit.Enums.AddEnum(ReceptorsN, kit.NotBitFlag, nil)

func (ev Receptors) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Receptors) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// AMPA is fast glutamatergic excitation with a single exponential kernel
	AMPA Receptors = iota

	// NMDA is slow glutamatergic excitation with a saturating rise / decay kernel
	NMDA

	// GABA is GABA-A inhibition with a single exponential kernel
	GABA

	ReceptorsN
)

// LearnKinds selects the plasticity rule of a SynGroup
type LearnKinds int32

//go:generate stringer -type=LearnKinds

var KiT_LearnKinds = kit.Enums.AddEnum(LearnKindsN, kit.NotBitFlag, nil)

func (ev LearnKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LearnKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoLearn keeps weights fixed
	NoLearn LearnKinds = iota

	// DASTDPLearn is dopamine-gated spike-timing plasticity with homeostasis
	DASTDPLearn

	// InhibLearn is the excitation-inhibition balancing rule for GABA synapses
	InhibLearn

	LearnKindsN
)

// DAModes determine which modulator channel a synapse reads
type DAModes int32

//go:generate stringer -type=DAModes

var KiT_DAModes = kit.Enums.AddEnum(DAModesN, kit.NotBitFlag, nil)

func (ev DAModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *DAModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// DANone ignores the modulator: dopamine is always zero
	DANone DAModes = iota

	// DAPerTarget reads the channel with the same index as the receiving neuron
	DAPerTarget

	// DAMean reads the mean over all channels
	DAMean

	// DAChannel reads the single channel given by DAChan
	DAChannel

	DAModesN
)

// WtInitModes determine how initial weights are drawn
type WtInitModes int32

//go:generate stringer -type=WtInitModes

var KiT_WtInitModes = kit.Enums.AddEnum(WtInitModesN, kit.NotBitFlag, nil)

func (ev WtInitModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *WtInitModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// WtConst sets every weight to Mean
	WtConst WtInitModes = iota

	// WtGauss draws every weight from a normal distribution, clipped to bounds
	WtGauss

	WtInitModesN
)
