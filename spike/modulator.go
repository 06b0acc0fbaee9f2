// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

// Modulator is the neuromodulatory signal read by plastic synapse groups.
// Spikes of the network's modulating population (see Network.ModPop) are
// reported to the channel with the same index as the spiking neuron.
type Modulator interface {
	// NChannels returns the number of channels
	NChannels() int

	// DA returns the current dopamine level of channel ch
	DA(ch int) float32

	// OnSpike reports a qualifying spike for channel ch
	OnSpike(ch int)

	// Step decays all channels by one step of dt ms
	Step(dt float64)
}

// DA returns the dopamine level read by a synapse onto receiving neuron ri
// under the given mode.  mean is the channel mean, computed once per step.
func (dm DAModes) DA(mod Modulator, ch, ri int, mean float32) float32 {
	if mod == nil {
		return 0
	}
	switch dm {
	case DAPerTarget:
		ch = ri
	case DAMean:
		return mean
	case DAChannel:
	default:
		return 0
	}
	if ch < 0 || ch >= mod.NChannels() {
		return 0
	}
	return mod.DA(ch)
}

// ModMean returns the mean dopamine level over all channels of mod
func ModMean(mod Modulator) float32 {
	if mod == nil || mod.NChannels() == 0 {
		return 0
	}
	n := mod.NChannels()
	sum := float32(0)
	for ch := 0; ch < n; ch++ {
		sum += mod.DA(ch)
	}
	return sum / float32(n)
}
