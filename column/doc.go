// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package column assembles a reward-trained model of cortical layer 2/3 on the
spike engine, and trains it on a stream of labeled binary patterns.

The anatomy comes from a 17-population model of a full cortical column
(FullColumn): population sizes, target x source connection probability and
strength matrices, membrane parameters and background rates.  Layer23
slices out the four layer 2/3 populations (excitatory, PV, SST, VIP) as a
new Anatomy, leaving the full table untouched.

Build wires the layer into a network:

  - an Input population of generator neurons, one per pattern bit, with
    plastic AMPA synapses onto the excitatory population
  - the recurrent layer 2/3 groups: AMPA (and optionally NMDA) from the
    excitatory population, and GABA with inhibitory homeostasis from the
    three interneuron populations
  - two adapting Output neurons, each predicting one label, fed by plastic
    synapses from the excitatory population and inhibiting each other.

Output spikes release dopamine on the channel of the spiking neuron.  The
Trainer presents one pattern per trial, sets the reward for its label,
merges the expected rewards at the end of the trial, and stops early when
the expected reward shows the column has learned the task or has failed.
*/
package column
