// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spike is a fixed-step simulator for networks of spiking point neurons
connected by delayed, plastic synapses.

A Network owns a single Time, a set of Populations of neurons, and the
SynGroups connecting them. Each call to Network.Step advances the clock by one
tick and runs the phases of the loop in a fixed order:

  - every Population integrates its membrane potentials by one explicit Euler
    step, consuming (and zeroing) the synaptic input accumulated on the
    previous tick, then detects threshold crossings and resets the neurons
    that spiked.
  - spikes are reported to the SpikeObservers and, for the modulator source
    population, to the Modulator.
  - every SynGroup enqueues the spikes of its sending population in its own
    delay Queue, applies post-synaptic updates for the spikes of its
    receiving population, and then delivers the events that are due
    (pre-synaptic updates and kernel kicks).
  - every SynGroup advances its conductance kernels and plasticity state and
    adds its conductance into the input slot it registered on the receiving
    population.
  - the Modulator decays, and the Recorders sample.

Neuron and synapse models are selected by kind (NeuronKinds, Receptors,
LearnKinds), each backed by a small struct implementing NeuronModel, Kernel
or Learner. All random draws come from the Network's Rand, seeded from
Network.Seed, so a given seed always yields the same run.
*/
package spike
