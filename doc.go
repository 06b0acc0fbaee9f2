// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dacolumn is the overall repository for a spiking model of a cortical
column that learns to classify binary patterns with dopamine-modulated
spike-timing-dependent plasticity.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* spike: the simulation engine: clock, populations of conductance-based
leaky integrate-and-fire neurons, synapse groups with conduction delays,
synaptic kernels and plasticity rules, the lock-step network loop and recorders.

* chans, conn, da: receptor channels, Bernoulli connectivity with the
strength-to-weight rule, and the per-channel dopamine reward signal.

* stim: encoding of labeled binary patterns into timed input spikes.

* column: the anatomy of the 17-population column and its layer 2/3 slice,
assembly of the trained network, and the trial Trainer with early stopping.

* config, logging, store: YAML experiment configuration, leveled logging and
trial traces, and persistence of run outcomes in memory or SQLite.

* cmd/dacol: the command-line program that trains columns over one or more seeds.
*/
package dacolumn
