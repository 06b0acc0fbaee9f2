// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package da provides the dopamine reward signal for reward-modulated
plasticity.

A Modulator has one Channel per output neuron.  At each trial boundary the
trainer sets the reward of every channel (SetReward).  Within a trial, each
spike of an output neuron releases dopamine on its channel in proportion to
the surprise (reward minus expected reward), signed by the channel polarity,
and moves the expected reward toward the reward.  Dopamine decays
exponentially with TauD.

At the end of a trial UpdateExpectedReward merges the expectations of the
first two channels, which predict opposite labels, into a shared
anti-correlated baseline.
*/
package da
