// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package da

import (
	"errors"
	"fmt"
	"math"

	"github.com/goki/mat32"
)

// ErrChannels is returned when a reward vector does not match the channels
var ErrChannels = errors.New("da: number of reward values does not match number of channels")

// Params are the dynamics of the dopamine signal
type Params struct {
	TauD    float32 `def:"25" min:"0" desc:"decay time constant of dopamine (ms)"`
	ExpRate float32 `def:"0.25" min:"0" max:"1" desc:"rate at which expected reward moves toward the reward, on each qualifying spike"`
	Epsilon float32 `def:"0.01" min:"0" desc:"magnitude of the reward -- expected reward is reported normalized by this"`
}

func (dp *Params) Defaults() {
	dp.TauD = 25
	dp.ExpRate = 0.25
	dp.Epsilon = 1e-2
}

// Validate returns an error for meaningless parameters
func (dp *Params) Validate() error {
	if !(dp.TauD > 0) || !(dp.Epsilon > 0) || dp.ExpRate < 0 || dp.ExpRate > 1 {
		return fmt.Errorf("da: invalid params %+v", *dp)
	}
	return nil
}

// Channel is the dopamine state associated with one output neuron
type Channel struct {
	Reward   float32 `desc:"reward for the current trial"`
	Expected float32 `desc:"expected reward, a running average of Reward over qualifying spikes"`
	DA       float32 `desc:"current dopamine level"`
	Polarity float32 `def:"1,-1" desc:"sign applied to the surprise -- +1 for a neuron rewarded by positive reward, -1 for negative"`
}

// Modulator is a set of dopamine channels sharing Params.
// It implements spike.Modulator.
type Modulator struct {
	Params Params    `view:"inline" desc:"dynamics of the dopamine signal"`
	Chans  []Channel `desc:"one channel per output neuron"`
	decay  float32
	decDt  float64
}

// New returns a new modulator with n channels and default params.
// Channel polarities alternate +1, -1, starting at channel 0.
func New(n int) *Modulator {
	md := &Modulator{}
	md.Params.Defaults()
	md.Chans = make([]Channel, n)
	for i := range md.Chans {
		md.Chans[i].Polarity = 1
		if i%2 == 1 {
			md.Chans[i].Polarity = -1
		}
	}
	return md
}

// Init resets rewards, expectations and dopamine, keeping polarities
func (md *Modulator) Init() {
	for i := range md.Chans {
		ch := &md.Chans[i]
		ch.Reward, ch.Expected, ch.DA = 0, 0, 0
	}
	md.decDt = 0
}

func (md *Modulator) NChannels() int { return len(md.Chans) }

func (md *Modulator) DA(ch int) float32 { return md.Chans[ch].DA }

// SetReward sets the reward of every channel, once per trial boundary
func (md *Modulator) SetReward(vals []float32) error {
	if len(vals) != len(md.Chans) {
		return fmt.Errorf("%w: got %d, have %d", ErrChannels, len(vals), len(md.Chans))
	}
	for i, v := range vals {
		md.Chans[i].Reward = v
	}
	return nil
}

// SetRewardAll sets the same reward on every channel
func (md *Modulator) SetRewardAll(v float32) {
	for i := range md.Chans {
		md.Chans[i].Reward = v
	}
}

// OnSpike releases dopamine on channel ch in proportion to the surprise,
// then moves the expected reward toward the reward
func (md *Modulator) OnSpike(ch int) {
	c := &md.Chans[ch]
	c.DA += c.Polarity * (c.Reward - c.Expected)
	c.Expected += md.Params.ExpRate * (c.Reward - c.Expected)
}

// Step decays dopamine on all channels by one step of dt ms
func (md *Modulator) Step(dt float64) {
	if dt != md.decDt {
		md.decDt = dt
		md.decay = float32(math.Exp(-dt / float64(md.Params.TauD)))
	}
	for i := range md.Chans {
		md.Chans[i].DA *= md.decay
	}
}

// Merge combines the expectations of two channels predicting opposite
// labels: e0 is positive when the first predicts well, e1 negative when
// the second does.  Returns (c, -c) with c = (e0 - e1) / 2.
func Merge(e0, e1 float32) (float32, float32) {
	c := (e0 - e1) / 2
	return c, -c
}

// UpdateExpectedReward merges the expectations of channels 0 and 1 at a
// trial boundary and returns the shared baseline (the new channel 0 value).
// With fewer than two channels the expectation of channel 0 is returned
// unchanged.
func (md *Modulator) UpdateExpectedReward() float32 {
	if len(md.Chans) < 2 {
		return md.ExpectedReward()
	}
	md.Chans[0].Expected, md.Chans[1].Expected = Merge(md.Chans[0].Expected, md.Chans[1].Expected)
	return md.Chans[0].Expected
}

// ExpectedReward returns the expected reward of channel 0
func (md *Modulator) ExpectedReward() float32 {
	if len(md.Chans) == 0 {
		return 0
	}
	return md.Chans[0].Expected
}

// Normalized returns the expected reward of channel 0 divided by Epsilon
func (md *Modulator) Normalized() float32 {
	if md.Params.Epsilon == 0 {
		return 0
	}
	return md.ExpectedReward() / md.Params.Epsilon
}

// MaxDA returns the largest absolute dopamine level over channels
func (md *Modulator) MaxDA() float32 {
	mx := float32(0)
	for i := range md.Chans {
		mx = mat32.Max(mx, mat32.Abs(md.Chans[i].DA))
	}
	return mx
}

// String satisfies fmt.Stringer
func (md *Modulator) String() string {
	return fmt.Sprintf("da: expected %.4g (%.3g normalized) channels %+v", md.ExpectedReward(), md.Normalized(), md.Chans)
}
