// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stim encodes labeled binary patterns as spike injections into an
// input population: one trial per pattern presentation, in which each active
// bit fires its input neuron a fixed number of times.
package stim

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPattern is wrapped by errors for malformed or inconsistent patterns
var ErrPattern = errors.New("stim: invalid pattern")

// Sample is one labeled binary input pattern
type Sample struct {
	Pattern []bool `desc:"active input neurons"`
	Label   int    `desc:"target class"`
}

// ParsePattern parses a string of '0' and '1' characters
func ParsePattern(s string) ([]bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrPattern)
	}
	pat := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			pat[i] = true
		default:
			return nil, fmt.Errorf("%w: %q: character %q at %d", ErrPattern, s, c, i)
		}
	}
	return pat, nil
}

// ParseSample parses a pattern string into a Sample with the given label
func ParseSample(pat string, label int) (Sample, error) {
	p, err := ParsePattern(pat)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Pattern: p, Label: label}, nil
}

// String returns the pattern as '0' / '1' characters followed by the label
func (sm Sample) String() string {
	var b strings.Builder
	for _, on := range sm.Pattern {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	fmt.Fprintf(&b, ":%d", sm.Label)
	return b.String()
}

// Dim returns the common pattern length of the samples, or an error if
// they differ or there are none
func Dim(samples []Sample) (int, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: no samples", ErrPattern)
	}
	dim := len(samples[0].Pattern)
	for i, sm := range samples {
		if len(sm.Pattern) != dim {
			return 0, fmt.Errorf("%w: sample %d has length %d, expected %d", ErrPattern, i, len(sm.Pattern), dim)
		}
	}
	return dim, nil
}

// Injection is a forced spike of one input neuron, at a time relative to
// the start of its trial (ms)
type Injection struct {
	Idx  int
	Time float64
}

// Trial is one presentation of a sample
type Trial struct {
	Index  int         `desc:"position in the stream"`
	Start  float64     `desc:"start time relative to the stream start (ms)"`
	Label  int         `desc:"target class"`
	Sample Sample      `desc:"presented sample"`
	Spikes []Injection `desc:"injections, ordered by time then neuron"`
}

// Encoder presents each pattern for Duration ms.  Every active bit fires
// Exposures times, evenly spaced over the first half of the window.
type Encoder struct {
	Duration  float64 `def:"100" min:"0" desc:"duration of one trial (ms)"`
	Exposures int     `def:"10" min:"1" desc:"number of times each active input fires per trial"`
}

func (en *Encoder) Defaults() {
	en.Duration = 100
	en.Exposures = 10
}

// Validate returns an error for a non-positive duration or exposure count
func (en *Encoder) Validate() error {
	if !(en.Duration > 0) || en.Exposures < 1 {
		return fmt.Errorf("stim: invalid encoder: duration %v exposures %d", en.Duration, en.Exposures)
	}
	return nil
}

// Offset returns the time of exposure e within a trial (ms)
func (en *Encoder) Offset(e int) float64 {
	return float64(e) / float64(en.Exposures) / 2 * en.Duration
}

// Encode returns the injections of one sample, relative to its trial start
func (en *Encoder) Encode(sm Sample) []Injection {
	var inj []Injection
	for e := 0; e < en.Exposures; e++ {
		off := en.Offset(e)
		for i, on := range sm.Pattern {
			if on {
				inj = append(inj, Injection{Idx: i, Time: off})
			}
		}
	}
	return inj
}

// Stream returns the trials presenting the samples in order, repeat times
func (en *Encoder) Stream(samples []Sample, repeat int) ([]Trial, error) {
	if err := en.Validate(); err != nil {
		return nil, err
	}
	if _, err := Dim(samples); err != nil {
		return nil, err
	}
	if repeat < 1 {
		return nil, fmt.Errorf("stim: repeat must be >= 1, got %d", repeat)
	}
	trials := make([]Trial, 0, repeat*len(samples))
	for r := 0; r < repeat; r++ {
		for _, sm := range samples {
			idx := len(trials)
			trials = append(trials, Trial{
				Index:  idx,
				Start:  float64(idx) * en.Duration,
				Label:  sm.Label,
				Sample: sm,
				Spikes: en.Encode(sm),
			})
		}
	}
	return trials, nil
}

// Balanced returns n samples of the given dimension alternating between two
// complementary prototype patterns, labeled 0 and 1.  Bit i of the label-0
// prototype is on when i%3 != 1.
func Balanced(n, dim int) []Sample {
	sms := make([]Sample, n)
	for i := range sms {
		lbl := i % 2
		pat := make([]bool, dim)
		for b := range pat {
			on := b%3 != 1
			pat[b] = on == (lbl == 0)
		}
		sms[i] = Sample{Pattern: pat, Label: lbl}
	}
	return sms
}
