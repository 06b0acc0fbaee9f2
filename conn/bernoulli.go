// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

import (
	"errors"
	"fmt"

	"github.com/goki/mat32"
	"golang.org/x/exp/rand"
)

// ErrProb is returned for a connection probability outside of [0, 1]
var ErrProb = errors.New("conn: connection probability must be in [0, 1]")

// Bernoulli connects each candidate pair of sending and receiving neurons
// independently with probability P.
type Bernoulli struct {
	P       float32 `min:"0" max:"1" desc:"probability of connection for each candidate pair"`
	SelfCon bool    `desc:"if true, and connecting a population to itself, include self-connections (autapses)"`
}

func NewBernoulli(p float32) *Bernoulli {
	return &Bernoulli{P: p}
}

// Validate returns ErrProb if P is NaN or outside of [0, 1]
func (bp *Bernoulli) Validate() error {
	if mat32.IsNaN(bp.P) || bp.P < 0 || bp.P > 1 {
		return fmt.Errorf("%w: %v", ErrProb, bp.P)
	}
	return nil
}

// Connect samples the edge set between nSend sending and nRecv receiving
// neurons, using rnd for all draws. If same is true the two populations are
// the same, and self-connections are excluded unless SelfCon is set.
// Candidates are scanned in receiving-major order so that a given rnd state
// always produces the same edges.
func (bp *Bernoulli) Connect(nSend, nRecv int, same bool, rnd *rand.Rand) (*Edges, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	if nSend < 0 || nRecv < 0 {
		return nil, fmt.Errorf("conn: negative population size: send %d recv %d", nSend, nRecv)
	}
	es := NewEdges(nSend, nRecv)
	if bp.P == 0 {
		return es, nil
	}
	p := float64(bp.P)
	noself := same && !bp.SelfCon
	for ri := 0; ri < nRecv; ri++ {
		rbi := ri * nSend
		for si := 0; si < nSend; si++ {
			if noself && si == ri {
				continue
			}
			if rnd.Float64() >= p {
				continue
			}
			es.Cons.Set(rbi+si, true)
			es.SendN[si]++
			es.RecvN[ri]++
			es.N++
		}
	}
	return es, nil
}

// Expected returns the expected number of edges for the given sizes,
// discounting the excluded diagonal where applicable.
func (bp *Bernoulli) Expected(nSend, nRecv int, same bool) float64 {
	pairs := float64(nSend) * float64(nRecv)
	if same && !bp.SelfCon {
		pairs -= float64(min(nSend, nRecv))
	}
	return float64(bp.P) * pairs
}

// FanIn returns the connection probability giving an average of k
// connections per receiving neuron from nSend senders, clipped to [0, 1].
func FanIn(k float32, nSend int) float32 {
	if nSend <= 0 || k <= 0 {
		return 0
	}
	return mat32.Min(k/float32(nSend), 1)
}
