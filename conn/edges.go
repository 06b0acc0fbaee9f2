// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

import "github.com/emer/etable/bitslice"

// Edges is a sampled connectivity pattern between two populations.
// Cons is a receiving-major bit mask: bit ri*NSend + si is set when
// sending neuron si connects to receiving neuron ri.
type Edges struct {
	NSend int            `desc:"number of sending neurons"`
	NRecv int            `desc:"number of receiving neurons"`
	SendN []int32        `desc:"number of connections for each sending neuron"`
	RecvN []int32        `desc:"number of connections for each receiving neuron"`
	Cons  bitslice.Slice `view:"-" desc:"connection mask, receiving-major"`
	N     int            `desc:"total number of edges"`
}

// NewEdges returns an empty edge set for the given population sizes
func NewEdges(nSend, nRecv int) *Edges {
	return &Edges{
		NSend: nSend,
		NRecv: nRecv,
		SendN: make([]int32, nSend),
		RecvN: make([]int32, nRecv),
		Cons:  bitslice.Make(nSend*nRecv, 0),
	}
}

// Has returns true if sending neuron si connects to receiving neuron ri
func (es *Edges) Has(si, ri int) bool {
	return es.Cons.Index(ri*es.NSend + si)
}

// Pairs calls fun for every edge in receiving-major order
func (es *Edges) Pairs(fun func(si, ri int)) {
	for ri := 0; ri < es.NRecv; ri++ {
		for si := 0; si < es.NSend; si++ {
			if es.Has(si, ri) {
				fun(si, ri)
			}
		}
	}
}
