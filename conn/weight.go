// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

// Weight returns the per-edge weight for a pathway of the given anatomical
// strength: globalG * strength / (nSend * p * proportion), so that the
// expected summed input to a receiving neuron scales with strength alone.
// The weight is exactly zero whenever p, strength or proportion is zero.
func Weight(globalG, strength float32, nSend int, p, proportion float32) float32 {
	if p == 0 || strength == 0 || proportion == 0 || nSend <= 0 {
		return 0
	}
	return globalG * strength / (float32(nSend) * p * proportion)
}
