// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package conn builds the sparse edge sets between populations of spiking
neurons. The only pattern is Bernoulli: every candidate (sending, receiving)
pair is included independently with a fixed probability, optionally
excluding self-connections when a population projects onto itself.

It also holds the anatomical weight rule that converts a population-level
synaptic strength into a per-edge weight, normalized by expected fan-in.
*/
package conn
