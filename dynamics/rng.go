// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import "github.com/feagi/npu-core/neuron"

// excitabilityDraw returns a deterministic pseudo-uniform value in [0,1)
// for the pair (id, burst). Unlike package erand's global-state generators,
// this is a pure function of its seed: re-evaluating the same (id, burst)
// always yields the same draw, which the probabilistic excitability gate
// (spec step 5.b) requires for reproducibility across retried bursts.
//
// The mixing function is a splitmix64-style finalizer applied to the
// 64-bit seed packed from id and burst.
func excitabilityDraw(id neuron.Id, burst uint64) float32 {
	seed := uint64(id)<<32 ^ burst
	seed += 0x9e3779b97f4a7c15
	z := seed
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z = z ^ (z >> 31)
	// Keep the top 24 bits for a float32-precision uniform value in [0,1).
	const mantissaBits = 24
	return float32(z>>(64-mantissaBits)) / float32(uint64(1)<<mantissaBits)
}
