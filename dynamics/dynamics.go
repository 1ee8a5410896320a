// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynamics implements the neural dynamics kernel: the per-candidate
// state transition (refractory gate, integrate, threshold window,
// consecutive-fire check, probabilistic excitability, leak) that turns a
// fire candidate list into a fire queue.
package dynamics

import (
	"math"

	"github.com/feagi/npu-core/fcl"
	"github.com/feagi/npu-core/firequeue"
	"github.com/feagi/npu-core/neuron"
)

// Result summarizes one dynamics pass, returned alongside the new fire
// queue it produced.
type Result struct {
	FireQueue           *firequeue.Queue
	NeuronsProcessed    int
	NeuronsFired        int
	NeuronsInRefractory int
}

// simdBatchThreshold is the candidate count at or above which a batched
// (SIMD-friendly) kernel would partition work into memory / batch-eligible
// / sequential lanes. This implementation processes every candidate through
// the same scalar path regardless of count: there is no reordering to
// document because none occurs, and the scalar path is already the
// correctness reference the batched kernel would have to match
// bit-for-bit. Kept as a named constant so a future batched kernel has an
// obvious seam to plug into.
const simdBatchThreshold = 50_000

// ResetUnaccumulated zeroes the membrane potential of every valid neuron
// whose MPChargeAccumulation flag is false. Must run once per burst before
// injection (the pre-pass named in the component design): accumulators keep
// their potential across bursts, coincidence detectors start fresh.
func ResetUnaccumulated(store *neuron.Storage) {
	zero := store.Zero()
	mps := store.MembranePotential()
	flags := store.MPChargeAccumulation()
	for row, valid := range store.ValidMask() {
		if valid && !flags[row] {
			mps[row] = zero
		}
	}
}

// Run processes every candidate in candidates against store, returning the
// fired neurons as a new firequeue.Queue tagged with burst. memoryAreas maps
// a memory-candidate NeuronId (>= neuron.MemoryStart) to the cortical_idx it
// should force-fire into; candidates not present in memoryAreas are skipped
// without touching storage.
func Run(candidates *fcl.List, store *neuron.Storage, burst uint64, memoryAreas map[neuron.Id]uint32) Result {
	fq := firequeue.New()
	fq.SetTimestep(burst)
	res := Result{FireQueue: fq}

	entries := candidates.Iter()
	_ = simdBatchThreshold // scalar path used uniformly; see doc comment above

	for _, e := range entries {
		res.NeuronsProcessed++
		if e.Id.IsMemoryCandidate() {
			if areaIdx, ok := memoryAreas[e.Id]; ok {
				fq.AddNeuron(firequeue.FiringNeuron{
					NeuronId:                e.Id,
					MembranePotentialAtFire: e.Accum,
					CorticalIdx:             areaIdx,
				})
				res.NeuronsFired++
			}
			continue
		}
		row := int(e.Id)
		if row >= store.Count() || !store.IsValid(e.Id) {
			continue
		}
		if processOne(row, e.Id, e.Accum, store, burst, fq) {
			res.NeuronsFired++
		}
	}

	refractory := store.RefractoryCountdown()
	for row, valid := range store.ValidMask() {
		if valid && refractory[row] > 0 {
			res.NeuronsInRefractory++
		}
	}
	return res
}

// processOne runs the single-neuron state transition. Returns true if the
// neuron fired this burst.
func processOne(row int, id neuron.Id, candidatePotential float32, store *neuron.Storage, burst uint64, fq *firequeue.Queue) bool {
	refractoryCountdown := store.RefractoryCountdown()
	cfcLimit := store.ConsecutiveFireLimit()
	cfcCount := store.ConsecutiveFireCount()

	if refractoryCountdown[row] > 0 {
		refractoryCountdown[row]--
		if refractoryCountdown[row] == 0 && cfcLimit[row] > 0 && cfcCount[row] >= cfcLimit[row] {
			cfcCount[row] = 0
		}
		return false
	}

	mps := store.MembranePotential()
	mps[row] = mps[row].SaturatingAdd(store.Zero().FromF32(candidatePotential))

	thresholds := store.Threshold()
	thresholdLimits := store.ThresholdLimit()
	mpNew := mps[row]
	aboveMin := mpNew.Ge(thresholds[row])
	belowMax := thresholdLimits[row].ToF32() == 0 || thresholdLimits[row].Ge(mpNew)

	if aboveMin && belowMax {
		if cfcLimit[row] > 0 && cfcCount[row] >= cfcLimit[row] {
			cfcCount[row] = 0
			return false
		}

		excitability := store.Excitability()[row]
		fire := false
		switch {
		case excitability >= 0.999:
			fire = true
		case excitability <= 0:
			fire = false
		default:
			fire = excitabilityDraw(id, burst) < excitability
		}

		if fire {
			coord := store.CoordinateOf(id)
			mpAtFire := mps[row].ToF32()
			mps[row] = store.Zero()

			newCount := cfcCount[row]
			if newCount < math.MaxUint16 {
				newCount++
			}
			cfcCount[row] = newCount

			refractoryPeriod := store.RefractoryPeriod()[row]
			if cfcLimit[row] > 0 && newCount >= cfcLimit[row] {
				refractoryCountdown[row] = refractoryPeriod + store.SnoozePeriod()[row]
			} else {
				refractoryCountdown[row] = refractoryPeriod
			}

			fq.AddNeuron(firequeue.FiringNeuron{
				NeuronId:                id,
				MembranePotentialAtFire: mpAtFire,
				CorticalIdx:             store.CorticalArea()[row],
				X:                       coord.X,
				Y:                       coord.Y,
				Z:                       coord.Z,
			})
			return true
		}
	}

	// Non-firing leak.
	if cfcLimit[row] > 0 {
		cfcCount[row] = 0
	}
	leak := store.LeakCoefficient()[row]
	resting := store.RestingPotential()[row].ToF32()
	mps[row] = store.Zero().FromF32(mps[row].ToF32() + leak*(resting-mps[row].ToF32()))
	return false
}
