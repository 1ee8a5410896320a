// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/npuerr"
	"github.com/feagi/npu-core/npulog"
	"github.com/feagi/npu-core/nval"
	"github.com/feagi/npu-core/synapse"
)

// resizeLayerBatchThreshold is the per-z-layer neuron count above which
// ResizeArea chunks creation by row instead of creating the whole layer in
// one locked batch.
const resizeLayerBatchThreshold = 100_000

// resizeRowBatchSize is the target neuron count per row-chunked creation
// batch once a layer exceeds resizeLayerBatchThreshold.
const resizeRowBatchSize = 10_000

// CreateNeurons bulk-adds neurons (e.g. during genome load or an area
// resize) and returns their freshly assigned ids, all-or-nothing.
func (o *Orchestrator) CreateNeurons(params []neuron.Params) ([]neuron.Id, error) {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	return o.neurons.BatchAdd(params, 0)
}

// DeleteNeurons clears every listed neuron's valid_mask entry and returns
// how many were actually live.
func (o *Orchestrator) DeleteNeurons(ids []neuron.Id) int {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	deleted := 0
	for _, id := range ids {
		if o.neurons.DeleteNeuron(id) {
			deleted++
		}
	}
	return deleted
}

// CreateSynapses bulk-adds synapses and rebuilds the propagation engine's
// source index so the new rows are reachable by the next burst's
// propagation phase. Callers doing many CreateSynapses calls in a row
// should prefer one call with the full batch: each call pays a full
// index rebuild.
func (o *Orchestrator) CreateSynapses(records []synapse.Record) []synapse.Id {
	o.synapseMu.Lock()
	ids := o.synapses.BatchAdd(records)
	o.synapseMu.Unlock()
	o.RebuildSynapseIndex()
	return ids
}

// DeleteSynapsesFromSources removes every synapse whose source is in ids
// and rebuilds the propagation index afterward.
func (o *Orchestrator) DeleteSynapsesFromSources(ids []synapse.NeuronId) int {
	o.synapseMu.Lock()
	n := o.synapses.RemoveSynapsesFromSources(ids)
	o.synapseMu.Unlock()
	o.RebuildSynapseIndex()
	return n
}

// RebuildSynapseIndex recomputes the propagation engine's source->row fan-out
// index from current synapse storage. Idempotent: calling it twice in a row
// with no intervening mutation yields the same index.
func (o *Orchestrator) RebuildSynapseIndex() {
	o.synapseMu.RLock()
	o.propMu.Lock()
	o.prop.BuildSynapseIndex(o.synapses)
	o.propMu.Unlock()
	o.synapseMu.RUnlock()
}

// AreaMappingSynapses is an already-resolved replacement synapse set for
// one mapping between the area being resized and otherArea. The recipe
// that decides which synapses a (src,dst) mapping produces is the
// synaptogenesis collaborator's responsibility and opaque to this core;
// ResizeArea only mechanically swaps old rows for the ones it is handed.
type AreaMappingSynapses struct {
	OtherArea uint32
	Outgoing  []synapse.Record // area (source) -> OtherArea (target)
	Incoming  []synapse.Record // OtherArea (source) -> area (target)
}

// ResizeArea performs the structural mutation procedure: delete every
// neuron currently in area, update its shape/density/gradient/leak
// variability in the registry, bulk-recreate neurons with a spatial
// threshold gradient (chunked by z-layer, and further by row once a layer
// exceeds resizeLayerBatchThreshold neurons, releasing the neuron lock
// between chunks so a concurrent burst or sampling call is never blocked
// for the whole rebuild), purge every synapse left dangling by the
// deleted neurons, re-attach whatever replacement mappings the caller
// supplies, and rebuild the propagation index.
//
// mappings is the already-computed synaptogenesis recipe for every other
// area with a mapping to or from area; pass nil if none is known yet — the
// dangling synapses are still purged, just not replaced.
func (o *Orchestrator) ResizeArea(area uint32, shape cortex.Shape, neuronsPerVoxel uint32, gradient cortex.Gradient, leakVariability float32, mappings []AreaMappingSynapses) (int, error) {
	defaults, ok := o.registry.ByIdx(area)
	if !ok {
		return 0, npuerr.NotFound("cortical area", area)
	}

	oldIds := o.deleteAreaNeuronsLocked(area)

	o.registry.Update(area, func(a *cortex.Area) {
		a.Shape = shape
		a.NeuronsPerVoxel = neuronsPerVoxel
		a.Gradient = gradient
		a.LeakVariability = leakVariability
	})

	created, err := o.createAreaGridChunked(area, shape, neuronsPerVoxel, defaults, gradient)
	if err != nil {
		npulog.Errorf("structural rebuild of area %d: %v (created %d of %d requested)", area, err, created, shape.Volume()*uint64(neuronsPerVoxel))
		return created, err
	}

	oldNeuronIds := make([]synapse.NeuronId, len(oldIds))
	for i, id := range oldIds {
		oldNeuronIds[i] = synapse.NeuronId(id)
	}
	o.synapseMu.Lock()
	removed := o.synapses.RemoveSynapsesFromSources(oldNeuronIds)
	removed += o.synapses.RemoveSynapsesFromTargets(oldNeuronIds)
	for _, m := range mappings {
		o.synapses.BatchAdd(m.Outgoing)
		o.synapses.BatchAdd(m.Incoming)
	}
	o.synapseMu.Unlock()

	o.RebuildSynapseIndex()

	npulog.Warnf("structural rebuild of area %d: %d neurons -> %d, %d dangling synapses purged, %d mappings reattached",
		area, len(oldIds), created, removed, len(mappings))

	return created, nil
}

// deleteAreaNeuronsLocked marks every neuron in area invalid and returns
// their ids, under a single neuron write-lock acquisition (step 1 of the
// structural mutation procedure).
func (o *Orchestrator) deleteAreaNeuronsLocked(area uint32) []neuron.Id {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	ids := o.neurons.NeuronsInArea(area)
	for _, id := range ids {
		o.neurons.DeleteNeuron(id)
	}
	return ids
}

// createAreaGridChunked bulk-creates area's replacement neurons z-layer by
// z-layer, row-chunking within a layer once it would exceed
// resizeLayerBatchThreshold neurons, acquiring and releasing the neuron
// write lock once per chunk rather than once for the whole grid.
func (o *Orchestrator) createAreaGridChunked(area uint32, shape cortex.Shape, neuronsPerVoxel uint32, defaults cortex.Area, gradient cortex.Gradient) (int, error) {
	zero := o.neurons.Zero()
	neuronsPerLayer := int(shape.W) * int(shape.H) * int(neuronsPerVoxel)
	neuronsPerRow := int(shape.W) * int(neuronsPerVoxel)
	rowsPerBatch := int(shape.H)
	if neuronsPerLayer > resizeLayerBatchThreshold && neuronsPerRow > 0 {
		rowsPerBatch = resizeRowBatchSize / neuronsPerRow
		if rowsPerBatch < 1 {
			rowsPerBatch = 1
		}
	}

	total := 0
	for z := uint32(0); z < shape.D; z++ {
		for yStart := uint32(0); yStart < shape.H; yStart += uint32(rowsPerBatch) {
			yEnd := yStart + uint32(rowsPerBatch)
			if yEnd > shape.H || rowsPerBatch == 0 {
				yEnd = shape.H
			}
			params := buildVoxelRows(area, shape, neuronsPerVoxel, yStart, yEnd, z, defaults, gradient, zero)
			n, err := o.createNeuronBatchLocked(params)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// createNeuronBatchLocked appends params under a single neuron write-lock
// acquisition, released before the caller starts building the next chunk.
func (o *Orchestrator) createNeuronBatchLocked(params []neuron.Params) (int, error) {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	ids, err := o.neurons.BatchAdd(params, 0)
	return len(ids), err
}

// buildVoxelRows builds the neuron.Params for every voxel in rows
// [yStart,yEnd) of z-layer z, applying defaults' per-neuron parameters plus
// gradient's linear threshold increment over (x,y,z).
func buildVoxelRows(area uint32, shape cortex.Shape, neuronsPerVoxel uint32, yStart, yEnd, z uint32, defaults cortex.Area, gradient cortex.Gradient, zero nval.Value) []neuron.Params {
	n := int(shape.W) * int(yEnd-yStart) * int(neuronsPerVoxel)
	if n <= 0 {
		return nil
	}
	params := make([]neuron.Params, 0, n)
	restingPotential := zero.FromF32(defaults.RestingPotential)
	thresholdLimit := zero.FromF32(defaults.ThresholdLimit)
	for x := uint32(0); x < shape.W; x++ {
		for y := yStart; y < yEnd; y++ {
			threshold := zero.FromF32(defaults.Threshold + gradient.X*float32(x) + gradient.Y*float32(y) + gradient.Z*float32(z))
			for v := uint32(0); v < neuronsPerVoxel; v++ {
				params = append(params, neuron.Params{
					Threshold:            threshold,
					ThresholdLimit:       thresholdLimit,
					RestingPotential:     restingPotential,
					LeakCoefficient:      defaults.LeakCoefficient,
					RefractoryPeriod:     defaults.RefractoryPeriod,
					Excitability:         defaults.Excitability,
					ConsecutiveFireLimit: defaults.ConsecutiveFireLimit,
					SnoozePeriod:         defaults.SnoozePeriod,
					MPChargeAccumulation: defaults.MPChargeAccumulation,
					CorticalArea:         area,
					Coordinates:          neuron.Coordinates{X: x, Y: y, Z: z},
				})
			}
		}
	}
	return params
}
