// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package propagation implements the synaptic propagation engine: it fans
// a burst's fired source neurons out across their outgoing synapses and
// groups the resulting contributions by the target's cortical area.
package propagation

import (
	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/synapse"
)

// Contribution is one synapse's signed membrane-potential delta destined
// for a single target neuron.
type Contribution struct {
	Target neuron.Id
	Delta  float32
}

// Engine maintains the source->synapse-row fan-out index and the
// neuron->area lookup used by callers that need a destination area without
// re-reading neuron storage.
type Engine struct {
	synapseIndex map[synapse.NeuronId][]synapse.Id
	neuronToArea map[neuron.Id]cortex.ID
}

// New returns an empty Engine; BuildSynapseIndex must be called before the
// first Propagate.
func New() *Engine {
	return &Engine{
		synapseIndex: make(map[synapse.NeuronId][]synapse.Id),
		neuronToArea: make(map[neuron.Id]cortex.ID),
	}
}

// BuildSynapseIndex rescans store for valid rows and rebuilds the
// source->synapse-row index. MUST be called after any structural edit to
// synapse storage; queries between a mutation and the next BuildSynapseIndex
// call may return stale rows.
func (e *Engine) BuildSynapseIndex(store *synapse.Storage) {
	idx := make(map[synapse.NeuronId][]synapse.Id, len(e.synapseIndex))
	valid := store.ValidMask()
	sources := store.Source()
	for i, ok := range valid {
		if !ok {
			continue
		}
		src := sources[i]
		idx[src] = append(idx[src], synapse.Id(i))
	}
	e.synapseIndex = idx
}

// SetNeuronArea records which cortical area a neuron belongs to, for
// callers that need the destination area without consulting neuron storage.
func (e *Engine) SetNeuronArea(id neuron.Id, area cortex.ID) {
	e.neuronToArea[id] = area
}

// AreaOf returns the cortical area recorded for a neuron.
func (e *Engine) AreaOf(id neuron.Id) (cortex.ID, bool) {
	a, ok := e.neuronToArea[id]
	return a, ok
}

// Propagate fans every id in firedIds out across its outgoing synapses,
// grouping the resulting per-target contribution by the target's
// cortical_idx (read from neuron storage's CorticalArea column). Contributions
// to the same target within this call are NOT summed; accumulation happens
// later in the fire candidate list.
func Propagate(
	firedIds []neuron.Id,
	engine *Engine,
	synStore *synapse.Storage,
	neuronArea func(neuron.Id) (uint32, bool),
	postsynapticCurrent func(area uint32) float32,
) map[uint32][]Contribution {
	out := make(map[uint32][]Contribution)
	targets := synStore.Target()
	psps := synStore.PSP()
	types := synStore.Type()
	valid := synStore.ValidMask()

	for _, src := range firedIds {
		rows := engine.synapseIndex[synapse.NeuronId(src)]
		for _, row := range rows {
			if !valid[row] {
				continue
			}
			tgt := neuron.Id(targets[row])
			area, ok := neuronArea(tgt)
			if !ok {
				continue
			}
			delta := synapse.Contribution(psps[row], types[row], postsynapticCurrent(area))
			out[area] = append(out[area], Contribution{Target: tgt, Delta: delta})
		}
	}
	return out
}
