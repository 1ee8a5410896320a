// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/paramqueue"
	"github.com/feagi/npu-core/synapse"
)

// --- per-neuron batch parameter setters ---
//
// These are thin, lock-scoped conveniences over the same bulk-update
// contract neuron.Storage already exposes; unlike the area-wide
// update_cortical_area_* family below they touch an explicit neuron set
// directly and do not go through the parameter update queue, since they
// target individual rows rather than an entire area's next-burst state.

// UpdateNeuronExcitability sets the excitability gate for exactly the given
// neurons.
func (o *Orchestrator) UpdateNeuronExcitability(ids []neuron.Id, value float32) int {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	return o.neurons.SetByIds(ids, func(row int) { o.neurons.Excitability()[row] = value })
}

// UpdateNeuronThreshold sets the firing threshold for exactly the given
// neurons.
func (o *Orchestrator) UpdateNeuronThreshold(ids []neuron.Id, value float32) int {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	zero := o.neurons.Zero()
	return o.neurons.SetByIds(ids, func(row int) { o.neurons.Threshold()[row] = zero.FromF32(value) })
}

// UpdateNeuronLeak sets the leak coefficient for exactly the given neurons.
func (o *Orchestrator) UpdateNeuronLeak(ids []neuron.Id, value float32) int {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	return o.neurons.SetByIds(ids, func(row int) { o.neurons.LeakCoefficient()[row] = value })
}

// UpdateNeuronRestingPotential sets the resting potential for exactly the
// given neurons.
func (o *Orchestrator) UpdateNeuronRestingPotential(ids []neuron.Id, value float32) int {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	zero := o.neurons.Zero()
	return o.neurons.SetByIds(ids, func(row int) { o.neurons.RestingPotential()[row] = zero.FromF32(value) })
}

// --- area-wide parameter setters ---
//
// Each of these enqueues exactly one ParameterUpdate rather than mutating
// storage synchronously: idempotent, applied at the next burst, matching
// the same-area semantics the ParameterUpdateQueue already guarantees.

func (o *Orchestrator) UpdateCorticalAreaExcitability(area uint32, value float32) {
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamExcitability, Value: value})
}

func (o *Orchestrator) UpdateCorticalAreaRefractoryPeriod(area uint32, value uint16) {
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamRefractoryPeriod, Value: float32(value)})
}

func (o *Orchestrator) UpdateCorticalAreaThreshold(area uint32, value float32) {
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamThreshold, Value: value})
}

func (o *Orchestrator) UpdateCorticalAreaLeak(area uint32, value float32) {
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamLeakCoefficient, Value: value})
}

func (o *Orchestrator) UpdateCorticalAreaConsecutiveFireLimit(area uint32, value uint16) {
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamConsecutiveFireLimit, Value: float32(value)})
}

func (o *Orchestrator) UpdateCorticalAreaSnoozePeriod(area uint32, value uint16) {
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamSnoozePeriod, Value: float32(value)})
}

func (o *Orchestrator) UpdateCorticalAreaMPChargeAccumulation(area uint32, value bool) {
	v := float32(0)
	if value {
		v = 1
	}
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamMPChargeAccumulation, Value: v})
}

// --- introspection accessors ---

// GetNeuronCoordinates returns a neuron's stored position.
func (o *Orchestrator) GetNeuronCoordinates(id neuron.Id) (neuron.Coordinates, bool) {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	if !o.neurons.IsValid(id) {
		return neuron.Coordinates{}, false
	}
	return o.neurons.CoordinateOf(id), true
}

// GetNeuronCorticalArea returns the dense cortical_idx a neuron belongs to.
func (o *Orchestrator) GetNeuronCorticalArea(id neuron.Id) (uint32, bool) {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	if !o.neurons.IsValid(id) {
		return 0, false
	}
	return o.neurons.CorticalArea()[id], true
}

// GetNeuronsInCorticalArea returns every valid neuron id in area.
func (o *Orchestrator) GetNeuronsInCorticalArea(area uint32) []neuron.Id {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	return o.neurons.NeuronsInArea(area)
}

// GetCorticalAreaNeuronCount returns the number of valid neurons in area.
func (o *Orchestrator) GetCorticalAreaNeuronCount(area uint32) int {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	return o.neurons.AreaNeuronCount(area)
}

// GetOutgoingSynapses returns every valid synapse row whose source is id.
func (o *Orchestrator) GetOutgoingSynapses(id neuron.Id) []synapse.Record {
	o.synapseMu.RLock()
	defer o.synapseMu.RUnlock()
	return o.scanSynapsesLocked(func(row int) bool {
		return o.synapses.Source()[row] == synapse.NeuronId(id)
	})
}

// GetIncomingSynapses returns every valid synapse row whose target is id.
func (o *Orchestrator) GetIncomingSynapses(id neuron.Id) []synapse.Record {
	o.synapseMu.RLock()
	defer o.synapseMu.RUnlock()
	return o.scanSynapsesLocked(func(row int) bool {
		return o.synapses.Target()[row] == synapse.NeuronId(id)
	})
}

// scanSynapsesLocked linearly scans valid rows matching pred. Caller must
// hold synapseMu for reading. There is no source or target index kept for
// this query; the propagation engine's synapseIndex is source-only and
// private to package propagation, so introspection pays a full scan.
func (o *Orchestrator) scanSynapsesLocked(pred func(row int) bool) []synapse.Record {
	var out []synapse.Record
	valid := o.synapses.ValidMask()
	sources := o.synapses.Source()
	targets := o.synapses.Target()
	weights := o.synapses.Weight()
	psps := o.synapses.PSP()
	types := o.synapses.Type()
	for row, ok := range valid {
		if !ok || !pred(row) {
			continue
		}
		out = append(out, synapse.Record{
			Source: sources[row],
			Target: targets[row],
			Weight: weights[row],
			PSP:    psps[row],
			Type:   types[row],
		})
	}
	return out
}

// NeuronState is a point-in-time snapshot of one neuron's dynamics state.
type NeuronState struct {
	MembranePotential  float32
	RefractoryCountdown uint16
	ConsecutiveFireCount uint16
	SnoozePeriod        uint16
}

// GetNeuronState returns the current refractory/CFC/snooze/membrane-potential
// snapshot for one neuron.
func (o *Orchestrator) GetNeuronState(id neuron.Id) (NeuronState, bool) {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	if !o.neurons.IsValid(id) {
		return NeuronState{}, false
	}
	return NeuronState{
		MembranePotential:    o.neurons.MembranePotential()[id].ToF32(),
		RefractoryCountdown:  o.neurons.RefractoryCountdown()[id],
		ConsecutiveFireCount: o.neurons.ConsecutiveFireCount()[id],
		SnoozePeriod:         o.neurons.SnoozePeriod()[id],
	}, true
}

// --- cortical area name/id registry ---

// RegisterCorticalArea admits a new area into the registry, assigning it a
// dense cortical_idx. It only updates the registry; it does not write
// anything into the propagation engine's neuron_to_area map.
func (o *Orchestrator) RegisterCorticalArea(area cortex.Area) uint32 {
	return o.registry.Admit(area)
}

// GetCorticalAreaName resolves a dense cortical_idx to its area name.
func (o *Orchestrator) GetCorticalAreaName(idx uint32) (string, bool) {
	a, ok := o.registry.ByIdx(idx)
	if !ok {
		return "", false
	}
	return a.Name, true
}

// GetCorticalAreaID resolves a dense cortical_idx to its wire-format ID.
func (o *Orchestrator) GetCorticalAreaID(idx uint32) (cortex.ID, bool) {
	a, ok := o.registry.ByIdx(idx)
	if !ok {
		return cortex.ID{}, false
	}
	return a.ID, true
}

// --- deletion and validity ---

// DeleteNeuron clears id's valid_mask entry; the row is never reused.
func (o *Orchestrator) DeleteNeuron(id neuron.Id) bool {
	o.neuronMu.Lock()
	defer o.neuronMu.Unlock()
	return o.neurons.DeleteNeuron(id)
}

// IsNeuronValid reports whether id currently refers to a live neuron.
func (o *Orchestrator) IsNeuronValid(id neuron.Id) bool {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	return o.neurons.IsValid(id)
}

// --- coordinate-indexed lookup ---

// GetNeuronIdAtCoordinate resolves one (area, x, y, z) point to a neuron id.
func (o *Orchestrator) GetNeuronIdAtCoordinate(area uint32, c neuron.Coordinates) (neuron.Id, bool) {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	return o.neurons.LookupCoordinate(area, c)
}

// GetNeuronAtCoordinates is an alias over the same lookup, named to match
// the original's plural accessor for a single point.
func (o *Orchestrator) GetNeuronAtCoordinates(area uint32, c neuron.Coordinates) (neuron.Id, bool) {
	return o.GetNeuronIdAtCoordinate(area, c)
}

// BatchGetNeuronIdsFromCoordinates resolves many points in one locked pass.
func (o *Orchestrator) BatchGetNeuronIdsFromCoordinates(area uint32, points []neuron.Coordinates) []neuron.CoordinateLookupResult {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	return o.neurons.BatchCoordinateLookup(area, points)
}
