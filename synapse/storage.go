// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package synapse holds the column-oriented synapse store. A synapse's
// weight and postsynaptic potential are quantized to u8 in [0,255]; the
// scale used to turn a quantized PSP into a membrane-potential contribution
// is documented on Contribution below.
package synapse

import "github.com/feagi/npu-core/cortex"

// Id is a synapse row index. Like neuron.Id, rows never move; a removed
// synapse's row stays allocated with valid_mask=false.
type Id uint32

// NeuronId mirrors neuron.Id without importing package neuron, keeping
// synapse free of a dependency cycle (neuron has no need of synapse).
type NeuronId uint32

// Record is one synapse's field set, used by AddSynapse and the bulk form.
type Record struct {
	Source NeuronId
	Target NeuronId
	Weight uint8
	PSP    uint8
	Type   cortex.SynapseType
}

// Storage is the column-oriented synapse store. No accessor here
// guarantees freshness of any derived index (see package propagation);
// callers must call propagation.Engine.BuildSynapseIndex after structural
// edits before relying on fan-out queries.
type Storage struct {
	source    []NeuronId
	target    []NeuronId
	weight    []uint8
	psp       []uint8
	synType   []cortex.SynapseType
	validMask []bool
}

// NewStorage returns an empty synapse Storage.
func NewStorage() *Storage { return &Storage{} }

// Count returns the number of rows ever allocated, valid or not.
func (s *Storage) Count() int { return len(s.validMask) }

// IsValid reports whether row id is in range and marked valid.
func (s *Storage) IsValid(id Id) bool {
	i := int(id)
	return i >= 0 && i < len(s.validMask) && s.validMask[i]
}

// AddSynapse appends a single synapse row and returns its id.
func (s *Storage) AddSynapse(r Record) Id {
	id := Id(len(s.validMask))
	s.source = append(s.source, r.Source)
	s.target = append(s.target, r.Target)
	s.weight = append(s.weight, r.Weight)
	s.psp = append(s.psp, r.PSP)
	s.synType = append(s.synType, r.Type)
	s.validMask = append(s.validMask, true)
	return id
}

// BatchAdd appends len(records) rows, returning their assigned ids.
func (s *Storage) BatchAdd(records []Record) []Id {
	ids := make([]Id, len(records))
	for i, r := range records {
		ids[i] = s.AddSynapse(r)
	}
	return ids
}

// RemoveSynapsesFromSources marks every valid row whose source is in ids
// invalid, in a single linear pass. Returns the count removed.
func (s *Storage) RemoveSynapsesFromSources(ids []NeuronId) int {
	want := make(map[NeuronId]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	removed := 0
	for i, src := range s.source {
		if !s.validMask[i] {
			continue
		}
		if _, ok := want[src]; ok {
			s.validMask[i] = false
			removed++
		}
	}
	return removed
}

// RemoveSynapsesFromTargets marks every valid row whose target is in ids
// invalid, in a single linear pass. Returns the count removed.
func (s *Storage) RemoveSynapsesFromTargets(ids []NeuronId) int {
	want := make(map[NeuronId]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	removed := 0
	for i, tgt := range s.target {
		if !s.validMask[i] {
			continue
		}
		if _, ok := want[tgt]; ok {
			s.validMask[i] = false
			removed++
		}
	}
	return removed
}

// RemoveSynapsesBetween marks every valid row matching (src, tgt) invalid.
// Returns the count removed.
func (s *Storage) RemoveSynapsesBetween(src, tgt NeuronId) int {
	removed := 0
	for i := range s.source {
		if s.validMask[i] && s.source[i] == src && s.target[i] == tgt {
			s.validMask[i] = false
			removed++
		}
	}
	return removed
}

// Source returns the immutable source-neuron column.
func (s *Storage) Source() []NeuronId { return s.source }

// Target returns the immutable target-neuron column.
func (s *Storage) Target() []NeuronId { return s.target }

// Weight returns the mutable weight column.
func (s *Storage) Weight() []uint8 { return s.weight }

// PSP returns the mutable postsynaptic-potential column.
func (s *Storage) PSP() []uint8 { return s.psp }

// Type returns the mutable synapse-type column.
func (s *Storage) Type() []cortex.SynapseType { return s.synType }

// ValidMask returns the immutable valid-row mask.
func (s *Storage) ValidMask() []bool { return s.validMask }

// DefaultPostsynapticScale is the fraction of a target area's
// PostsynapticCurrent that a fully-saturated PSP byte (255) contributes.
// A quantized psp therefore contributes (psp/255) * postsynapticCurrent of
// membrane-potential change, signed by the synapse's type. This scale
// (rather than, say, a fixed absolute unit) is what lets a single genome
// retune excitability per area without requantizing every synapse.
const DefaultPostsynapticScale = 1.0 / 255.0

// Contribution computes the signed membrane-potential delta a synapse with
// the given quantized psp and type contributes, scaled by the destination
// area's configured postsynaptic current.
func Contribution(psp uint8, synType cortex.SynapseType, postsynapticCurrent float32) float32 {
	return float32(psp) * DefaultPostsynapticScale * postsynapticCurrent * synType.Sign()
}
