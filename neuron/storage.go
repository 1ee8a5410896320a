// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package neuron holds the column-oriented (structure-of-arrays) neuron
// store. A NeuronId is the row index into these arrays: rows never move
// once assigned, so deleting a neuron only clears its valid_mask entry,
// never reuses its id.
package neuron

import (
	"fmt"

	"github.com/feagi/npu-core/nval"
	"github.com/feagi/npu-core/npuerr"
)

// Id is a NeuronId: equal to the neuron's row index in Storage.
type Id uint32

// MemoryStart is the first Id treated as a virtual memory-area candidate,
// never backed by Storage rows.
const MemoryStart Id = 50_000_000

// IsMemoryCandidate reports whether id falls in the reserved memory range.
func (id Id) IsMemoryCandidate() bool { return id >= MemoryStart }

// Coordinates is a neuron's (x, y, z) position inside its cortical area's
// voxel grid.
type Coordinates struct {
	X, Y, Z uint32
}

// Params is the per-neuron field set accepted by AddNeuron and Batch create.
type Params struct {
	MembranePotential    nval.Value
	Threshold            nval.Value
	ThresholdLimit       nval.Value
	RestingPotential     nval.Value
	LeakCoefficient      float32
	RefractoryPeriod     uint16
	Excitability         float32
	ConsecutiveFireLimit uint16
	SnoozePeriod         uint16
	MPChargeAccumulation bool
	NeuronType           int32
	CorticalArea         uint32
	Coordinates          Coordinates
}

// Storage is the column-oriented neuron store for one concrete NeuralValue
// instantiation. All exported mutators are safe to call only while the
// caller holds the storage lock an orchestrator imposes around it (see
// package npu's Locks helper); Storage itself does no internal locking so
// that callers can batch several field mutations under a single critical
// section.
type Storage struct {
	membranePotential []nval.Value
	threshold         []nval.Value
	thresholdLimit    []nval.Value
	restingPotential  []nval.Value
	leakCoefficient   []float32
	refractoryPeriod  []uint16
	refractoryCount   []uint16
	excitability      []float32
	cfcLimit          []uint16
	cfcCount          []uint16
	snoozePeriod      []uint16
	mpAccumulation    []bool
	neuronType        []int32
	corticalArea      []uint32
	coordinates       []Coordinates
	validMask         []bool

	// coordIndex maps (area, packed xyz) to row, maintained incrementally
	// as neurons are added so batch_coordinate_lookup stays O(k).
	coordIndex map[coordKey]Id

	capacity int
	zero     nval.Value
}

type coordKey struct {
	area       uint32
	x, y, z    uint32
}

// NewStorage returns an empty Storage whose Value fields are instances of
// the same concrete type as zero (e.g. nval.F32(0) or nval.INT8Value(0)).
func NewStorage(zero nval.Value, capacityHint int) *Storage {
	return &Storage{
		coordIndex: make(map[coordKey]Id, capacityHint),
		zero:       zero,
	}
}

// Zero returns the zero Value of this Storage's concrete NeuralValue type,
// usable by callers (e.g. the dynamics kernel) that need to construct a new
// Value of the matching concrete type from a float32.
func (s *Storage) Zero() nval.Value { return s.zero }

// Count returns the number of rows ever allocated, valid or not.
func (s *Storage) Count() int { return len(s.validMask) }

// Capacity returns the number of rows currently backing the arrays.
func (s *Storage) Capacity() int { return cap(s.validMask) }

// ValidMask returns the immutable valid-row mask.
func (s *Storage) ValidMask() []bool { return s.validMask }

// IsValid reports whether row id is in range and marked valid.
func (s *Storage) IsValid(id Id) bool {
	i := int(id)
	return i >= 0 && i < len(s.validMask) && s.validMask[i]
}

// AddNeuron appends a single neuron row and returns its freshly assigned id.
func (s *Storage) AddNeuron(p Params) Id {
	id := Id(len(s.validMask))
	s.membranePotential = append(s.membranePotential, orZero(p.MembranePotential, s.zero))
	s.threshold = append(s.threshold, orZero(p.Threshold, s.zero))
	s.thresholdLimit = append(s.thresholdLimit, orZero(p.ThresholdLimit, s.zero))
	s.restingPotential = append(s.restingPotential, orZero(p.RestingPotential, s.zero))
	s.leakCoefficient = append(s.leakCoefficient, p.LeakCoefficient)
	s.refractoryPeriod = append(s.refractoryPeriod, p.RefractoryPeriod)
	s.refractoryCount = append(s.refractoryCount, 0)
	s.excitability = append(s.excitability, p.Excitability)
	s.cfcLimit = append(s.cfcLimit, p.ConsecutiveFireLimit)
	s.cfcCount = append(s.cfcCount, 0)
	s.snoozePeriod = append(s.snoozePeriod, p.SnoozePeriod)
	s.mpAccumulation = append(s.mpAccumulation, p.MPChargeAccumulation)
	s.neuronType = append(s.neuronType, p.NeuronType)
	s.corticalArea = append(s.corticalArea, p.CorticalArea)
	s.coordinates = append(s.coordinates, p.Coordinates)
	s.validMask = append(s.validMask, true)
	s.indexCoordinate(p.CorticalArea, p.Coordinates, id)
	return id
}

func orZero(v, zero nval.Value) nval.Value {
	if v == nil {
		return zero
	}
	return v
}

// BatchAdd appends len(params) rows all-or-nothing: if capLimit > 0 and the
// batch would exceed it, no rows are added and CapacityExceeded is returned.
func (s *Storage) BatchAdd(params []Params, capLimit int) ([]Id, error) {
	if capLimit > 0 && len(s.validMask)+len(params) > capLimit {
		return nil, npuerr.CapacityExceeded("neuron storage", capLimit, len(s.validMask)+len(params))
	}
	ids := make([]Id, len(params))
	for i, p := range params {
		ids[i] = s.AddNeuron(p)
	}
	return ids, nil
}

// DeleteNeuron marks a row invalid without reusing or compacting it.
func (s *Storage) DeleteNeuron(id Id) bool {
	if !s.IsValid(id) {
		return false
	}
	s.validMask[id] = false
	s.removeCoordinateIndex(id)
	return true
}

func (s *Storage) indexCoordinate(area uint32, c Coordinates, id Id) {
	s.coordIndex[coordKey{area, c.X, c.Y, c.Z}] = id
}

func (s *Storage) removeCoordinateIndex(id Id) {
	c := s.coordinates[id]
	key := coordKey{s.corticalArea[id], c.X, c.Y, c.Z}
	if cur, ok := s.coordIndex[key]; ok && cur == id {
		delete(s.coordIndex, key)
	}
}

// CoordinateLookupResult is one entry of a BatchCoordinateLookup result: Ok
// is false when the point has no live neuron, mirroring the contract's
// Option<row> per query point.
type CoordinateLookupResult struct {
	Id Id
	Ok bool
}

// BatchCoordinateLookup resolves each (x,y,z) point within area to a row id,
// or reports not-found for points with no live neuron. O(k) in len(points).
func (s *Storage) BatchCoordinateLookup(area uint32, points []Coordinates) []CoordinateLookupResult {
	out := make([]CoordinateLookupResult, len(points))
	for i, p := range points {
		id, ok := s.coordIndex[coordKey{area, p.X, p.Y, p.Z}]
		if !ok || !s.IsValid(id) {
			out[i] = CoordinateLookupResult{Ok: false}
			continue
		}
		out[i] = CoordinateLookupResult{Id: id, Ok: true}
	}
	return out
}

// LookupCoordinate resolves a single (x,y,z) point within area.
func (s *Storage) LookupCoordinate(area uint32, c Coordinates) (Id, bool) {
	id, ok := s.coordIndex[coordKey{area, c.X, c.Y, c.Z}]
	if !ok || !s.IsValid(id) {
		return 0, false
	}
	return id, true
}

// MembranePotential returns the mutable backing slice for in-place updates
// by the dynamics kernel.
func (s *Storage) MembranePotential() []nval.Value { return s.membranePotential }

// Threshold returns the mutable threshold slice.
func (s *Storage) Threshold() []nval.Value { return s.threshold }

// ThresholdLimit returns the mutable threshold-limit slice (zero value means unbounded).
func (s *Storage) ThresholdLimit() []nval.Value { return s.thresholdLimit }

// RestingPotential returns the mutable resting-potential slice.
func (s *Storage) RestingPotential() []nval.Value { return s.restingPotential }

// LeakCoefficient returns the mutable leak-coefficient slice.
func (s *Storage) LeakCoefficient() []float32 { return s.leakCoefficient }

// RefractoryPeriod returns the mutable refractory-period slice.
func (s *Storage) RefractoryPeriod() []uint16 { return s.refractoryPeriod }

// RefractoryCountdown returns the mutable refractory-countdown slice.
func (s *Storage) RefractoryCountdown() []uint16 { return s.refractoryCount }

// Excitability returns the mutable excitability slice.
func (s *Storage) Excitability() []float32 { return s.excitability }

// ConsecutiveFireLimit returns the mutable CFC-limit slice.
func (s *Storage) ConsecutiveFireLimit() []uint16 { return s.cfcLimit }

// ConsecutiveFireCount returns the mutable CFC-count slice.
func (s *Storage) ConsecutiveFireCount() []uint16 { return s.cfcCount }

// SnoozePeriod returns the mutable snooze-period slice.
func (s *Storage) SnoozePeriod() []uint16 { return s.snoozePeriod }

// MPChargeAccumulation returns the mutable MP-accumulation flag slice.
func (s *Storage) MPChargeAccumulation() []bool { return s.mpAccumulation }

// NeuronType returns the mutable neuron-type slice.
func (s *Storage) NeuronType() []int32 { return s.neuronType }

// CorticalArea returns the mutable cortical-area slice.
func (s *Storage) CorticalArea() []uint32 { return s.corticalArea }

// CoordinateOf returns the coordinates stored for row id.
func (s *Storage) CoordinateOf(id Id) Coordinates { return s.coordinates[id] }

// SetRefractoryPeriod updates the base refractory period for a single row.
// Per spec: this does not touch refractory_countdown, except that setting
// the period to 0 also clears the countdown; consecutive_fire_count is
// always reset to 0 to avoid stale snooze state.
func (s *Storage) SetRefractoryPeriod(id Id, period uint16) bool {
	if !s.IsValid(id) {
		return false
	}
	s.refractoryPeriod[id] = period
	if period == 0 {
		s.refractoryCount[id] = 0
	}
	s.cfcCount[id] = 0
	return true
}

// BatchSetRefractoryPeriod applies SetRefractoryPeriod's metadata-only
// semantics across the given ids.
func (s *Storage) BatchSetRefractoryPeriod(ids []Id, period uint16) int {
	applied := 0
	for _, id := range ids {
		if s.SetRefractoryPeriod(id, period) {
			applied++
		}
	}
	return applied
}

// SetRefractoryPeriodImmediate is the per-id batch-update form: it sets the
// countdown equal to the new period so the change takes effect immediately,
// and resets consecutive_fire_count to 0.
func (s *Storage) SetRefractoryPeriodImmediate(id Id, period uint16) bool {
	if !s.IsValid(id) {
		return false
	}
	s.refractoryPeriod[id] = period
	s.refractoryCount[id] = period
	s.cfcCount[id] = 0
	return true
}

// SetByArea applies fn to every valid row whose cortical_area equals area,
// the "bulk update by area" form the contract requires for every parameter.
func (s *Storage) SetByArea(area uint32, fn func(row int)) int {
	applied := 0
	for i, a := range s.corticalArea {
		if a == area && s.validMask[i] {
			fn(i)
			applied++
		}
	}
	return applied
}

// SetByIds applies fn to every row named in ids that is currently valid.
func (s *Storage) SetByIds(ids []Id, fn func(row int)) int {
	applied := 0
	for _, id := range ids {
		i := int(id)
		if i >= 0 && i < len(s.validMask) && s.validMask[i] {
			fn(i)
			applied++
		}
	}
	return applied
}

// NeuronsInArea returns the ids of every valid neuron whose cortical_area
// equals area.
func (s *Storage) NeuronsInArea(area uint32) []Id {
	var out []Id
	for i, a := range s.corticalArea {
		if a == area && s.validMask[i] {
			out = append(out, Id(i))
		}
	}
	return out
}

// AreaNeuronCount reports the number of valid neurons whose cortical_area
// equals area.
func (s *Storage) AreaNeuronCount(area uint32) int {
	n := 0
	for i, a := range s.corticalArea {
		if a == area && s.validMask[i] {
			n++
		}
	}
	return n
}

// String reports a short human-readable summary, useful in logs.
func (s *Storage) String() string {
	valid := 0
	for _, v := range s.validMask {
		if v {
			valid++
		}
	}
	return fmt.Sprintf("neuron.Storage{rows=%d valid=%d}", len(s.validMask), valid)
}
