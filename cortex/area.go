// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cortex

// Shape is the 3D voxel-grid extent of a cortical area: width, height, depth.
type Shape struct {
	W, H, D uint32
}

// Volume returns the number of voxels in the shape.
func (s Shape) Volume() uint64 { return uint64(s.W) * uint64(s.H) * uint64(s.D) }

// Gradient is a per-axis spatial increment applied across a cortical area's
// voxel grid, e.g. to let threshold vary smoothly with position. Array-form
// [x,y,z] updates from the host API are stored here as three scalar
// properties rather than a single composite value.
type Gradient struct {
	X, Y, Z float32
}

// Area is the property bag for one cortical area: its shape, position, and
// the default per-neuron parameters new neurons in the area are created
// with. Classified edits to these fields route through the metadata/
// parameter/structural paths (see package genome's Classify).
type Area struct {
	ID   ID
	Name string
	Idx  uint32 // dense cortical_idx assigned at admission

	// --- metadata ---
	Visible                  bool
	Position                 [3]int32
	VisualizationGranularity uint32

	// --- structural ---
	Shape           Shape
	NeuronsPerVoxel uint32
	Gradient        Gradient
	LeakVariability float32

	// --- parameter ---
	Threshold             float32
	ThresholdLimit        float32
	RestingPotential      float32
	LeakCoefficient       float32
	RefractoryPeriod      uint16
	Excitability          float32
	ConsecutiveFireLimit  uint16
	SnoozePeriod          uint16
	PostsynapticCurrent   float32 // scale factor for quantized synapse PSP
	MPChargeAccumulation  bool

	// TemporalDepth drives the fire ledger's window sizing for areas this
	// one depends on as a memory area.
	TemporalDepth uint32

	ParentRegion string
}

// DefaultArea returns an Area with the conservative defaults new cortical
// areas are seeded with before a genome or host API overrides them.
func DefaultArea(id ID, name string, idx uint32, shape Shape) Area {
	return Area{
		ID:                  id,
		Name:                name,
		Idx:                 idx,
		Visible:             true,
		Shape:               shape,
		NeuronsPerVoxel:     1,
		Threshold:           1.0,
		RestingPotential:    0.0,
		LeakCoefficient:     0.1,
		RefractoryPeriod:    0,
		Excitability:        1.0,
		PostsynapticCurrent: 1.0,
		MPChargeAccumulation: true,
	}
}
