// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package firequeue implements the per-burst fire queue: a cortical-area
// indexed collection of the neurons that fired, in dynamics traversal order.
package firequeue

import "github.com/feagi/npu-core/neuron"

// FiringNeuron is one neuron that fired during a burst, with enough state
// to archive and sample without re-touching neuron storage.
type FiringNeuron struct {
	NeuronId                neuron.Id
	MembranePotentialAtFire float32
	CorticalIdx             uint32
	X, Y, Z                 uint32
}

// Queue is a cortical_idx -> []FiringNeuron mapping plus the burst index it
// was produced for.
type Queue struct {
	byArea   map[uint32][]FiringNeuron
	timestep uint64
}

// New returns an empty Queue at timestep 0.
func New() *Queue {
	return &Queue{byArea: make(map[uint32][]FiringNeuron)}
}

// AddNeuron appends fn to its area's slice, preserving insertion order.
func (q *Queue) AddNeuron(fn FiringNeuron) {
	q.byArea[fn.CorticalIdx] = append(q.byArea[fn.CorticalIdx], fn)
}

// GetAreaNeurons returns the firings recorded for idx, in insertion order.
func (q *Queue) GetAreaNeurons(idx uint32) []FiringNeuron {
	return q.byArea[idx]
}

// GetAllNeuronIds returns every neuron id present in the queue, across all
// areas.
func (q *Queue) GetAllNeuronIds() []neuron.Id {
	var out []neuron.Id
	for _, fns := range q.byArea {
		for _, fn := range fns {
			out = append(out, fn.NeuronId)
		}
	}
	return out
}

// TotalNeurons returns the total count of firings across all areas.
func (q *Queue) TotalNeurons() int {
	n := 0
	for _, fns := range q.byArea {
		n += len(fns)
	}
	return n
}

// IsEmpty reports whether the queue holds no firings.
func (q *Queue) IsEmpty() bool { return q.TotalNeurons() == 0 }

// Timestep returns the burst index this queue was built for.
func (q *Queue) Timestep() uint64 { return q.timestep }

// SetTimestep sets the burst index this queue represents.
func (q *Queue) SetTimestep(t uint64) { q.timestep = t }

// Clone returns a deep copy of q.
func (q *Queue) Clone() *Queue {
	cp := &Queue{
		byArea:   make(map[uint32][]FiringNeuron, len(q.byArea)),
		timestep: q.timestep,
	}
	for idx, fns := range q.byArea {
		cpFns := make([]FiringNeuron, len(fns))
		copy(cpFns, fns)
		cp.byArea[idx] = cpFns
	}
	return cp
}

// Reset clears all recorded firings and sets the timestep, reusing the
// underlying map allocations across bursts.
func (q *Queue) Reset(timestep uint64) {
	for idx := range q.byArea {
		delete(q.byArea, idx)
	}
	q.timestep = timestep
}

// Areas returns the set of cortical indices represented in the queue.
func (q *Queue) Areas() []uint32 {
	out := make([]uint32, 0, len(q.byArea))
	for idx := range q.byArea {
		out = append(out, idx)
	}
	return out
}
