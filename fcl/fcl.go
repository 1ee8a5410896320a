// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fcl implements the fire candidate list: the accumulator that
// collects per-neuron membrane-potential deltas during injection and
// propagation before the dynamics kernel consumes them.
package fcl

import "github.com/feagi/npu-core/neuron"

// Entry is one (id, accumulated delta) pair yielded by Iter.
type Entry struct {
	Id    neuron.Id
	Accum float32
}

// List is a NeuronId -> accumulated delta mapping. Iteration order is
// unspecified; callers that need determinism should sort the result of Iter.
type List struct {
	acc map[neuron.Id]float32
}

// New returns an empty List.
func New() *List { return &List{acc: make(map[neuron.Id]float32)} }

// AddCandidate accumulates delta into id's running total, inserting it on
// first touch.
func (l *List) AddCandidate(id neuron.Id, delta float32) {
	l.acc[id] += delta
}

// Clear empties the list for the next burst.
func (l *List) Clear() {
	for k := range l.acc {
		delete(l.acc, k)
	}
}

// Len returns the number of distinct candidates.
func (l *List) Len() int { return len(l.acc) }

// Iter yields every (id, accumulated delta) pair currently held.
func (l *List) Iter() []Entry {
	out := make([]Entry, 0, len(l.acc))
	for id, acc := range l.acc {
		out = append(out, Entry{Id: id, Accum: acc})
	}
	return out
}

// Get returns the current accumulated delta for id, if present.
func (l *List) Get(id neuron.Id) (float32, bool) {
	v, ok := l.acc[id]
	return v, ok
}

// Clone returns a deep copy of l.
func (l *List) Clone() *List {
	cp := New()
	for k, v := range l.acc {
		cp.acc[k] = v
	}
	return cp
}
