// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package paramqueue implements the parameter update queue: a
// multi-producer, single-consumer FIFO the orchestrator drains exactly
// once per burst, applying updates in insertion order (later writes win).
// Push never blocks: a buffered channel absorbs the common case, and a
// mutex-protected overflow slice absorbs bursts of producers that would
// otherwise stall on a full channel.
package paramqueue

import "sync"

// Param names the tunable a ParameterUpdate targets. Values beyond these
// are rejected by callers before Push, per the cortical-area edit
// classifier (structural/metadata edits never reach this queue).
type Param int

const (
	ParamThreshold Param = iota
	ParamThresholdLimit
	ParamRestingPotential
	ParamLeakCoefficient
	ParamRefractoryPeriod
	ParamExcitability
	ParamConsecutiveFireLimit
	ParamSnoozePeriod
	ParamPostsynapticCurrent
	ParamMPChargeAccumulation
	// ParamTemporalDepth does not touch neuron storage: the orchestrator
	// routes it to the fire ledger's per-area window instead, since
	// temporal_depth is a memory area's dependency on an upstream area's
	// archived-burst history, not a per-neuron dynamics field.
	ParamTemporalDepth
)

// Update is one queued parameter change: apply Value to Param on every
// valid neuron in CorticalIdx's area. BaseThreshold carries the optional
// accompanying base-threshold value some parameter edits (e.g. a combined
// threshold + gradient update) need alongside Value.
type Update struct {
	CorticalIdx   uint32
	Param         Param
	Value         float32
	BaseThreshold *float32
}

const chanCapacity = 4096

// Queue is the buffered-channel-plus-overflow MPSC queue. The zero value
// is not usable; construct with New.
type Queue struct {
	ch chan Update

	mu       sync.Mutex
	overflow []Update
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{ch: make(chan Update, chanCapacity)}
}

// Push enqueues an update without blocking. If the buffered channel is
// full, the update is appended to a mutex-protected overflow slice instead.
func (q *Queue) Push(u Update) {
	select {
	case q.ch <- u:
	default:
		q.mu.Lock()
		q.overflow = append(q.overflow, u)
		q.mu.Unlock()
	}
}

// Drain removes every currently queued update and returns them in insertion
// order: buffered-channel entries first (their relative order is already
// FIFO), then any overflow entries, which were only appended because the
// channel was momentarily full and so necessarily arrived after everything
// already drained from it.
func (q *Queue) Drain() []Update {
	var out []Update
	draining := true
	for draining {
		select {
		case u := <-q.ch:
			out = append(out, u)
		default:
			draining = false
		}
	}
	q.mu.Lock()
	if len(q.overflow) > 0 {
		out = append(out, q.overflow...)
		q.overflow = q.overflow[:0]
	}
	q.mu.Unlock()
	return out
}
