// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sampler implements the FQ sampler: a rate-limited, per-burst
// deduplicated publisher of the current fire queue to visualization/motor
// subscribers, grouped per area into parallel (ids, xs, ys, zs, potentials)
// arrays.
package sampler

import (
	"time"

	"github.com/feagi/npu-core/firequeue"
)

// AreaSample is one area's firings, serialized into parallel arrays for a
// wire-friendly snapshot.
type AreaSample struct {
	CorticalIdx uint32
	Ids         []uint32
	Xs, Ys, Zs  []uint32
	Potentials  []float32
}

// Snapshot is the serialized form of a sampled fire queue.
type Snapshot struct {
	Burst uint64
	Areas []AreaSample
}

// Sampler holds the rate-limit and dedup state for one subscriber class.
type Sampler struct {
	SampleFrequencyHz float64

	lastSampleTime   time.Time
	lastSampledBurst *uint64
	samplesTaken     uint64

	hasVisualizationSubscribers bool
	hasMotorSubscribers         bool

	cached *Snapshot
}

// New returns a Sampler at the given rate, with no cached sample yet.
func New(sampleFrequencyHz float64) *Sampler {
	return &Sampler{SampleFrequencyHz: sampleFrequencyHz}
}

// SetSubscribers records whether any subscriber of each class is currently
// attached; components MAY skip building a Snapshot entirely when neither
// is set.
func (s *Sampler) SetSubscribers(visualization, motor bool) {
	s.hasVisualizationSubscribers = visualization
	s.hasMotorSubscribers = motor
}

// HasSubscribers reports whether any subscriber class is attached.
func (s *Sampler) HasSubscribers() bool {
	return s.hasVisualizationSubscribers || s.hasMotorSubscribers
}

// SamplesTaken returns the number of samples successfully published.
func (s *Sampler) SamplesTaken() uint64 { return s.samplesTaken }

// Sample attempts to publish fq at time now. It returns (nil, false) if
// SampleFrequencyHz is not positive, the sample interval hasn't elapsed, fq's
// burst was already sampled, or fq is empty; otherwise it serializes fq,
// caches it, and returns (snapshot, true).
func (s *Sampler) Sample(fq *firequeue.Queue, now time.Time) (*Snapshot, bool) {
	if s.SampleFrequencyHz <= 0 {
		return nil, false
	}
	interval := time.Duration(float64(time.Second) / s.SampleFrequencyHz)
	if !s.lastSampleTime.IsZero() && now.Sub(s.lastSampleTime) < interval {
		return nil, false
	}
	if s.lastSampledBurst != nil && *s.lastSampledBurst == fq.Timestep() {
		return nil, false
	}
	if fq.IsEmpty() {
		return nil, false
	}
	snap := serialize(fq)
	s.lastSampleTime = now
	burst := fq.Timestep()
	s.lastSampledBurst = &burst
	s.samplesTaken++
	s.cached = snap
	return snap, true
}

// GetLatestSample returns the cached snapshot without mutating sampler
// state, or nil if nothing has been sampled yet.
func (s *Sampler) GetLatestSample() *Snapshot { return s.cached }

// ForceSample bypasses rate limiting and dedup: it always serializes the
// current fq and caches the result, but counts toward SamplesTaken like a
// normal sample.
func (s *Sampler) ForceSample(fq *firequeue.Queue, now time.Time) *Snapshot {
	snap := serialize(fq)
	s.lastSampleTime = now
	burst := fq.Timestep()
	s.lastSampledBurst = &burst
	s.samplesTaken++
	s.cached = snap
	return snap
}

// GetCurrentFireQueue bypasses rate limiting and dedup without touching
// sampler state at all, serializing fq fresh every call.
func (s *Sampler) GetCurrentFireQueue(fq *firequeue.Queue) *Snapshot {
	return serialize(fq)
}

func serialize(fq *firequeue.Queue) *Snapshot {
	areas := fq.Areas()
	snap := &Snapshot{Burst: fq.Timestep(), Areas: make([]AreaSample, 0, len(areas))}
	for _, idx := range areas {
		fns := fq.GetAreaNeurons(idx)
		as := AreaSample{
			CorticalIdx: idx,
			Ids:         make([]uint32, len(fns)),
			Xs:          make([]uint32, len(fns)),
			Ys:          make([]uint32, len(fns)),
			Zs:          make([]uint32, len(fns)),
			Potentials:  make([]float32, len(fns)),
		}
		for i, fn := range fns {
			as.Ids[i] = uint32(fn.NeuronId)
			as.Xs[i] = fn.X
			as.Ys[i] = fn.Y
			as.Zs[i] = fn.Z
			as.Potentials[i] = fn.MembranePotentialAtFire
		}
		snap.Areas = append(snap.Areas, as)
	}
	return snap
}
