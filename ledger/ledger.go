// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ledger implements the fire ledger: a per-cortical-area bounded
// ring of recent bursts' fired-neuron ids, used by memory areas and history
// queries. Each area's ring is backed by a non-copying circular index.
package ledger

import (
	"github.com/emer/emergent/v2/ringidx"

	"github.com/feagi/npu-core/firequeue"
	"github.com/feagi/npu-core/neuron"
)

// defaultWindow is the ring size a newly-seen area gets before any explicit
// ConfigureAreaWindow call.
const defaultWindow = 16

// Entry is one archived burst's fired-neuron ids for a single area.
type Entry struct {
	Burst     uint64
	NeuronIds []neuron.Id
}

type areaRing struct {
	idx     ringidx.Idx
	entries []Entry
}

func newAreaRing(window int) *areaRing {
	return &areaRing{
		idx:     ringidx.Idx{Max: window},
		entries: make([]Entry, window),
	}
}

func (r *areaRing) push(e Entry) {
	r.idx.Add(1)
	r.entries[r.idx.LastIdx()] = e
}

// resize changes the ring's maximum length, keeping up to the newest
// min(newMax, oldLen) entries; growing never discards existing entries,
// shrinking truncates the oldest ones.
func (r *areaRing) resize(newMax int) {
	if newMax == r.idx.Max {
		return
	}
	keep := r.idx.Len
	if keep > newMax {
		keep = newMax
	}
	newEntries := make([]Entry, newMax)
	for i := 0; i < keep; i++ {
		// copy newest `keep` entries, oldest-first, into the new backing array
		srcIdx := r.idx.Idx(r.idx.Len - keep + i)
		newEntries[i] = r.entries[srcIdx]
	}
	r.entries = newEntries
	r.idx = ringidx.Idx{Max: newMax, Len: keep}
}

// newestFirst returns up to lookback entries, most recent first.
func (r *areaRing) newestFirst(lookback int) []Entry {
	if lookback > r.idx.Len {
		lookback = r.idx.Len
	}
	out := make([]Entry, lookback)
	for i := 0; i < lookback; i++ {
		out[i] = r.entries[r.idx.Idx(r.idx.Len-1-i)]
	}
	return out
}

// Ledger holds one bounded ring per cortical area.
type Ledger struct {
	rings map[uint32]*areaRing
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{rings: make(map[uint32]*areaRing)}
}

func (l *Ledger) ringFor(area uint32) *areaRing {
	r, ok := l.rings[area]
	if !ok {
		r = newAreaRing(defaultWindow)
		l.rings[area] = r
	}
	return r
}

// ArchiveBurst pushes burst's fired-neuron ids into the ring of every area
// represented in fq.
func (l *Ledger) ArchiveBurst(burst uint64, fq *firequeue.Queue) {
	for _, areaIdx := range fq.Areas() {
		fns := fq.GetAreaNeurons(areaIdx)
		ids := make([]neuron.Id, len(fns))
		for i, fn := range fns {
			ids[i] = fn.NeuronId
		}
		l.ringFor(areaIdx).push(Entry{Burst: burst, NeuronIds: ids})
	}
}

// ConfigureAreaWindow resizes area's ring to size, truncating the oldest
// entries if shrinking.
func (l *Ledger) ConfigureAreaWindow(area uint32, size int) {
	if size <= 0 {
		return
	}
	l.ringFor(area).resize(size)
}

// GrowAreaWindow raises area's window to at least size, a no-op if the
// current window is already that large or larger. Used to satisfy a memory
// area's temporal_depth dependency on an upstream area's ledger.
func (l *Ledger) GrowAreaWindow(area uint32, size int) {
	r := l.ringFor(area)
	if size > r.idx.Max {
		r.resize(size)
	}
}

// GetHistory returns up to lookback archived entries for area, newest first.
func (l *Ledger) GetHistory(area uint32, lookback int) []Entry {
	return l.ringFor(area).newestFirst(lookback)
}

// GetAreaWindowSize returns the configured ring size for area.
func (l *Ledger) GetAreaWindowSize(area uint32) int {
	return l.ringFor(area).idx.Max
}

// GetAllWindowConfigs returns the configured window size for every area with
// a ring.
func (l *Ledger) GetAllWindowConfigs() map[uint32]int {
	out := make(map[uint32]int, len(l.rings))
	for area, r := range l.rings {
		out[area] = r.idx.Max
	}
	return out
}
