// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

// Locks acquires the four orchestrator locks in the one order the core
// ever uses: neuron write, synapse read, propagation write, fire-structures.
// No caller may acquire any two of these locks in the reverse order. The
// burst pipeline goes through this helper; structural-mutation and
// observability calls lock only the fields they need directly, in the same
// order.
type Locks struct {
	o *Orchestrator
}

// Acquire locks neurons (write), synapses (read), propagation (write), and
// fire-structures, in that order.
func (o *Orchestrator) Acquire() *Locks {
	o.neuronMu.Lock()
	o.synapseMu.RLock()
	o.propMu.Lock()
	o.fsMu.Lock()
	return &Locks{o: o}
}

// Release unlocks in the exact reverse order Acquire locked.
func (l *Locks) Release() {
	l.o.fsMu.Unlock()
	l.o.propMu.Unlock()
	l.o.synapseMu.RUnlock()
	l.o.neuronMu.Unlock()
}

// AcquireRead locks neurons and synapses for reading only, propagation for
// reading, and fire-structures exclusively -- used by short observability
// calls (§9's "sampling and observability calls MUST remain responsive")
// that don't need write access to storage.
type ReadLocks struct {
	o *Orchestrator
}

func (o *Orchestrator) AcquireRead() *ReadLocks {
	o.neuronMu.RLock()
	o.synapseMu.RLock()
	o.propMu.RLock()
	o.fsMu.Lock()
	return &ReadLocks{o: o}
}

func (l *ReadLocks) Release() {
	l.o.fsMu.Unlock()
	l.o.propMu.RUnlock()
	l.o.synapseMu.RUnlock()
	l.o.neuronMu.RUnlock()
}
