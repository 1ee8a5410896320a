// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package npu is the NPU orchestrator: it owns neuron storage, synapse
// storage, the propagation engine, and the fire structures, and drives the
// six-phase burst pipeline over them. It is the one place in the core that
// acquires more than one of those locks at a time, always in the order
// Locks documents; the burst pipeline takes them through Locks.
package npu

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/dynamics"
	"github.com/feagi/npu-core/fcl"
	"github.com/feagi/npu-core/firequeue"
	"github.com/feagi/npu-core/ledger"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/npulog"
	"github.com/feagi/npu-core/nval"
	"github.com/feagi/npu-core/paramqueue"
	"github.com/feagi/npu-core/propagation"
	"github.com/feagi/npu-core/sampler"
	"github.com/feagi/npu-core/synapse"
)

// sensoryInjection is one staged (neuron, potential) pair awaiting the next
// burst's injection phase.
type sensoryInjection struct {
	Id        neuron.Id
	Potential float32
}

// Orchestrator holds every piece of per-instance state and drives the
// burst pipeline. The zero value is not usable; construct with New.
type Orchestrator struct {
	neuronMu sync.RWMutex
	neurons  *neuron.Storage

	synapseMu sync.RWMutex
	synapses  *synapse.Storage

	propMu sync.RWMutex
	prop   *propagation.Engine

	// fire-structures: exclusive, held only for a burst body or a short
	// snapshot/inspection call.
	fsMu            sync.Mutex
	candidates      *fcl.List
	prevFQ          *firequeue.Queue
	currFQ          *firequeue.Queue
	lastFCLSnapshot *fcl.List
	pendingSensory  []sensoryInjection
	ledger          *ledger.Ledger
	sampler         *sampler.Sampler
	paramQueue      *paramqueue.Queue
	memoryAreas     map[neuron.Id]uint32

	burstCount      uint64 // atomic
	powerAmountBits uint32 // atomic; float32 bits, see math.Float32bits

	registry *cortex.Registry

	threadReport string
}

// New returns an empty Orchestrator for the given concrete NeuralValue
// zero value (nval.F32(0) or nval.INT8Value(0)) and FQ sampler frequency.
// The "_power" area is pre-admitted into the registry at cortex.PowerAreaIdx
// so power injection has a home before any genome loads.
func New(zero nval.Value, samplerFrequencyHz float64) *Orchestrator {
	registry := cortex.NewRegistry()
	powerID := cortex.NewID(cortex.KindCore, "pwr", 0, 0)
	powerArea := cortex.DefaultArea(powerID, "_power", cortex.PowerAreaIdx, cortex.Shape{W: 1, H: 1, D: 1})
	registry.Admit(powerArea)

	return &Orchestrator{
		neurons:     neuron.NewStorage(zero, 0),
		synapses:    synapse.NewStorage(),
		prop:        propagation.New(),
		candidates:  fcl.New(),
		prevFQ:      firequeue.New(),
		currFQ:      firequeue.New(),
		ledger:      ledger.New(),
		sampler:     sampler.New(samplerFrequencyHz),
		paramQueue:  paramqueue.New(),
		memoryAreas: make(map[neuron.Id]uint32),
		registry:    registry,
	}
}

// Coordinates returns the neuron's stored (x,y,z) position.
func (o *Orchestrator) Coordinates(id neuron.Id) (neuron.Coordinates, bool) {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	if !o.neurons.IsValid(id) {
		return neuron.Coordinates{}, false
	}
	return o.neurons.CoordinateOf(id), true
}

// BurstCount returns the current burst counter, a lock-free atomic read.
func (o *Orchestrator) BurstCount() uint64 { return atomic.LoadUint64(&o.burstCount) }

// NeuronCount returns the number of allocated neuron rows (valid or not), a
// short read-locked call.
func (o *Orchestrator) NeuronCount() int {
	o.neuronMu.RLock()
	defer o.neuronMu.RUnlock()
	return o.neurons.Count()
}

// SynapseCount returns the number of allocated synapse rows.
func (o *Orchestrator) SynapseCount() int {
	o.synapseMu.RLock()
	defer o.synapseMu.RUnlock()
	return o.synapses.Count()
}

// SetPowerAmount atomically sets the scalar injected into every power-area
// neuron's candidate each burst.
func (o *Orchestrator) SetPowerAmount(amount float32) {
	atomic.StoreUint32(&o.powerAmountBits, math.Float32bits(amount))
}

// PowerAmount atomically reads the current power amount.
func (o *Orchestrator) PowerAmount() float32 {
	return math.Float32frombits(atomic.LoadUint32(&o.powerAmountBits))
}

// RegisterMemoryArea wires a memory-area candidate NeuronId to the
// cortical_idx it force-fires into, per the reserved >= 50,000,000 id
// range's side map.
func (o *Orchestrator) RegisterMemoryArea(id neuron.Id, corticalIdx uint32) {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	o.memoryAreas[id] = corticalIdx
}

// BurstResult summarizes one process_burst call.
type BurstResult struct {
	Burst           uint64
	PowerInjections int
	NeuronsFired    int
	FiredNeuronIds  []neuron.Id
}

// ProcessBurst runs the six-phase burst pipeline once, monotonically
// incrementing the burst counter. It holds every lock via Locks for the whole
// burst, so no other burst or locked call runs concurrently with it; a
// row-chunked ResizeArea releases its lock between chunks, so bursts may run
// between those chunks.
func (o *Orchestrator) ProcessBurst() BurstResult {
	locks := o.Acquire()
	defer locks.Release()

	burst := atomic.AddUint64(&o.burstCount, 1)

	o.applyParamUpdatesLocked()

	dynamics.ResetUnaccumulated(o.neurons)
	o.candidates.Clear()

	for _, inj := range o.pendingSensory {
		o.candidates.AddCandidate(inj.Id, inj.Potential)
	}
	o.pendingSensory = o.pendingSensory[:0]

	powerInjections := o.injectPowerLocked()

	if !o.prevFQ.IsEmpty() {
		o.propagatePreviousLocked()
	}

	result := dynamics.Run(o.candidates, o.neurons, burst, o.memoryAreas)
	newFQ := result.FireQueue
	o.threadReport = fmt.Sprintf("burst %d: %d neurons processed sequentially on the scalar path", burst, result.NeuronsProcessed)

	o.ledger.ArchiveBurst(burst, newFQ)

	o.prevFQ = newFQ
	o.currFQ = newFQ

	o.sampler.Sample(o.currFQ, time.Now())

	o.lastFCLSnapshot = o.candidates.Clone()
	o.candidates.Clear()

	return BurstResult{
		Burst:           burst,
		PowerInjections: powerInjections,
		NeuronsFired:    result.NeuronsFired,
		FiredNeuronIds:  newFQ.GetAllNeuronIds(),
	}
}

// injectPowerLocked scans valid neurons in the reserved power area and adds
// the current power amount to each as a candidate. Caller must hold both
// the neuron and fire-structures locks (true during ProcessBurst).
func (o *Orchestrator) injectPowerLocked() int {
	amount := o.PowerAmount()
	areas := o.neurons.CorticalArea()
	valid := o.neurons.ValidMask()
	injected := 0
	for row, ok := range valid {
		if ok && areas[row] == cortex.PowerAreaIdx {
			o.candidates.AddCandidate(neuron.Id(row), amount)
			injected++
		}
	}
	return injected
}

// propagatePreviousLocked folds the previous burst's firings across
// synapses into the candidate list for this burst.
func (o *Orchestrator) propagatePreviousLocked() {
	firedIds := o.prevFQ.GetAllNeuronIds()
	areaOf := func(id neuron.Id) (uint32, bool) {
		if int(id) >= o.neurons.Count() || !o.neurons.IsValid(id) {
			return 0, false
		}
		return o.neurons.CorticalArea()[id], true
	}
	pspScale := func(area uint32) float32 {
		a, ok := o.registry.ByIdx(area)
		if !ok {
			return 1.0
		}
		return a.PostsynapticCurrent
	}
	grouped := propagation.Propagate(firedIds, o.prop, o.synapses, areaOf, pspScale)
	for _, contribs := range grouped {
		for _, c := range contribs {
			o.candidates.AddCandidate(c.Target, c.Delta)
		}
	}
}

// InjectSensoryXYZP looks up rows for each (x,y,z) point in area, filters
// misses, and stages the hits into pending_sensory_injections under the
// fire-structures lock. Returns the count successfully staged.
func (o *Orchestrator) InjectSensoryXYZP(area uint32, points []neuron.Coordinates, potentials []float32) int {
	o.neuronMu.RLock()
	results := o.neurons.BatchCoordinateLookup(area, points)
	o.neuronMu.RUnlock()

	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	staged := 0
	for i, r := range results {
		if !r.Ok {
			continue
		}
		o.pendingSensory = append(o.pendingSensory, sensoryInjection{Id: r.Id, Potential: potentials[i]})
		staged++
	}
	return staged
}

// InjectSensoryBatch adds directly to the candidate list, bypassing the
// staged pending_sensory_injections path. Callers MUST guarantee this is
// not invoked mid-burst; otherwise use InjectSensoryXYZP.
func (o *Orchestrator) InjectSensoryBatch(ids []neuron.Id, potential float32) {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	for _, id := range ids {
		o.candidates.AddCandidate(id, potential)
	}
}

// applyParamUpdatesLocked drains the parameter update queue and applies
// every entry to its area's valid neurons. Caller must hold the neuron
// write lock (true during ProcessBurst, before Phase 2).
func (o *Orchestrator) applyParamUpdatesLocked() {
	updates := o.paramQueue.Drain()
	for _, u := range updates {
		o.applyParamUpdate(u)
	}
}

func (o *Orchestrator) applyParamUpdate(u paramqueue.Update) {
	switch u.Param {
	case paramqueue.ParamThreshold:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.Threshold()[row] = o.neurons.Zero().FromF32(u.Value) })
	case paramqueue.ParamThresholdLimit:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.ThresholdLimit()[row] = o.neurons.Zero().FromF32(u.Value) })
	case paramqueue.ParamRestingPotential:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.RestingPotential()[row] = o.neurons.Zero().FromF32(u.Value) })
	case paramqueue.ParamLeakCoefficient:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.LeakCoefficient()[row] = u.Value })
	case paramqueue.ParamRefractoryPeriod:
		ids := o.neurons.NeuronsInArea(u.CorticalIdx)
		o.neurons.BatchSetRefractoryPeriod(ids, uint16(u.Value))
	case paramqueue.ParamExcitability:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.Excitability()[row] = u.Value })
	case paramqueue.ParamConsecutiveFireLimit:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.ConsecutiveFireLimit()[row] = uint16(u.Value) })
	case paramqueue.ParamSnoozePeriod:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.SnoozePeriod()[row] = uint16(u.Value) })
	case paramqueue.ParamMPChargeAccumulation:
		o.neurons.SetByArea(u.CorticalIdx, func(row int) { o.neurons.MPChargeAccumulation()[row] = u.Value != 0 })
	case paramqueue.ParamPostsynapticCurrent:
		o.registry.Update(u.CorticalIdx, func(a *cortex.Area) { a.PostsynapticCurrent = u.Value })
	case paramqueue.ParamTemporalDepth:
		o.registry.Update(u.CorticalIdx, func(a *cortex.Area) { a.TemporalDepth = uint32(u.Value) })
		o.ledger.GrowAreaWindow(u.CorticalIdx, int(u.Value))
	default:
		npulog.Warnf("unrecognized parameter update kind %v for area %d, skipped", u.Param, u.CorticalIdx)
	}
}

// EnqueueParamUpdate pushes a parameter change onto the queue the next
// burst will drain.
func (o *Orchestrator) EnqueueParamUpdate(u paramqueue.Update) { o.paramQueue.Push(u) }

// GetFCLClone returns a deep copy of the live candidate list.
func (o *Orchestrator) GetFCLClone() *fcl.List {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	return o.candidates.Clone()
}

// GetLastFCLSnapshot returns the candidate list as it stood at the end of
// the most recently completed burst.
func (o *Orchestrator) GetLastFCLSnapshot() *fcl.List {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	if o.lastFCLSnapshot == nil {
		return fcl.New()
	}
	return o.lastFCLSnapshot.Clone()
}

// GetFireLedgerHistory returns up to lookback archived entries for area,
// newest first.
func (o *Orchestrator) GetFireLedgerHistory(area uint32, lookback int) []ledger.Entry {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	return o.ledger.GetHistory(area, lookback)
}

// GetAreaWindowSize returns the fire ledger's configured ring size for area.
func (o *Orchestrator) GetAreaWindowSize(area uint32) int {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	return o.ledger.GetAreaWindowSize(area)
}

// GetLatestFireQueueSample returns the sampler's cached snapshot.
func (o *Orchestrator) GetLatestFireQueueSample() *sampler.Snapshot {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	return o.sampler.GetLatestSample()
}

// SampleFireQueue attempts a rate-limited, deduplicated sample of the
// current fire queue.
func (o *Orchestrator) SampleFireQueue(now time.Time) (*sampler.Snapshot, bool) {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	return o.sampler.Sample(o.currFQ, now)
}

// ForceSampleFireQueue bypasses rate limiting and dedup.
func (o *Orchestrator) ForceSampleFireQueue(now time.Time) *sampler.Snapshot {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	return o.sampler.ForceSample(o.currFQ, now)
}

// SizeReport returns a human-readable memory footprint for the neuron and
// synapse stores.
func (o *Orchestrator) SizeReport() string {
	o.neuronMu.RLock()
	o.synapseMu.RLock()
	defer o.synapseMu.RUnlock()
	defer o.neuronMu.RUnlock()

	const neuronRowBytes = 64 // approximate SoA row footprint across all columns
	const synapseRowBytes = 16

	neuronBytes := datasize.ByteSize(uint64(o.neurons.Count()) * neuronRowBytes)
	synapseBytes := datasize.ByteSize(uint64(o.synapses.Count()) * synapseRowBytes)

	return fmt.Sprintf(
		"neurons: %d rows, %s | synapses: %d rows, %s",
		o.neurons.Count(), neuronBytes.HumanReadable(),
		o.synapses.Count(), synapseBytes.HumanReadable(),
	)
}

// ThreadReport describes how the last burst's dynamics phase ran. The NPU is
// a single hot loop rather than a layer-parallel net and has no batched
// path, so there is no per-layer-thread assignment to report; this instead
// reports how many neurons the last burst processed sequentially on the
// scalar path.
func (o *Orchestrator) ThreadReport() string {
	o.fsMu.Lock()
	defer o.fsMu.Unlock()
	if o.threadReport == "" {
		return "no burst processed yet"
	}
	return o.threadReport
}
