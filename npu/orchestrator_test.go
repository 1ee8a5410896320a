// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"testing"

	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/firequeue"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/nval"
	"github.com/feagi/npu-core/paramqueue"
	"github.com/feagi/npu-core/synapse"
)

func addPowerNeuron(o *Orchestrator, threshold, leak, refractory float32) neuron.Id {
	return o.neurons.AddNeuron(neuron.Params{
		MembranePotential: nval.F32(0),
		Threshold:         nval.F32(threshold),
		RestingPotential:  nval.F32(0),
		LeakCoefficient:   leak,
		RefractoryPeriod:  uint16(refractory),
		Excitability:      1.0,
		CorticalArea:      cortex.PowerAreaIdx,
	})
}

func TestPowerOnlyStartup(t *testing.T) {
	o := New(nval.F32(0), 0)
	for i := 0; i < 5; i++ {
		addPowerNeuron(o, 1.0, 0, 5)
	}
	// five non-power neurons that must never see a power injection
	for i := 0; i < 5; i++ {
		o.neurons.AddNeuron(neuron.Params{
			MembranePotential: nval.F32(0),
			Threshold:         nval.F32(1.0),
			Excitability:      1.0,
			CorticalArea:      99,
		})
	}
	o.SetPowerAmount(1.0)

	r1 := o.ProcessBurst()
	if r1.PowerInjections != 5 {
		t.Fatalf("burst 1 power_injections = %d, want 5", r1.PowerInjections)
	}
	if r1.NeuronsFired != 5 {
		t.Fatalf("burst 1 neurons_fired = %d, want 5", r1.NeuronsFired)
	}

	r2 := o.ProcessBurst()
	if r2.NeuronsFired != 0 {
		t.Fatalf("burst 2 neurons_fired = %d, want 0 (all in refractory)", r2.NeuronsFired)
	}
}

func TestLateGenomeLoadStartsAtZeroInjections(t *testing.T) {
	o := New(nval.F32(0), 0)

	r1 := o.ProcessBurst()
	if r1.PowerInjections != 0 || r1.NeuronsFired != 0 {
		t.Fatalf("empty-storage burst: got %+v, want zero injections and firings", r1)
	}

	o.SetPowerAmount(0.5)
	for i := 0; i < 10; i++ {
		addPowerNeuron(o, 0.5, 0, 0)
	}

	r2 := o.ProcessBurst()
	if r2.PowerInjections != 10 {
		t.Fatalf("burst 2 power_injections = %d, want 10", r2.PowerInjections)
	}
	if r2.NeuronsFired != 10 {
		t.Fatalf("burst 2 neurons_fired = %d, want 10", r2.NeuronsFired)
	}
}

func TestZeroCapacityBurstNoPanic(t *testing.T) {
	o := New(nval.F32(0), 0)
	r := o.ProcessBurst()
	if r.NeuronsFired != 0 || r.PowerInjections != 0 {
		t.Fatalf("zero-capacity burst = %+v, want all zero", r)
	}
	if o.NeuronCount() != 0 {
		t.Fatalf("neuron_count = %d, want 0", o.NeuronCount())
	}
}

func TestInhibitoryDominanceEndToEnd(t *testing.T) {
	o := New(nval.F32(0), 0)

	excArea := o.registry.Admit(cortex.DefaultArea(cortex.NewID(cortex.KindCustom, "exc", 0, 0), "exc_target", 0, cortex.Shape{}))
	inhArea := o.registry.Admit(cortex.DefaultArea(cortex.NewID(cortex.KindCustom, "inh", 0, 0), "inh_target", 0, cortex.Shape{}))

	source := o.neurons.AddNeuron(neuron.Params{CorticalArea: 0})
	excTarget := o.neurons.AddNeuron(neuron.Params{CorticalArea: excArea})
	inhTarget := o.neurons.AddNeuron(neuron.Params{CorticalArea: inhArea})

	o.synapses.AddSynapse(synapse.Record{
		Source: synapse.NeuronId(source), Target: synapse.NeuronId(excTarget),
		PSP: 128, Type: cortex.Excitatory,
	})
	o.synapses.AddSynapse(synapse.Record{
		Source: synapse.NeuronId(source), Target: synapse.NeuronId(inhTarget),
		PSP: 128, Type: cortex.Inhibitory,
	})
	o.prop.BuildSynapseIndex(o.synapses)

	o.prevFQ = firequeue.New()
	o.prevFQ.AddNeuron(firequeue.FiringNeuron{NeuronId: source})

	o.propagatePreviousLocked()

	excDelta, ok := o.candidates.Get(excTarget)
	if !ok || excDelta <= 0 {
		t.Fatalf("excitatory target delta = %v, ok=%v, want positive", excDelta, ok)
	}
	inhDelta, ok := o.candidates.Get(inhTarget)
	if !ok || inhDelta >= 0 {
		t.Fatalf("inhibitory target delta = %v, ok=%v, want negative", inhDelta, ok)
	}
	if excDelta != -inhDelta {
		t.Errorf("expected symmetric magnitude: exc=%v inh=%v", excDelta, inhDelta)
	}
}

func TestParameterUpdateAppliedNextBurst(t *testing.T) {
	o := New(nval.F32(0), 0)
	area := o.registry.Admit(cortex.DefaultArea(cortex.NewID(cortex.KindCustom, "tgt", 0, 0), "target", 0, cortex.Shape{}))
	n := o.neurons.AddNeuron(neuron.Params{CorticalArea: area, Threshold: nval.F32(1.0), Excitability: 1.0})

	o.EnqueueParamUpdate(paramqueue.Update{CorticalIdx: area, Param: paramqueue.ParamThreshold, Value: 0.25})
	o.ProcessBurst()

	got := o.neurons.Threshold()[n].ToF32()
	if got != 0.25 {
		t.Errorf("threshold after enqueue+burst = %v, want 0.25", got)
	}
}

func TestSizeReportDoesNotPanicWhenEmpty(t *testing.T) {
	o := New(nval.F32(0), 0)
	if o.SizeReport() == "" {
		t.Errorf("expected non-empty size report")
	}
}
