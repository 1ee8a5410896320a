package propagation

import (
	"testing"

	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/synapse"
)

func TestBuildSynapseIndexSkipsInvalidRows(t *testing.T) {
	store := synapse.NewStorage()
	store.AddSynapse(synapse.Record{Source: 1, Target: 2, PSP: 128, Type: cortex.Excitatory})
	store.AddSynapse(synapse.Record{Source: 1, Target: 3, PSP: 128, Type: cortex.Excitatory})
	store.RemoveSynapsesBetween(1, 3)

	e := New()
	e.BuildSynapseIndex(store)

	areaOf := func(id neuron.Id) (uint32, bool) {
		if id == 2 {
			return 10, true
		}
		return 0, false
	}
	psp := func(uint32) float32 { return 1.0 }

	out := Propagate([]neuron.Id{1}, e, store, areaOf, psp)
	if len(out[10]) != 1 {
		t.Fatalf("expected 1 contribution to area 10, got %d", len(out[10]))
	}
}

func TestPropagateGroupsByTargetArea(t *testing.T) {
	store := synapse.NewStorage()
	store.AddSynapse(synapse.Record{Source: 1, Target: 2, PSP: 255, Type: cortex.Excitatory})
	store.AddSynapse(synapse.Record{Source: 1, Target: 3, PSP: 255, Type: cortex.Inhibitory})

	e := New()
	e.BuildSynapseIndex(store)

	areaOf := func(id neuron.Id) (uint32, bool) {
		switch id {
		case 2:
			return 5, true
		case 3:
			return 5, true
		}
		return 0, false
	}
	psp := func(uint32) float32 { return 1.0 }

	out := Propagate([]neuron.Id{1}, e, store, areaOf, psp)
	contribs := out[5]
	if len(contribs) != 2 {
		t.Fatalf("expected 2 contributions grouped under area 5, got %d", len(contribs))
	}
	var sawPositive, sawNegative bool
	for _, c := range contribs {
		if c.Delta > 0 {
			sawPositive = true
		}
		if c.Delta < 0 {
			sawNegative = true
		}
	}
	if !sawPositive || !sawNegative {
		t.Errorf("expected both excitatory and inhibitory contributions present, got %+v", contribs)
	}
}

func TestPropagateSkipsUnregisteredTargetArea(t *testing.T) {
	store := synapse.NewStorage()
	store.AddSynapse(synapse.Record{Source: 1, Target: 99, PSP: 128, Type: cortex.Excitatory})

	e := New()
	e.BuildSynapseIndex(store)

	areaOf := func(neuron.Id) (uint32, bool) { return 0, false }
	psp := func(uint32) float32 { return 1.0 }

	out := Propagate([]neuron.Id{1}, e, store, areaOf, psp)
	if len(out) != 0 {
		t.Errorf("expected no contributions for an unregistered target area, got %v", out)
	}
}

func TestSetNeuronAreaAndAreaOf(t *testing.T) {
	e := New()
	id := cortex.NewID(cortex.KindInput, "vis", 0, 0)
	e.SetNeuronArea(1, id)
	got, ok := e.AreaOf(1)
	if !ok || got != id {
		t.Errorf("AreaOf(1) = (%v, %v), want (%v, true)", got, ok, id)
	}
}
