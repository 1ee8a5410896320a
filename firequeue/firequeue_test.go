package firequeue

import "testing"

func TestAddNeuronPreservesInsertionOrder(t *testing.T) {
	q := New()
	q.AddNeuron(FiringNeuron{NeuronId: 1, CorticalIdx: 5})
	q.AddNeuron(FiringNeuron{NeuronId: 2, CorticalIdx: 5})
	q.AddNeuron(FiringNeuron{NeuronId: 3, CorticalIdx: 6})

	area5 := q.GetAreaNeurons(5)
	if len(area5) != 2 || area5[0].NeuronId != 1 || area5[1].NeuronId != 2 {
		t.Errorf("got %+v, want insertion order [1, 2]", area5)
	}
}

func TestTotalNeuronsAndIsEmpty(t *testing.T) {
	q := New()
	if !q.IsEmpty() {
		t.Errorf("expected empty queue")
	}
	q.AddNeuron(FiringNeuron{NeuronId: 1, CorticalIdx: 1})
	if q.IsEmpty() {
		t.Errorf("expected non-empty queue")
	}
	if q.TotalNeurons() != 1 {
		t.Errorf("TotalNeurons() = %d, want 1", q.TotalNeurons())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	q := New()
	q.AddNeuron(FiringNeuron{NeuronId: 1, CorticalIdx: 1})
	cp := q.Clone()
	cp.AddNeuron(FiringNeuron{NeuronId: 2, CorticalIdx: 1})
	if q.TotalNeurons() != 1 {
		t.Errorf("original mutated via clone, TotalNeurons()=%d", q.TotalNeurons())
	}
}

func TestResetClearsAndSetsTimestep(t *testing.T) {
	q := New()
	q.AddNeuron(FiringNeuron{NeuronId: 1, CorticalIdx: 1})
	q.Reset(42)
	if !q.IsEmpty() {
		t.Errorf("expected empty queue after Reset")
	}
	if q.Timestep() != 42 {
		t.Errorf("Timestep() = %d, want 42", q.Timestep())
	}
}

func TestGetAllNeuronIds(t *testing.T) {
	q := New()
	q.AddNeuron(FiringNeuron{NeuronId: 1, CorticalIdx: 1})
	q.AddNeuron(FiringNeuron{NeuronId: 2, CorticalIdx: 2})
	ids := q.GetAllNeuronIds()
	if len(ids) != 2 {
		t.Errorf("len(ids) = %d, want 2", len(ids))
	}
}
