package neuron

import (
	"testing"

	"github.com/feagi/npu-core/nval"
)

func newTestParams(area uint32, x, y, z uint32) Params {
	return Params{
		MembranePotential:    nval.F32(0),
		Threshold:            nval.F32(1.0),
		RestingPotential:     nval.F32(0),
		LeakCoefficient:      0.1,
		RefractoryPeriod:     2,
		Excitability:         1.0,
		ConsecutiveFireLimit: 0,
		SnoozePeriod:         0,
		CorticalArea:         area,
		Coordinates:          Coordinates{X: x, Y: y, Z: z},
	}
}

func TestAddNeuronAssignsSequentialRows(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	a := s.AddNeuron(newTestParams(1, 0, 0, 0))
	b := s.AddNeuron(newTestParams(1, 1, 0, 0))
	if a != 0 || b != 1 {
		t.Errorf("got ids %d, %d, want 0, 1", a, b)
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
}

func TestBatchAddAllOrNothingOnCapacity(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	params := make([]Params, 5)
	for i := range params {
		params[i] = newTestParams(1, uint32(i), 0, 0)
	}
	_, err := s.BatchAdd(params, 3)
	if err == nil {
		t.Fatalf("expected CapacityExceeded error")
	}
	if s.Count() != 0 {
		t.Errorf("expected no rows added on failure, got Count()=%d", s.Count())
	}
}

func TestDeleteNeuronKeepsRowInvalid(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id := s.AddNeuron(newTestParams(1, 0, 0, 0))
	if !s.DeleteNeuron(id) {
		t.Fatalf("DeleteNeuron returned false")
	}
	if s.IsValid(id) {
		t.Errorf("expected row to be invalid after delete")
	}
	if s.Count() != 1 {
		t.Errorf("expected row to remain allocated, Count()=%d", s.Count())
	}
}

func TestCoordinateLookupRoundTrip(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id := s.AddNeuron(newTestParams(2, 3, 4, 5))
	got, ok := s.LookupCoordinate(2, Coordinates{X: 3, Y: 4, Z: 5})
	if !ok || got != id {
		t.Errorf("LookupCoordinate = (%d, %v), want (%d, true)", got, ok, id)
	}
	if _, ok := s.LookupCoordinate(2, Coordinates{X: 9, Y: 9, Z: 9}); ok {
		t.Errorf("expected miss for unregistered coordinate")
	}
}

func TestCoordinateLookupMissingAfterDelete(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id := s.AddNeuron(newTestParams(1, 1, 1, 1))
	s.DeleteNeuron(id)
	if _, ok := s.LookupCoordinate(1, Coordinates{X: 1, Y: 1, Z: 1}); ok {
		t.Errorf("expected coordinate lookup to miss after delete")
	}
}

func TestBatchCoordinateLookup(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id0 := s.AddNeuron(newTestParams(1, 0, 0, 0))
	results := s.BatchCoordinateLookup(1, []Coordinates{{0, 0, 0}, {9, 9, 9}})
	if !results[0].Ok || results[0].Id != id0 {
		t.Errorf("results[0] = %+v, want hit at %d", results[0], id0)
	}
	if results[1].Ok {
		t.Errorf("results[1] should miss")
	}
}

func TestSetRefractoryPeriodDoesNotTouchCountdown(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id := s.AddNeuron(newTestParams(1, 0, 0, 0))
	s.RefractoryCountdown()[id] = 7
	s.SetRefractoryPeriod(id, 3)
	if s.RefractoryCountdown()[id] != 7 {
		t.Errorf("expected countdown untouched, got %d", s.RefractoryCountdown()[id])
	}
	if s.RefractoryPeriod()[id] != 3 {
		t.Errorf("expected period updated to 3, got %d", s.RefractoryPeriod()[id])
	}
}

func TestSetRefractoryPeriodZeroClearsCountdown(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id := s.AddNeuron(newTestParams(1, 0, 0, 0))
	s.RefractoryCountdown()[id] = 7
	s.ConsecutiveFireCount()[id] = 2
	s.SetRefractoryPeriod(id, 0)
	if s.RefractoryCountdown()[id] != 0 {
		t.Errorf("expected countdown cleared, got %d", s.RefractoryCountdown()[id])
	}
	if s.ConsecutiveFireCount()[id] != 0 {
		t.Errorf("expected consecutive fire count reset, got %d", s.ConsecutiveFireCount()[id])
	}
}

func TestSetRefractoryPeriodImmediate(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	id := s.AddNeuron(newTestParams(1, 0, 0, 0))
	s.SetRefractoryPeriodImmediate(id, 5)
	if s.RefractoryCountdown()[id] != 5 {
		t.Errorf("expected countdown = 5, got %d", s.RefractoryCountdown()[id])
	}
}

func TestSetByArea(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	s.AddNeuron(newTestParams(1, 0, 0, 0))
	s.AddNeuron(newTestParams(2, 1, 0, 0))
	s.AddNeuron(newTestParams(1, 2, 0, 0))
	applied := s.SetByArea(1, func(row int) { s.Excitability()[row] = 0.5 })
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if s.Excitability()[1] != 1.0 {
		t.Errorf("area-2 neuron should be untouched, got %v", s.Excitability()[1])
	}
}

func TestNeuronsInAreaSkipsInvalid(t *testing.T) {
	s := NewStorage(nval.F32(0), 0)
	a := s.AddNeuron(newTestParams(1, 0, 0, 0))
	s.AddNeuron(newTestParams(1, 1, 0, 0))
	s.DeleteNeuron(a)
	ids := s.NeuronsInArea(1)
	if len(ids) != 1 {
		t.Errorf("NeuronsInArea len = %d, want 1", len(ids))
	}
}
