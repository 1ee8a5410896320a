package fcl

import (
	"testing"

	"github.com/feagi/npu-core/neuron"
)

func TestAddCandidateAccumulates(t *testing.T) {
	l := New()
	l.AddCandidate(5, 0.3)
	l.AddCandidate(5, 0.4)
	got, ok := l.Get(5)
	if !ok {
		t.Fatalf("expected candidate 5 present")
	}
	if got < 0.69 || got > 0.71 {
		t.Errorf("got %v, want ~0.7", got)
	}
}

func TestClearEmptiesList(t *testing.T) {
	l := New()
	l.AddCandidate(1, 1.0)
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", l.Len())
	}
	if _, ok := l.Get(1); ok {
		t.Errorf("expected candidate gone after Clear")
	}
}

func TestIterYieldsAllEntries(t *testing.T) {
	l := New()
	l.AddCandidate(1, 1.0)
	l.AddCandidate(2, 2.0)
	entries := l.Iter()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	seen := map[neuron.Id]float32{}
	for _, e := range entries {
		seen[e.Id] = e.Accum
	}
	if seen[1] != 1.0 || seen[2] != 2.0 {
		t.Errorf("unexpected entries: %v", seen)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := New()
	l.AddCandidate(1, 1.0)
	cp := l.Clone()
	cp.AddCandidate(1, 5.0)
	orig, _ := l.Get(1)
	if orig != 1.0 {
		t.Errorf("original mutated via clone: got %v", orig)
	}
}
