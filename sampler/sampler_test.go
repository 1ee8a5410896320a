package sampler

import (
	"testing"
	"time"

	"github.com/feagi/npu-core/firequeue"
)

func fqAt(timestep uint64) *firequeue.Queue {
	q := firequeue.New()
	q.AddNeuron(firequeue.FiringNeuron{NeuronId: 1, CorticalIdx: 1, X: 1, Y: 2, Z: 3})
	q.SetTimestep(timestep)
	return q
}

func TestSampleEmptyQueueReturnsFalse(t *testing.T) {
	s := New(1000)
	empty := firequeue.New()
	empty.SetTimestep(1)
	_, ok := s.Sample(empty, time.Unix(0, 0))
	if ok {
		t.Errorf("expected Sample to reject an empty queue")
	}
}

func TestSampleDedupSameTimestep(t *testing.T) {
	s := New(1000)
	base := time.Unix(0, 0)
	q := fqAt(5)
	snap, ok := s.Sample(q, base)
	if !ok || snap == nil {
		t.Fatalf("expected first sample to succeed")
	}
	_, ok = s.Sample(fqAt(5), base.Add(2*time.Millisecond))
	if ok {
		t.Errorf("expected dedup to reject same timestep")
	}
}

func TestSampleRateLimited(t *testing.T) {
	s := New(1000) // 1ms interval
	base := time.Unix(0, 0)
	if _, ok := s.Sample(fqAt(1), base); !ok {
		t.Fatalf("expected first sample to succeed")
	}
	if _, ok := s.Sample(fqAt(2), base.Add(100*time.Microsecond)); ok {
		t.Errorf("expected sample within interval to be rejected")
	}
	if _, ok := s.Sample(fqAt(2), base.Add(2*time.Millisecond)); !ok {
		t.Errorf("expected sample after interval elapsed to succeed")
	}
}

func TestGetLatestSampleDoesNotMutateState(t *testing.T) {
	s := New(1000)
	base := time.Unix(0, 0)
	s.Sample(fqAt(1), base)
	before := s.SamplesTaken()
	snap := s.GetLatestSample()
	if snap == nil {
		t.Fatalf("expected cached snapshot")
	}
	if s.SamplesTaken() != before {
		t.Errorf("GetLatestSample mutated samplesTaken")
	}
}

func TestForceSampleBypassesDedup(t *testing.T) {
	s := New(1000)
	base := time.Unix(0, 0)
	s.Sample(fqAt(1), base)
	snap := s.ForceSample(fqAt(1), base)
	if snap == nil {
		t.Fatalf("expected ForceSample to always return a snapshot")
	}
	if s.SamplesTaken() != 2 {
		t.Errorf("SamplesTaken() = %d, want 2", s.SamplesTaken())
	}
}

func TestGetCurrentFireQueueDoesNotTouchState(t *testing.T) {
	s := New(1000)
	snap := s.GetCurrentFireQueue(fqAt(9))
	if snap == nil {
		t.Fatalf("expected a snapshot")
	}
	if s.SamplesTaken() != 0 {
		t.Errorf("expected SamplesTaken unaffected, got %d", s.SamplesTaken())
	}
}
