package paramqueue

import "testing"

func TestPushDrainPreservesOrder(t *testing.T) {
	q := New()
	q.Push(Update{CorticalIdx: 1, Param: ParamThreshold, Value: 1.0})
	q.Push(Update{CorticalIdx: 1, Param: ParamThreshold, Value: 2.0})
	q.Push(Update{CorticalIdx: 2, Param: ParamLeakCoefficient, Value: 0.1})

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	if got[0].Value != 1.0 || got[1].Value != 2.0 || got[2].Param != ParamLeakCoefficient {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestDrainEmptiesQueue(t *testing.T) {
	q := New()
	q.Push(Update{CorticalIdx: 1, Param: ParamThreshold, Value: 1.0})
	q.Drain()
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("expected second Drain to be empty, got %+v", got)
	}
}

func TestIdempotentApplicationOfSameUpdate(t *testing.T) {
	applied := make(map[uint32]float32)
	apply := func(u Update) { applied[u.CorticalIdx] = u.Value }

	q := New()
	q.Push(Update{CorticalIdx: 1, Param: ParamThreshold, Value: 5.0})
	for _, u := range q.Drain() {
		apply(u)
	}
	q.Push(Update{CorticalIdx: 1, Param: ParamThreshold, Value: 5.0})
	for _, u := range q.Drain() {
		apply(u)
	}
	if applied[1] != 5.0 {
		t.Errorf("applying the same update twice should be equivalent to once, got %v", applied[1])
	}
}

func TestOverflowPastChannelCapacity(t *testing.T) {
	q := New()
	for i := 0; i < chanCapacity+10; i++ {
		q.Push(Update{CorticalIdx: 1, Param: ParamThreshold, Value: float32(i)})
	}
	got := q.Drain()
	if len(got) != chanCapacity+10 {
		t.Fatalf("len(got) = %d, want %d", len(got), chanCapacity+10)
	}
	last := got[len(got)-1]
	if last.Value != float32(chanCapacity+9) {
		t.Errorf("last update value = %v, want %v", last.Value, chanCapacity+9)
	}
}
