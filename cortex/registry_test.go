package cortex

import "testing"

func TestRegistryAdmitAssignsDenseIdx(t *testing.T) {
	r := NewRegistry()
	a := DefaultArea(NewID(KindCustom, "a01", 0, 0), "area_a", 0, Shape{W: 2, H: 2, D: 1})
	idx := r.Admit(a)
	if idx != 2 {
		t.Errorf("first admitted area idx = %d, want 2", idx)
	}
	b := DefaultArea(NewID(KindCustom, "b01", 0, 0), "area_b", 0, Shape{W: 2, H: 2, D: 1})
	idx2 := r.Admit(b)
	if idx2 != 3 {
		t.Errorf("second admitted area idx = %d, want 3", idx2)
	}
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()
	id := NewID(KindInput, "vis", 0, 0)
	a := DefaultArea(id, "vision", 0, Shape{W: 4, H: 4, D: 1})
	idx := r.Admit(a)

	if got, ok := r.IdxByName("vision"); !ok || got != idx {
		t.Errorf("IdxByName: got (%d, %v), want (%d, true)", got, ok, idx)
	}
	if got, ok := r.IdxByID(id); !ok || got != idx {
		t.Errorf("IdxByID: got (%d, %v), want (%d, true)", got, ok, idx)
	}
	if got, ok := r.ByIdx(idx); !ok || got.Name != "vision" {
		t.Errorf("ByIdx: got (%+v, %v)", got, ok)
	}
	if _, ok := r.ByIdx(999); ok {
		t.Errorf("ByIdx(999) should not be found")
	}
}

func TestRegistryUpdateRenamesIndex(t *testing.T) {
	r := NewRegistry()
	id := NewID(KindOutput, "mot", 0, 0)
	idx := r.Admit(DefaultArea(id, "motor", 0, Shape{W: 1, H: 1, D: 1}))

	ok := r.Update(idx, func(a *Area) { a.Name = "motor_v2" })
	if !ok {
		t.Fatalf("Update returned false")
	}
	if _, found := r.IdxByName("motor"); found {
		t.Errorf("old name still resolves after rename")
	}
	if got, found := r.IdxByName("motor_v2"); !found || got != idx {
		t.Errorf("IdxByName(new) = (%d, %v), want (%d, true)", got, found, idx)
	}
}

func TestRegistryCountAndAll(t *testing.T) {
	r := NewRegistry()
	r.Admit(DefaultArea(NewID(KindCustom, "a01", 0, 0), "a", 0, Shape{W: 1, H: 1, D: 1}))
	r.Admit(DefaultArea(NewID(KindCustom, "a02", 0, 0), "b", 0, Shape{W: 1, H: 1, D: 1}))
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	if len(r.All()) != 2 {
		t.Errorf("All() len = %d, want 2", len(r.All()))
	}
}
