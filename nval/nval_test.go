package nval

import "testing"

func TestF32SaturatingAdd(t *testing.T) {
	var zero F32
	got := zero.SaturatingAdd(F32(1.5))
	if got.ToF32() != 1.5 {
		t.Errorf("got %v, want 1.5", got.ToF32())
	}
}

func TestF32Ge(t *testing.T) {
	if !F32(1.0).Ge(F32(1.0)) {
		t.Errorf("expected 1.0 >= 1.0")
	}
	if F32(0.5).Ge(F32(1.0)) {
		t.Errorf("expected 0.5 < 1.0")
	}
}

func TestINT8RoundTrip(t *testing.T) {
	v := INT8Value(0).FromF32(2.0)
	got := v.ToF32()
	if math32Abs(got-2.0) > 1.0/Int8Scale {
		t.Errorf("round trip: got %v, want ~2.0", got)
	}
}

func TestINT8Saturation(t *testing.T) {
	v := INT8Value(0).FromF32(1000.0)
	if v.(INT8Value) != 127 {
		t.Errorf("expected clamp to 127, got %v", v)
	}
	v = INT8Value(0).FromF32(-1000.0)
	if v.(INT8Value) != -128 {
		t.Errorf("expected clamp to -128, got %v", v)
	}
}

func TestINT8SaturatingAdd(t *testing.T) {
	a := INT8Value(120)
	b := INT8Value(120)
	sum := a.SaturatingAdd(b)
	if sum.(INT8Value) != 127 {
		t.Errorf("expected saturation at 127, got %v", sum)
	}
}

func math32Abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
