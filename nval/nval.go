// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nval defines the NeuralValue abstraction the NPU core is generic
// over, and its two concrete instantiations: plain float32 and an 8-bit
// quantized fixed-point value. Rather than dynamic dispatch inside the hot
// path, an NPU instance picks one concrete value type at construction; a
// thin wrapper at the outermost layer (see package npu, DynamicNPU) can
// still expose both to callers that don't know the type ahead of time.
package nval

import "github.com/chewxy/math32"

// Value is the set of operations the dynamics and storage layers need from a
// neural scalar type, regardless of its underlying representation.
type Value interface {
	// FromF32 constructs a Value from a float32.
	FromF32(f float32) Value

	// ToF32 converts back to float32, e.g. for reporting or serialization.
	ToF32() float32

	// Zero returns the zero value for this type.
	Zero() Value

	// SaturatingAdd adds other to this value, clamping at the
	// representation's range instead of overflowing/wrapping.
	SaturatingAdd(other Value) Value

	// Ge reports whether this value is greater than or equal to other.
	Ge(other Value) bool
}

// F32 is the float32 instantiation of Value: no quantization, full range.
type F32 float32

func (F32) FromF32(f float32) Value { return F32(f) }
func (v F32) ToF32() float32        { return float32(v) }
func (F32) Zero() Value             { return F32(0) }

func (v F32) SaturatingAdd(other Value) Value {
	o := other.(F32)
	sum := float32(v) + float32(o)
	if math32.IsInf(sum, 1) {
		sum = math32.MaxFloat32
	} else if math32.IsInf(sum, -1) {
		sum = -math32.MaxFloat32
	}
	return F32(sum)
}

func (v F32) Ge(other Value) bool { return float32(v) >= float32(other.(F32)) }

// Int8Scale is the fixed-point scale used by INT8Value: value = raw / Int8Scale.
// A generous range is chosen so that typical membrane-potential and threshold
// magnitudes (roughly [-8, 8)) retain useful precision in 8 bits.
const Int8Scale = 16.0

// INT8Value is a quantized 8-bit fixed-point NeuralValue, used when an NPU
// instance is constructed for reduced precision over large neuron counts.
// Each value is one byte, but neuron.Storage holds its columns as
// []nval.Value interface slices, so storage is not one byte per scalar.
type INT8Value int8

func (INT8Value) FromF32(f float32) Value {
	scaled := f * Int8Scale
	if scaled > 127 {
		scaled = 127
	} else if scaled < -128 {
		scaled = -128
	}
	return INT8Value(int8(math32.Round(scaled)))
}

func (v INT8Value) ToF32() float32 { return float32(v) / Int8Scale }
func (INT8Value) Zero() Value      { return INT8Value(0) }

func (v INT8Value) SaturatingAdd(other Value) Value {
	o := other.(INT8Value)
	sum := int16(v) + int16(o)
	if sum > 127 {
		sum = 127
	} else if sum < -128 {
		sum = -128
	}
	return INT8Value(int8(sum))
}

func (v INT8Value) Ge(other Value) bool { return v.ToF32() >= other.(INT8Value).ToF32() }
