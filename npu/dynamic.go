// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"

	"github.com/feagi/npu-core/nval"
)

// ValueKind selects which concrete NeuralValue instantiation an Orchestrator
// was constructed with.
type ValueKind int

const (
	// ValueF32 is the uncompressed float32 representation.
	ValueF32 ValueKind = iota
	// ValueINT8 is the 8-bit fixed-point quantized representation.
	ValueINT8
)

func (k ValueKind) String() string {
	switch k {
	case ValueF32:
		return "f32"
	case ValueINT8:
		return "int8"
	default:
		return "unknown"
	}
}

// DynamicNPU wraps an Orchestrator alongside the ValueKind it was built
// with, for callers (e.g. a genome loader reading a "precision" field) that
// don't know the concrete NeuralValue type until runtime.
type DynamicNPU struct {
	Kind ValueKind
	*Orchestrator
}

// NewDynamic constructs an Orchestrator for the requested ValueKind.
func NewDynamic(kind ValueKind, samplerFrequencyHz float64) (*DynamicNPU, error) {
	var zero nval.Value
	switch kind {
	case ValueF32:
		zero = nval.F32(0)
	case ValueINT8:
		zero = nval.INT8Value(0)
	default:
		return nil, fmt.Errorf("npu: unrecognized value kind %v", kind)
	}
	return &DynamicNPU{Kind: kind, Orchestrator: New(zero, samplerFrequencyHz)}, nil
}
