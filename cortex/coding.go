// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cortex

// SynapseType distinguishes the sign of a synapse's contribution to its
// target's membrane potential.
type SynapseType uint8

const (
	Excitatory SynapseType = iota
	Inhibitory
)

// Sign returns +1 for Excitatory and -1 for Inhibitory.
func (t SynapseType) Sign() float32 {
	if t == Inhibitory {
		return -1
	}
	return 1
}

func (t SynapseType) String() string {
	if t == Inhibitory {
		return "inhibitory"
	}
	return "excitatory"
}

// CodingKind is the closed enumeration of IO-encoding families a sensor or
// motor device's encoder/decoder (out of this core's scope) may tag a
// cortical area with. The core never interprets it, and Area has no field
// that carries it, so the core does not store or round-trip the tag.
type CodingKind uint8

const (
	CodingPercentage CodingKind = iota
	CodingSigned
	CodingCartesian
	CodingMisc
	CodingBoolean
)

func (k CodingKind) String() string {
	switch k {
	case CodingPercentage:
		return "percentage"
	case CodingSigned:
		return "signed"
	case CodingCartesian:
		return "cartesian"
	case CodingMisc:
		return "misc"
	case CodingBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// CodingMode is orthogonal to CodingKind: whether successive values are
// interpreted relative to the previous one (Incremental) or stand alone
// (Absolute), and whether magnitude is Linear or Fractional.
type CodingMode struct {
	Incremental bool
	Fractional  bool
}

// Coding pairs a CodingKind with its CodingMode; both fields are always
// present, whatever the kind.
type Coding struct {
	Kind CodingKind
	Mode CodingMode
}
