// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cortex holds the cortical-area data model: the CorticalID wire
// format, the Area property bag, and the small tagged-variant enumerations
// (area kind, synapse type, IO coding) the rest of the NPU core switches on.
package cortex

import (
	"encoding/base64"
	"fmt"
)

// ID is an 8-byte ASCII identifier for a cortical area: byte 0 selects Kind,
// bytes 1-3 are a unit identifier, bytes 4-5 are reserved, byte 6 is a
// subunit index, and byte 7 is a group index.
type ID [8]byte

// Kind is the area-kind discriminant encoded in ID byte 0.
type Kind byte

const (
	KindInput  Kind = 'i'
	KindOutput Kind = 'o'
	KindCustom Kind = 'c'
	KindCore   Kind = 'r' // "core" processing area
	KindMemory Kind = 'm'
)

// NewID packs a kind, 3-byte unit identifier, subunit index, and group index
// into an 8-byte CorticalID. Only the first 3 bytes of unit are used; shorter
// values are space-padded on the right.
func NewID(kind Kind, unit string, subunit, group byte) ID {
	var id ID
	id[0] = byte(kind)
	for i := 0; i < 3; i++ {
		if i < len(unit) {
			id[1+i] = unit[i]
		} else {
			id[1+i] = ' '
		}
	}
	id[4] = 0
	id[5] = 0
	id[6] = subunit
	id[7] = group
	return id
}

// Kind returns the area-kind discriminant of this ID.
func (id ID) Kind() Kind { return Kind(id[0]) }

// Unit returns the 3-byte unit identifier, trimmed of trailing padding.
func (id ID) Unit() string {
	end := 4
	for end > 1 && id[end-1] == ' ' {
		end--
	}
	return string(id[1:end])
}

// Subunit returns the subunit index (byte 6).
func (id ID) Subunit() byte { return id[6] }

// Group returns the group index (byte 7).
func (id ID) Group() byte { return id[7] }

// String returns the deterministic 11-character unpadded base64 textual form used in
// JSON wire payloads.
func (id ID) String() string {
	return base64.RawStdEncoding.EncodeToString(id[:])
}

// ParseID decodes the base64 textual form produced by String back into an ID.
func ParseID(s string) (ID, error) {
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("cortex: invalid CorticalID text %q: %w", s, err)
	}
	if len(b) != 8 {
		return ID{}, fmt.Errorf("cortex: CorticalID text %q decodes to %d bytes, want 8", s, len(b))
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// MarshalText implements encoding.TextMarshaler so ID serializes to its
// base64 form inside JSON structures.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// PowerAreaIdx is the reserved dense cortical_idx assigned to the "_power"
// area, which every burst injects power_amount into.
const PowerAreaIdx uint32 = 1

// MemoryNeuronIDStart is the first NeuronId treated as a virtual memory-area
// candidate: not backed by NeuronStorage, force-fired via a side table.
const MemoryNeuronIDStart uint32 = 50_000_000
