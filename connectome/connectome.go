// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package connectome implements the version-1 persistence snapshot format:
// a little-endian binary version header followed by a JSON body that holds
// every field, the neuron and synapse SoA columns included. Export/Import
// round-trips a Snapshot's SoA columns exactly. The synapse source index is
// neither persisted nor rebuilt by Import.
package connectome

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/synapse"
)

// FormatVersion is the connectome snapshot format version this package
// reads and writes.
const FormatVersion uint32 = 1

// NeuronColumns is the neuron-storage SoA snapshot, float32-at-the-boundary
// per spec (quantized stores convert through nval.Value.ToF32/FromF32 at
// the Snapshot<->Storage boundary, see FromStorage).
type NeuronColumns struct {
	Count                int
	Capacity              int
	MembranePotentials    []float32
	Thresholds            []float32
	ThresholdLimits       []float32
	RestingPotentials     []float32
	LeakCoefficients      []float32
	NeuronTypes           []int32
	RefractoryPeriods     []uint16
	RefractoryCountdowns  []uint16
	Excitabilities        []float32
	ConsecutiveFireLimits []uint16
	ConsecutiveFireCounts []uint16
	SnoozePeriods         []uint16
	MPChargeAccumulation  []bool
	CorticalAreas         []uint32
	Coordinates           []uint32 // flattened 3*count: x0,y0,z0,x1,y1,z1,...
	ValidMask             []bool
}

// SynapseColumns is the synapse-storage SoA snapshot.
type SynapseColumns struct {
	Capacity int
	Source   []uint32
	Target   []uint32
	Weights  []uint8
	PSP      []uint8
	Types    []uint8
	ValidMask []bool
}

// Snapshot is the full version-1 connectome persistence format.
type Snapshot struct {
	Version           uint32
	Neurons           NeuronColumns
	Synapses          SynapseColumns
	CorticalAreaNames map[uint32]string
	BurstCount        uint64
	PowerAmount       float32
	FireLedgerWindow  int
	Metadata          map[string]string
}

// FromStorage builds a Snapshot's neuron/synapse columns from live storage.
// The storage's NeuralValue columns are converted to float32 via ToF32.
func FromStorage(ns *neuron.Storage, ss *synapse.Storage) Snapshot {
	count := ns.Count()
	nc := NeuronColumns{
		Count:                 count,
		Capacity:              ns.Capacity(),
		MembranePotentials:    make([]float32, count),
		Thresholds:            make([]float32, count),
		ThresholdLimits:       make([]float32, count),
		RestingPotentials:     make([]float32, count),
		LeakCoefficients:      append([]float32(nil), ns.LeakCoefficient()...),
		NeuronTypes:           append([]int32(nil), ns.NeuronType()...),
		RefractoryPeriods:     append([]uint16(nil), ns.RefractoryPeriod()...),
		RefractoryCountdowns:  append([]uint16(nil), ns.RefractoryCountdown()...),
		Excitabilities:        append([]float32(nil), ns.Excitability()...),
		ConsecutiveFireLimits: append([]uint16(nil), ns.ConsecutiveFireLimit()...),
		ConsecutiveFireCounts: append([]uint16(nil), ns.ConsecutiveFireCount()...),
		SnoozePeriods:         append([]uint16(nil), ns.SnoozePeriod()...),
		MPChargeAccumulation:  append([]bool(nil), ns.MPChargeAccumulation()...),
		CorticalAreas:         append([]uint32(nil), ns.CorticalArea()...),
		Coordinates:           make([]uint32, count*3),
		ValidMask:             append([]bool(nil), ns.ValidMask()...),
	}
	mps := ns.MembranePotential()
	thresholds := ns.Threshold()
	thresholdLimits := ns.ThresholdLimit()
	resting := ns.RestingPotential()
	for i := 0; i < count; i++ {
		nc.MembranePotentials[i] = mps[i].ToF32()
		nc.Thresholds[i] = thresholds[i].ToF32()
		nc.ThresholdLimits[i] = thresholdLimits[i].ToF32()
		nc.RestingPotentials[i] = resting[i].ToF32()
		c := ns.CoordinateOf(neuron.Id(i))
		nc.Coordinates[3*i] = c.X
		nc.Coordinates[3*i+1] = c.Y
		nc.Coordinates[3*i+2] = c.Z
	}

	sCount := ss.Count()
	types := ss.Type()
	typeBytes := make([]uint8, sCount)
	for i, t := range types {
		typeBytes[i] = uint8(t)
	}
	sc := SynapseColumns{
		Capacity:  sCount,
		Source:    toU32Slice(ss.Source()),
		Target:    toU32Slice(ss.Target()),
		Weights:   append([]uint8(nil), ss.Weight()...),
		PSP:       append([]uint8(nil), ss.PSP()...),
		Types:     typeBytes,
		ValidMask: append([]bool(nil), ss.ValidMask()...),
	}

	return Snapshot{
		Version:           FormatVersion,
		Neurons:           nc,
		Synapses:          sc,
		CorticalAreaNames: map[uint32]string{},
		Metadata:          map[string]string{},
	}
}

func toU32Slice(ids []synapse.NeuronId) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

// header is the fixed-size binary preamble written before the JSON body.
type header struct {
	Version uint32
}

// Export serializes snap to w: a little-endian binary header plus a JSON
// body. Binary framing is used for the header (and could be extended to
// the bulk numeric columns in a future revision) while JSON carries the
// full structure today for straightforward round-tripping and diffing.
func Export(w io.Writer, snap Snapshot) error {
	if err := binary.Write(w, binary.LittleEndian, header{Version: snap.Version}); err != nil {
		return fmt.Errorf("connectome: write header: %w", err)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("connectome: marshal body: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("connectome: write body: %w", err)
	}
	return nil
}

// Import reads a Snapshot previously written by Export.
func Import(r io.Reader) (Snapshot, error) {
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Snapshot{}, fmt.Errorf("connectome: read header: %w", err)
	}
	if hdr.Version != FormatVersion {
		return Snapshot{}, fmt.Errorf("connectome: unsupported version %d, want %d", hdr.Version, FormatVersion)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("connectome: read body: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("connectome: unmarshal body: %w", err)
	}
	return snap, nil
}

// ExportBytes is a convenience wrapper around Export for callers that want
// an in-memory buffer (e.g. tests, or a host transferring the snapshot over
// a channel rather than a file).
func ExportBytes(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
