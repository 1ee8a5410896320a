// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package genome classifies incoming cortical-area edits by which layer of
// the NPU core they affect: metadata (applied in place), parameter
// (enqueued to the burst pipeline), structural (triggers a rebuild), or a
// hybrid of the three. It does not itself load or validate a genome; that
// is an external collaborator's responsibility.
package genome

import "github.com/iancoleman/strcase"

// Class is which edit path a classified key routes through.
type Class int

const (
	ClassUnknown Class = iota
	ClassMetadata
	ClassParameter
	ClassStructural
)

func (c Class) String() string {
	switch c {
	case ClassMetadata:
		return "metadata"
	case ClassParameter:
		return "parameter"
	case ClassStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// metadataKeys, parameterKeys, and structuralKeys are the fixed tables the
// classifier matches normalized keys against, per the component design.
var metadataKeys = map[string]bool{
	"name":                      true,
	"visible":                   true,
	"position":                  true,
	"coordinates_2d":            true,
	"coordinates_3d":            true,
	"visualization_granularity": true,
}

var parameterKeys = map[string]bool{
	"threshold":              true,
	"threshold_limit":        true,
	"resting_potential":      true,
	"leak_coefficient":       true,
	"refractory_period":      true,
	"excitability":           true,
	"consecutive_fire_limit": true,
	"snooze_period":          true,
	"postsynaptic_current":   true,
	"mp_charge_accumulation": true,
	"temporal_depth":         true,
}

var structuralKeys = map[string]bool{
	"shape":              true,
	"width":              true,
	"height":             true,
	"depth":              true,
	"neurons_per_voxel":  true,
	"gradient":           true,
	"leak_variability":   true,
}

// Edit is one classified (key, value) pair from an incoming edit map.
type Edit struct {
	Key   string
	Class Class
	Value any
}

// Classify normalizes every key in edits with strcase.ToSnake (incoming
// keys may arrive camelCase from the external API) and sorts them into
// the metadata/parameter/structural buckets the edit classifier defines.
// Unrecognized keys classify as ClassUnknown and are returned separately so
// callers can log-and-skip them per the InvalidInput error kind.
func Classify(edits map[string]any) (metadata, parameter, structural []Edit, unknown []Edit) {
	for key, value := range edits {
		norm := strcase.ToSnake(key)
		e := Edit{Key: norm, Value: value}
		switch {
		case metadataKeys[norm]:
			e.Class = ClassMetadata
			metadata = append(metadata, e)
		case parameterKeys[norm]:
			e.Class = ClassParameter
			parameter = append(parameter, e)
		case structuralKeys[norm]:
			e.Class = ClassStructural
			structural = append(structural, e)
		default:
			e.Class = ClassUnknown
			unknown = append(unknown, e)
		}
	}
	return metadata, parameter, structural, unknown
}

// IsHybrid reports whether an edit set spans more than one class, in which
// case the orchestrator MUST apply them in order metadata -> parameter ->
// structural.
func IsHybrid(metadata, parameter, structural []Edit) bool {
	present := 0
	if len(metadata) > 0 {
		present++
	}
	if len(parameter) > 0 {
		present++
	}
	if len(structural) > 0 {
		present++
	}
	return present > 1
}
