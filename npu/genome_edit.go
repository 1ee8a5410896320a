// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/genome"
	"github.com/feagi/npu-core/npuerr"
	"github.com/feagi/npu-core/npulog"
	"github.com/feagi/npu-core/paramqueue"
)

// parameterParamByKey maps a classified parameter-edit key to the queue
// entry it enqueues. temporal_depth is deliberately included here even
// though applyParamUpdate routes it to the fire ledger rather than neuron
// storage: classification and dispatch target are separate concerns.
var parameterParamByKey = map[string]paramqueue.Param{
	"threshold":              paramqueue.ParamThreshold,
	"threshold_limit":        paramqueue.ParamThresholdLimit,
	"resting_potential":      paramqueue.ParamRestingPotential,
	"leak_coefficient":       paramqueue.ParamLeakCoefficient,
	"refractory_period":      paramqueue.ParamRefractoryPeriod,
	"excitability":           paramqueue.ParamExcitability,
	"consecutive_fire_limit": paramqueue.ParamConsecutiveFireLimit,
	"snooze_period":          paramqueue.ParamSnoozePeriod,
	"postsynaptic_current":   paramqueue.ParamPostsynapticCurrent,
	"mp_charge_accumulation": paramqueue.ParamMPChargeAccumulation,
	"temporal_depth":         paramqueue.ParamTemporalDepth,
}

// UpdateCorticalArea is the host API's generic cortical-area edit entry
// point: classify edits into metadata/parameter/structural buckets, then
// apply them in that fixed order so a structural rebuild always sees the
// edit set's final metadata and never clobbers a parameter edit made in
// the same call. Unknown keys are logged and otherwise ignored.
func (o *Orchestrator) UpdateCorticalArea(area uint32, edits map[string]any) error {
	metadata, parameter, structural, unknown := genome.Classify(edits)
	for _, e := range unknown {
		npulog.Warnf("update_cortical_area %d: unrecognized key %q, skipped", area, e.Key)
	}

	if _, ok := o.registry.ByIdx(area); !ok {
		return npuerr.NotFound("cortical area", area)
	}

	if len(metadata) > 0 {
		o.applyMetadataEdits(area, metadata)
	}
	for _, e := range parameter {
		o.enqueueParameterEdit(area, e)
	}
	if len(structural) > 0 {
		if _, err := o.applyStructuralEdits(area, structural); err != nil {
			return err
		}
	}
	return nil
}

// applyMetadataEdits applies name/visible/position/coordinates/
// visualization_granularity edits to the registry in place; these never
// touch neuron or synapse storage.
func (o *Orchestrator) applyMetadataEdits(area uint32, edits []genome.Edit) {
	o.registry.Update(area, func(a *cortex.Area) {
		for _, e := range edits {
			switch e.Key {
			case "name":
				if s, ok := e.Value.(string); ok {
					a.Name = s
				}
			case "visible":
				if b, ok := e.Value.(bool); ok {
					a.Visible = b
				}
			case "position", "coordinates_3d":
				if pos, ok := parseVec3Int(e.Value); ok {
					a.Position = pos
				}
			case "coordinates_2d":
				if pos, ok := parseVec3Int(e.Value); ok {
					a.Position[0], a.Position[1] = pos[0], pos[1]
				}
			case "visualization_granularity":
				if f, ok := asFloat32(e.Value); ok {
					a.VisualizationGranularity = uint32(f)
				}
			default:
				npulog.Warnf("update_cortical_area %d: metadata key %q has no applier, skipped", area, e.Key)
			}
		}
	})
}

// enqueueParameterEdit pushes exactly one paramqueue.Update per classified
// parameter edit, matching the same idempotent-at-next-burst semantics the
// per-area convenience setters in accessors.go use.
func (o *Orchestrator) enqueueParameterEdit(area uint32, e genome.Edit) {
	param, ok := parameterParamByKey[e.Key]
	if !ok {
		npulog.Warnf("update_cortical_area %d: parameter key %q has no queue mapping, skipped", area, e.Key)
		return
	}
	value, ok := asFloat32(e.Value)
	if !ok {
		npulog.Warnf("update_cortical_area %d: parameter key %q has non-numeric value %v, skipped", area, e.Key, e.Value)
		return
	}
	o.paramQueue.Push(paramqueue.Update{CorticalIdx: area, Param: param, Value: value})
}

// applyStructuralEdits overlays structural edits onto the area's current
// shape/density/gradient/leak-variability and drives them through
// ResizeArea. mappings is nil: UpdateCorticalArea has no access to a
// synaptogenesis recipe, so only the mechanical dangling-synapse purge
// runs; a caller holding a resolved recipe should call ResizeArea directly.
func (o *Orchestrator) applyStructuralEdits(area uint32, edits []genome.Edit) (int, error) {
	current, ok := o.registry.ByIdx(area)
	if !ok {
		return 0, npuerr.NotFound("cortical area", area)
	}

	shape := current.Shape
	neuronsPerVoxel := current.NeuronsPerVoxel
	gradient := current.Gradient
	leakVariability := current.LeakVariability

	for _, e := range edits {
		switch e.Key {
		case "shape":
			if s, ok := parseShape(e.Value); ok {
				shape = s
			}
		case "width":
			if f, ok := asFloat32(e.Value); ok {
				shape.W = uint32(f)
			}
		case "height":
			if f, ok := asFloat32(e.Value); ok {
				shape.H = uint32(f)
			}
		case "depth":
			if f, ok := asFloat32(e.Value); ok {
				shape.D = uint32(f)
			}
		case "neurons_per_voxel":
			if f, ok := asFloat32(e.Value); ok {
				neuronsPerVoxel = uint32(f)
			}
		case "gradient":
			if g, ok := parseGradient(e.Value); ok {
				gradient = g
			}
		case "leak_variability":
			if f, ok := asFloat32(e.Value); ok {
				leakVariability = f
			}
		default:
			npulog.Warnf("update_cortical_area %d: structural key %q has no applier, skipped", area, e.Key)
		}
	}

	return o.ResizeArea(area, shape, neuronsPerVoxel, gradient, leakVariability, nil)
}

// asFloat32 accepts the numeric types an edit map's values typically arrive
// as (JSON decoding yields float64; callers may also pass float32/int
// directly), returning false for anything else.
func asFloat32(value any) (float32, bool) {
	switch v := value.(type) {
	case float64:
		return float32(v), true
	case float32:
		return v, true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case int64:
		return float32(v), true
	case uint32:
		return float32(v), true
	default:
		return 0, false
	}
}

// parseVec3Int parses a 2- or 3-element numeric slice into a [3]int32,
// zero-filling any missing trailing axis.
func parseVec3Int(value any) ([3]int32, bool) {
	vals, ok := value.([]any)
	if !ok || len(vals) < 2 {
		return [3]int32{}, false
	}
	var out [3]int32
	for i := 0; i < len(vals) && i < 3; i++ {
		f, ok := asFloat32(vals[i])
		if !ok {
			return [3]int32{}, false
		}
		out[i] = int32(f)
	}
	return out, true
}

// parseShape parses a 3-element [w,h,d] numeric slice into a cortex.Shape.
func parseShape(value any) (cortex.Shape, bool) {
	vals, ok := value.([]any)
	if !ok || len(vals) != 3 {
		return cortex.Shape{}, false
	}
	w, ok1 := asFloat32(vals[0])
	h, ok2 := asFloat32(vals[1])
	d, ok3 := asFloat32(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return cortex.Shape{}, false
	}
	return cortex.Shape{W: uint32(w), H: uint32(h), D: uint32(d)}, true
}

// parseGradient parses a 3-element [x,y,z] numeric slice into a
// cortex.Gradient; these array-form increments are also stored back as
// the three scalar Gradient fields by the registry update in ResizeArea.
func parseGradient(value any) (cortex.Gradient, bool) {
	vals, ok := value.([]any)
	if !ok || len(vals) != 3 {
		return cortex.Gradient{}, false
	}
	x, ok1 := asFloat32(vals[0])
	y, ok2 := asFloat32(vals[1])
	z, ok3 := asFloat32(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return cortex.Gradient{}, false
	}
	return cortex.Gradient{X: x, Y: y, Z: z}, true
}
