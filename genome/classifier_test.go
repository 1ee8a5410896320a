package genome

import "testing"

func TestClassifyNormalizesCamelCase(t *testing.T) {
	metadata, parameter, structural, unknown := Classify(map[string]any{
		"refractoryPeriod": 5,
		"neuronsPerVoxel":  2,
		"visible":          true,
		"bogusField":       1,
	})
	if len(metadata) != 1 || metadata[0].Key != "visible" {
		t.Errorf("metadata = %+v", metadata)
	}
	if len(parameter) != 1 || parameter[0].Key != "refractory_period" {
		t.Errorf("parameter = %+v", parameter)
	}
	if len(structural) != 1 || structural[0].Key != "neurons_per_voxel" {
		t.Errorf("structural = %+v", structural)
	}
	if len(unknown) != 1 || unknown[0].Key != "bogus_field" {
		t.Errorf("unknown = %+v", unknown)
	}
}

func TestIsHybrid(t *testing.T) {
	metadata, parameter, structural, _ := Classify(map[string]any{
		"name":      "area_a",
		"threshold": 1.0,
	})
	if !IsHybrid(metadata, parameter, structural) {
		t.Errorf("expected metadata+parameter edit set to be hybrid")
	}

	metadataOnly, paramOnly, structOnly, _ := Classify(map[string]any{"name": "area_b"})
	if IsHybrid(metadataOnly, paramOnly, structOnly) {
		t.Errorf("expected single-class edit set to not be hybrid")
	}
}

func TestClassifyEmptyEdits(t *testing.T) {
	metadata, parameter, structural, unknown := Classify(map[string]any{})
	if len(metadata)+len(parameter)+len(structural)+len(unknown) != 0 {
		t.Errorf("expected no classified edits for empty input")
	}
}
