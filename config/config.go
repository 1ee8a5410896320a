// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the NPU core's runtime-tunable settings: econfig.Config
// applies `default:` struct-tag fallbacks, then an optional TOML file, then
// command-line flags.
package config

import "github.com/emer/emergent/v2/econfig"

// Config is the full set of runtime tunables for one NPU instance.
type Config struct {
	// BurstRateHz is the target burst frequency the host driver paces
	// process_burst calls at; the NPU core itself does not self-pace.
	BurstRateHz float64 `default:"1000"`

	// SIMDBatchThreshold is the candidate count at or above which the
	// dynamics kernel would partition work into batched lanes (see
	// dynamics.simdBatchThreshold for why this is currently advisory-only).
	SIMDBatchThreshold int `default:"50000"`

	// SIMDBatchChunkSize is the chunk size a batched kernel would gather
	// SIMD-eligible candidates into.
	SIMDBatchChunkSize int `default:"10000"`

	// DefaultFireLedgerWindow is the ring size newly-registered cortical
	// areas get before an explicit ConfigureAreaWindow call.
	DefaultFireLedgerWindow int `default:"16"`

	// FQSamplerFrequencyHz is the default rate limit for the FQ sampler.
	FQSamplerFrequencyHz float64 `default:"30"`

	// GenomeLoadTimeoutSeconds bounds a host-driven genome load or
	// structural rebuild before it is treated as a Timeout error kind.
	GenomeLoadTimeoutSeconds int `default:"60"`

	// StructuralChunkZLayers bounds how many z-layers of a resized area are
	// bulk-created before the NPU lock is released between chunks.
	StructuralChunkZLayers int `default:"1"`

	// StructuralChunkRowLimit is the per-layer neuron count above which row
	// chunking within a z-layer also releases the lock between chunks.
	StructuralChunkRowLimit int `default:"100000"`

	// Includes names additional config files to merge in, deepest-first,
	// before this file's own values apply (econfig.Config's own mechanism).
	Includes []string
}

// Defaults returns a Config with every `default:` tag value applied.
func Defaults() (Config, error) {
	cfg := Config{}
	err := econfig.SetFromDefaults(&cfg)
	return cfg, err
}

// Load applies defaults, then an optional TOML config file, then any
// recognized command-line flags.
func Load(defaultFile string) (Config, []string, error) {
	cfg := Config{}
	nonFlagArgs, err := econfig.Config(&cfg, defaultFile)
	return cfg, nonFlagArgs, err
}
