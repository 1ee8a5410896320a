// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// burstbench runs a fixed-size NPU for a number of bursts, for benchmarking
// different neuron/synapse counts and power-injection rates. These are not
// realistic connectomes (uniform fan-out, no genome), but they are easy to
// run and vary in size.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cogentcore.org/core/base/timer"

	"github.com/feagi/npu-core/config"
	"github.com/feagi/npu-core/cortex"
	"github.com/feagi/npu-core/neuron"
	"github.com/feagi/npu-core/npu"
	"github.com/feagi/npu-core/nval"
	"github.com/feagi/npu-core/synapse"
)

var silent = false // non-verbose mode -- just reports result

// buildNet creates a power area of size powerN and a downstream area of
// size fanoutN, every power neuron excitatory-connected to every downstream
// neuron, for a worst-case dense fan-out.
func buildNet(o *npu.Orchestrator, powerN, fanoutN int) {
	downstream := o.RegisterCorticalArea(cortex.DefaultArea(
		cortex.NewID(cortex.KindCustom, "dwn", 0, 0), "downstream", 0, cortex.Shape{W: uint32(fanoutN), H: 1, D: 1}))

	powerParams := make([]neuron.Params, powerN)
	for i := range powerParams {
		powerParams[i] = neuron.Params{
			Threshold:        nval.F32(1.0),
			RestingPotential: nval.F32(0),
			Excitability:     1.0,
			RefractoryPeriod: 1,
			CorticalArea:     cortex.PowerAreaIdx,
		}
	}
	powerIds, err := o.CreateNeurons(powerParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "burstbench: create power neurons: %v\n", err)
		os.Exit(1)
	}

	downParams := make([]neuron.Params, fanoutN)
	for i := range downParams {
		downParams[i] = neuron.Params{
			Threshold:        nval.F32(1e6), // never fires: exercises propagation fan-in, not its own dynamics
			RestingPotential: nval.F32(0),
			Excitability:     1.0,
			CorticalArea:     downstream,
		}
	}
	downIds, err := o.CreateNeurons(downParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "burstbench: create downstream neurons: %v\n", err)
		os.Exit(1)
	}

	synapses := make([]synapse.Record, 0, powerN*fanoutN)
	for _, src := range powerIds {
		for _, tgt := range downIds {
			synapses = append(synapses, synapse.Record{
				Source: synapse.NeuronId(src), Target: synapse.NeuronId(tgt),
				Weight: 255, PSP: 64, Type: cortex.Excitatory,
			})
		}
	}
	o.CreateSynapses(synapses)
}

func runBench(powerN, fanoutN, bursts int) {
	cfg, err := config.Defaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "burstbench: config defaults: %v\n", err)
		os.Exit(1)
	}

	o := npu.New(nval.F32(0), cfg.FQSamplerFrequencyHz)
	buildNet(o, powerN, fanoutN)
	o.SetPowerAmount(2.0)

	tmr := timer.Time{}
	tmr.Start()
	totalFired := 0
	for b := 0; b < bursts; b++ {
		r := o.ProcessBurst()
		totalFired += r.NeuronsFired
	}
	tmr.Stop()

	if silent {
		fmt.Printf("%v\n", tmr.Total)
		return
	}
	fmt.Printf("Took %v for %v bursts (%v power, %v downstream), %v total firings, avg per burst: %v\n",
		tmr.Total, bursts, powerN, fanoutN, totalFired, tmr.Total/time.Duration(bursts))
}

func main() {
	var powerNeurons, fanoutNeurons, bursts int

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.IntVar(&powerNeurons, "power", 100, "number of power-area neurons")
	flag.IntVar(&fanoutNeurons, "fanout", 100, "number of downstream neurons, each connected from every power neuron")
	flag.IntVar(&bursts, "bursts", 1000, "number of bursts to process")
	flag.BoolVar(&silent, "silent", false, "only report the final time")
	flag.Parse()

	if !silent {
		fmt.Printf("Running burstbench with: %v power neurons, %v fanout neurons, %v bursts\n", powerNeurons, fanoutNeurons, bursts)
	}

	runBench(powerNeurons, fanoutNeurons, bursts)
}
