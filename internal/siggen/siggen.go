// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package siggen generates reproducible synthetic sample streams for
// exercising and benchmarking the streaming statistics.
package siggen

import (
	"math"

	"golang.org/x/exp/rand"
)

// Config parameterizes a synthetic stream.
type Config struct {
	// N is the number of samples.
	N int
	// Seed seeds the generator; the same config always yields the same
	// stream.
	Seed uint64
	// OutlierRate is the fraction of samples that receive a large positive
	// or negative offset.
	OutlierRate float64
}

// Generate returns a synthetic stream: Gaussian noise (stddev 2) around a
// slow sinusoid centered on 50, with OutlierRate of the samples shifted by
// +50 or -30 to simulate telemetry spikes and dropouts.
func Generate(cfg Config) []float64 {
	rng := rand.New(rand.NewSource(cfg.Seed))
	x := make([]float64, cfg.N)
	for i := range x {
		var phase float64
		if cfg.N > 1 {
			phase = 12 * math.Pi * float64(i) / float64(cfg.N-1)
		}
		x[i] = 50 + 2*rng.NormFloat64() + 0.5*math.Sin(phase)
	}
	if k := int(cfg.OutlierRate * float64(cfg.N)); k > 0 {
		for _, i := range rng.Perm(cfg.N)[:k] {
			if rng.Intn(2) == 0 {
				x[i] += 50
			} else {
				x[i] -= 30
			}
		}
	}
	return x
}
