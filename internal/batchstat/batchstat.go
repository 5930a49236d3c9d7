// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package batchstat computes the same summary statistics as the streaming
// aggregator from a fully materialized sample set. It stores and sorts all
// samples (O(n) memory) and exists to validate streaming accuracy; it is not
// part of the streaming runtime.
package batchstat

import (
	"math"
	"slices"
)

// Result holds the batch statistics of a sample set. Statistics that are
// undefined for the set (empty input, fewer than two samples for Std) are
// NaN.
type Result struct {
	Count          int
	Min            float64
	Max            float64
	Mean           float64
	Std            float64
	Quantiles      map[float64]float64
	MeanEnvelope   float64
	MedianEnvelope float64
}

// Compute returns the batch statistics of samples, including the quantiles
// for the given probabilities.
func Compute(samples []float64, probabilities ...float64) Result {
	r := Result{
		Count:          len(samples),
		Min:            math.NaN(),
		Max:            math.NaN(),
		Mean:           math.NaN(),
		Std:            math.NaN(),
		Quantiles:      make(map[float64]float64, len(probabilities)),
		MeanEnvelope:   math.NaN(),
		MedianEnvelope: math.NaN(),
	}
	if len(samples) == 0 {
		for _, p := range probabilities {
			r.Quantiles[p] = math.NaN()
		}
		return r
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	r.Min = sorted[0]
	r.Max = sorted[len(sorted)-1]

	var sum float64
	for _, x := range samples {
		sum += x
	}
	r.Mean = sum / float64(len(samples))

	if len(samples) > 1 {
		var m2 float64
		for _, x := range samples {
			d := x - r.Mean
			m2 += d * d
		}
		r.Std = math.Sqrt(m2 / float64(len(samples)-1))
	}

	for _, p := range probabilities {
		r.Quantiles[p] = Quantile(sorted, p)
	}

	median := Quantile(sorted, 0.5)
	r.MeanEnvelope = 0
	r.MedianEnvelope = 0
	for _, x := range samples {
		if dev := math.Abs(x - r.Mean); dev > r.MeanEnvelope {
			r.MeanEnvelope = dev
		}
		if dev := math.Abs(x - median); dev > r.MedianEnvelope {
			r.MedianEnvelope = dev
		}
	}
	return r
}

// Quantile returns the p-quantile of an ascending sample set using linear
// interpolation between the two nearest order statistics (rank h = (n-1)p).
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
