// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package streamstat computes running summary statistics over an unbounded
// stream of samples in constant memory: extrema, Welford mean/variance, P²
// quantile estimates, and L∞ deviation envelopes around the running mean and
// the running median estimate.
package streamstat

import (
	"math"
	"slices"

	"github.com/cockroachdb/streamstat/p2"
)

// Aggregator composes running min/max, Welford mean/variance, one P²
// estimator per tracked probability, and two deviation envelopes. All state
// is a fixed number of scalars plus five markers per tracked probability, so
// memory is O(1) in the stream length.
//
// An Aggregator is not safe for concurrent use. It cannot be merged with
// another Aggregator: the marker adjustments and the running statistics are
// order dependent, so each instance must observe the full ordered stream.
type Aggregator struct {
	count uint64
	min   float64
	max   float64
	mean  float64
	// m2 is the running sum of squared deviations from the mean.
	m2 float64

	// meanEnv is max |x - mean_t| over the stream, using the mean as of each
	// sample. It is defined from the first sample on.
	meanEnv float64
	// medianEnv is max |x - median_t|, where median_t is the P² estimate of
	// the 0.5-quantile. It is NaN until that estimator becomes ready.
	medianEnv     float64
	medianEnvInit bool

	estimators map[float64]*p2.Estimator
	// median aliases estimators[0.5] when the median is tracked.
	median *p2.Estimator
}

// NewAggregator returns an Aggregator tracking the given target
// probabilities. Duplicate probabilities collapse to a single estimator. The
// set is fixed for the life of the Aggregator. It returns an error if any
// probability is outside (0, 1).
func NewAggregator(probabilities ...float64) (*Aggregator, error) {
	a := &Aggregator{
		min:        math.Inf(1),
		max:        math.Inf(-1),
		medianEnv:  math.NaN(),
		estimators: make(map[float64]*p2.Estimator, len(probabilities)),
	}
	for _, p := range probabilities {
		if _, ok := a.estimators[p]; ok {
			continue
		}
		est, err := p2.New(p)
		if err != nil {
			return nil, err
		}
		a.estimators[p] = est
		if p == 0.5 {
			a.median = est
		}
	}
	return a, nil
}

// Update consumes the next sample of the stream. Outputs may be queried at
// any time between updates; there is no finalize step.
func (a *Aggregator) Update(x float64) {
	if x < a.min {
		a.min = x
	}
	if x > a.max {
		a.max = x
	}

	a.count++
	delta := x - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (x - a.mean)

	for _, est := range a.estimators {
		est.Update(x)
	}

	// The mean envelope uses the mean after this sample was folded in.
	if dev := math.Abs(x - a.mean); dev > a.meanEnv {
		a.meanEnv = dev
	}

	if a.median != nil && a.median.Ready() {
		if !a.medianEnvInit {
			a.medianEnv = 0
			a.medianEnvInit = true
		}
		if dev := math.Abs(x - a.median.Value()); dev > a.medianEnv {
			a.medianEnv = dev
		}
	}
}

// Count returns the number of samples observed.
func (a *Aggregator) Count() uint64 {
	return a.count
}

// Min returns the running minimum, or +Inf before the first sample.
func (a *Aggregator) Min() float64 {
	return a.min
}

// Max returns the running maximum, or -Inf before the first sample.
func (a *Aggregator) Max() float64 {
	return a.max
}

// Mean returns the running mean, or 0 before the first sample.
func (a *Aggregator) Mean() float64 {
	return a.mean
}

// Variance returns the running sample variance (denominator count-1), or NaN
// if fewer than two samples have been observed.
func (a *Aggregator) Variance() float64 {
	if a.count < 2 {
		return math.NaN()
	}
	return a.m2 / float64(a.count-1)
}

// Std returns the running sample standard deviation, or NaN if fewer than
// two samples have been observed.
func (a *Aggregator) Std() float64 {
	return math.Sqrt(a.Variance())
}

// Quantile returns the current P² estimate for probability p, or NaN if p is
// not tracked or the estimator is not yet ready.
func (a *Aggregator) Quantile(p float64) float64 {
	est, ok := a.estimators[p]
	if !ok {
		return math.NaN()
	}
	return est.Value()
}

// MeanEnvelope returns max |x - mean| over the stream so far, or 0 before
// the first sample.
func (a *Aggregator) MeanEnvelope() float64 {
	return a.meanEnv
}

// MedianEnvelope returns max |x - median estimate| over the stream so far,
// or NaN until the 0.5-quantile estimator is tracked and ready.
func (a *Aggregator) MedianEnvelope() float64 {
	return a.medianEnv
}

// Probabilities returns the tracked probabilities in increasing order.
func (a *Aggregator) Probabilities() []float64 {
	probs := make([]float64, 0, len(a.estimators))
	for p := range a.estimators {
		probs = append(probs, p)
	}
	slices.Sort(probs)
	return probs
}

// Snapshot returns a point-in-time copy of all outputs.
func (a *Aggregator) Snapshot() Summary {
	s := Summary{
		Count:          a.count,
		Min:            a.min,
		Max:            a.max,
		Mean:           a.mean,
		Std:            a.Std(),
		MeanEnvelope:   a.meanEnv,
		MedianEnvelope: a.medianEnv,
	}
	for _, p := range a.Probabilities() {
		s.Quantiles = append(s.Quantiles, QuantileValue{
			Probability: p,
			Value:       a.Quantile(p),
		})
	}
	return s
}
