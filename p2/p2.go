// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package p2 implements the P² (piecewise-parabolic) streaming quantile
// estimator of Jain & Chlamtac (1985).
//
// The estimator maintains five markers that approximate the minimum, the
// p/2-, p- and (1+p)/2-quantiles, and the maximum of the samples observed so
// far. Each marker is a (position, height) pair: the height is a sample
// value, and the position counts how many samples have been observed at or
// below that height. On every update the desired position of each marker
// advances by a fixed increment; whenever an interior marker drifts one or
// more positions away from its desired position, its height is moved using a
// piecewise-parabolic interpolation of its neighbors (with a linear fallback
// when the parabolic prediction would break marker ordering).
//
// State is five fixed-size arrays, so memory is O(1) in the stream length by
// construction, and each update is O(1).
package p2

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/streamstat/internal/invariants"
)

const numMarkers = 5

// Estimator approximates a single quantile of an unbounded stream of
// samples. It must be constructed with New. An Estimator is not safe for
// concurrent use.
//
// Non-finite samples are not handled specially; feeding a NaN or infinity
// poisons the marker state. Callers that cannot rule them out must filter
// before calling Update.
type Estimator struct {
	prob  float64
	count uint64

	// boot buffers the first five samples; it is only meaningful while
	// count < numMarkers. Once five samples have been observed the sorted
	// buffer seeds the marker heights and the estimator never returns to the
	// bootstrap phase.
	boot [numMarkers]float64

	heights    [numMarkers]float64
	positions  [numMarkers]int64
	desired    [numMarkers]float64
	increments [numMarkers]float64
}

// New returns an estimator for the p-quantile of the stream. It returns an
// error unless 0 < p < 1.
func New(p float64) (*Estimator, error) {
	if !(p > 0 && p < 1) {
		return nil, errors.Newf("p2: probability %v outside (0, 1)", p)
	}
	e := &Estimator{prob: p}
	e.increments = [numMarkers]float64{0, p / 2, p, (1 + p) / 2, 1}
	return e, nil
}

// Probability returns the target probability the estimator was constructed
// with.
func (e *Estimator) Probability() float64 {
	return e.prob
}

// Count returns the number of samples observed.
func (e *Estimator) Count() uint64 {
	return e.count
}

// Ready reports whether enough samples (five) have been observed for Value
// to return a defined estimate.
func (e *Estimator) Ready() bool {
	return e.count >= numMarkers
}

// Value returns the current estimate of the quantile, or NaN if the
// estimator is not yet ready. NaN is a deliberate sentinel rather than an
// error: it propagates through arithmetic, so a consumer that combines an
// unready estimate with other values gets NaN instead of a plausible-looking
// garbage number.
func (e *Estimator) Value() float64 {
	if !e.Ready() {
		return math.NaN()
	}
	return e.heights[2]
}

// Update consumes the next sample of the stream.
func (e *Estimator) Update(x float64) {
	if e.count < numMarkers {
		e.boot[e.count] = x
		e.count++
		if e.count == numMarkers {
			e.seed()
		}
		return
	}
	e.count++

	// Locate the cell that x falls into: the first k in [1,4] with
	// x < heights[k]. A sample below the current minimum or above the current
	// maximum replaces the corresponding extreme marker's height.
	var k int
	switch {
	case x < e.heights[0]:
		e.heights[0] = x
		k = 1
	case x >= e.heights[numMarkers-1]:
		if x > e.heights[numMarkers-1] {
			e.heights[numMarkers-1] = x
		}
		k = numMarkers - 1
	default:
		k = 1
		for k < numMarkers-1 && x >= e.heights[k] {
			k++
		}
	}

	// The new sample sits at or below the heights of markers k..4.
	for i := k; i < numMarkers; i++ {
		e.positions[i]++
	}
	for i := range e.desired {
		e.desired[i] += e.increments[i]
	}

	for i := 1; i < numMarkers-1; i++ {
		e.adjust(i)
	}

	if invariants.Enabled {
		invariants.CheckOrdered(e.heights[:])
	}
}

// seed sorts the bootstrap buffer and initializes the marker state from it.
func (e *Estimator) seed() {
	slices.Sort(e.boot[:])
	e.heights = e.boot
	e.positions = [numMarkers]int64{1, 2, 3, 4, 5}
	p := e.prob
	e.desired = [numMarkers]float64{1, 1 + 2*p, 1 + 4*p, 3 + 2*p, 5}
}

// adjust moves interior marker i one position toward its desired position if
// it has drifted a full position away and its neighbor leaves room.
func (e *Estimator) adjust(i int) {
	d := e.desired[i] - float64(e.positions[i])
	if !(d >= 1 && e.positions[i+1]-e.positions[i] > 1) &&
		!(d <= -1 && e.positions[i-1]-e.positions[i] < -1) {
		return
	}
	s := int64(1)
	if d < 0 {
		s = -1
	}

	h := e.parabolic(i, s)
	if h <= e.heights[i-1] || h >= e.heights[i+1] {
		// The parabolic prediction would land on or beyond a neighbor; fall
		// back to linear interpolation toward marker i+s.
		h = e.linear(i, s)
	}
	e.heights[i] = h
	e.positions[i] += s

	// The interpolation formulas do not algebraically guarantee strict
	// ordering in every floating-point case. Restore it by nudging the height
	// just inside the violated neighbor.
	if e.heights[i] <= e.heights[i-1] {
		e.heights[i] = math.Nextafter(e.heights[i-1], math.Inf(1))
	}
	if e.heights[i] >= e.heights[i+1] {
		e.heights[i] = math.Nextafter(e.heights[i+1], math.Inf(-1))
	}
}

// parabolic returns the piecewise-parabolic prediction for the height of
// marker i after moving s positions (s is ±1).
func (e *Estimator) parabolic(i int, s int64) float64 {
	prev := float64(e.positions[i-1])
	cur := float64(e.positions[i])
	next := float64(e.positions[i+1])
	fs := float64(s)
	num := (cur-prev+fs)*(e.heights[i+1]-e.heights[i])/(next-cur) +
		(next-cur-fs)*(e.heights[i]-e.heights[i-1])/(cur-prev)
	return e.heights[i] + fs*num/(next-prev)
}

// linear returns the linear interpolation of marker i's height toward marker
// i+s.
func (e *Estimator) linear(i int, s int64) float64 {
	j := i + int(s)
	return e.heights[i] + float64(s)*(e.heights[j]-e.heights[i])/
		float64(e.positions[j]-e.positions[i])
}

// Markers returns a snapshot of the marker heights and positions. It is
// intended for tests and diagnostics; the contents are meaningless before
// the estimator is ready.
func (e *Estimator) Markers() (heights [numMarkers]float64, positions [numMarkers]int64) {
	return e.heights, e.positions
}
