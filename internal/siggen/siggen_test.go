// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package siggen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	cfg := Config{N: 1000, Seed: 7, OutlierRate: 0.01}
	require.Equal(t, Generate(cfg), Generate(cfg))
}

func TestOutliers(t *testing.T) {
	clean := Generate(Config{N: 10000, Seed: 3})
	require.Len(t, clean, 10000)
	for _, x := range clean {
		// Noise is N(0, 2) around 50±0.5; anything past 70 would be a >9
		// sigma event.
		require.Less(t, x, 70.0)
		require.Greater(t, x, 30.0)
	}

	dirty := Generate(Config{N: 10000, Seed: 3, OutlierRate: 0.05})
	var spikes int
	for _, x := range dirty {
		if x > 70 {
			spikes++
		}
	}
	// Roughly half of the 500 outliers are +50 shifts.
	require.Greater(t, spikes, 100)
}

func TestMeanNearCenter(t *testing.T) {
	samples := Generate(Config{N: 10000, Seed: 1})
	var sum float64
	for _, x := range samples {
		sum += x
	}
	require.InDelta(t, 50.0, sum/float64(len(samples)), 0.2)
}
