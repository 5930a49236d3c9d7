// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package p2

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/streamstat/internal/batchstat"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewInvalidProbability(t *testing.T) {
	for _, p := range []float64{0, 1, -0.1, 1.2} {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			_, err := New(p)
			require.Error(t, err)
		})
	}
	e, err := New(0.5)
	require.NoError(t, err)
	require.Equal(t, 0.5, e.Probability())
}

func TestValueUndefinedUntilReady(t *testing.T) {
	e, err := New(0.5)
	require.NoError(t, err)
	for i, x := range []float64{3, 1, 4, 2} {
		e.Update(x)
		require.False(t, e.Ready(), "ready after %d samples", i+1)
		require.True(t, math.IsNaN(e.Value()))
	}
	e.Update(10)
	require.True(t, e.Ready())
	// The bootstrap seeds marker heights with the sorted first five samples;
	// the middle marker is the estimate.
	require.Equal(t, 3.0, e.Value())

	heights, positions := e.Markers()
	require.Equal(t, [5]float64{1, 2, 3, 4, 10}, heights)
	require.Equal(t, [5]int64{1, 2, 3, 4, 5}, positions)
}

func TestMarkerHeightsOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	gens := map[string]func() float64{
		"uniform":    func() float64 { return rng.Float64() },
		"normal":     func() float64 { return rng.NormFloat64() },
		"duplicates": func() float64 { return float64(rng.Intn(4)) },
	}
	for name, gen := range gens {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{1, 3, 5, 8, 1000} {
				for _, p := range []float64{0.05, 0.25, 0.5, 0.9} {
					e, err := New(p)
					require.NoError(t, err)
					var lo, hi float64
					for i := 0; i < n; i++ {
						x := gen()
						if i == 0 || x < lo {
							lo = x
						}
						if i == 0 || x > hi {
							hi = x
						}
						e.Update(x)
						if !e.Ready() {
							continue
						}
						heights, _ := e.Markers()
						for j := 1; j < len(heights); j++ {
							require.LessOrEqual(t, heights[j-1], heights[j],
								"markers out of order after %d samples (p=%v)", i+1, p)
						}
						// The extreme markers track the true extrema.
						require.Equal(t, lo, heights[0])
						require.Equal(t, hi, heights[4])
					}
				}
			}
		})
	}
}

func TestMedianConvergesOnNormal(t *testing.T) {
	const n = 200000
	rng := rand.New(rand.NewSource(0))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 3.0 + 2.0*rng.NormFloat64()
	}

	e, err := New(0.5)
	require.NoError(t, err)
	for _, x := range samples {
		e.Update(x)
	}
	require.True(t, e.Ready())

	ref := batchstat.Compute(samples, 0.5)
	require.InDelta(t, ref.Quantiles[0.5], e.Value(), 0.04*ref.Std)
}

func TestEstimatorDataDriven(t *testing.T) {
	var e *Estimator
	datadriven.RunTest(t, "testdata/estimator", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "init":
			var arg string
			td.ScanArgs(t, "p", &arg)
			p, err := strconv.ParseFloat(arg, 64)
			require.NoError(t, err)
			e, err = New(p)
			if err != nil {
				return err.Error()
			}
			return "ok"

		case "update":
			var buf strings.Builder
			for _, field := range strings.Fields(td.Input) {
				x, err := strconv.ParseFloat(field, 64)
				require.NoError(t, err)
				e.Update(x)
				if !e.Ready() {
					fmt.Fprintf(&buf, "%s: value=n/a\n", field)
					continue
				}
				heights, positions := e.Markers()
				fmt.Fprintf(&buf, "%s: value=%v heights=%v positions=%v\n",
					field, e.Value(), heights, positions)
			}
			return buf.String()

		default:
			panic(fmt.Sprintf("unrecognized command %q", td.Cmd))
		}
	})
}
