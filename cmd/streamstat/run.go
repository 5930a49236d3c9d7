// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/streamstat"
	"github.com/cockroachdb/streamstat/internal/batchstat"
	"github.com/cockroachdb/streamstat/internal/siggen"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	numSamples  int
	seed        uint64
	outlierRate float64
	quantiles   []float64
	plot        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "generate a synthetic stream and compare streaming vs batch statistics",
	Args:  cobra.ExactArgs(0),
	Run:   runStats,
}

func init() {
	runCmd.Flags().IntVarP(
		&numSamples, "num-samples", "n", 200000, "number of samples to generate")
	runCmd.Flags().Uint64Var(
		&seed, "seed", 7, "seed for the stream generator")
	runCmd.Flags().Float64Var(
		&outlierRate, "outlier-rate", 0.005, "fraction of samples turned into outliers")
	runCmd.Flags().Float64SliceVarP(
		&quantiles, "quantile", "q", []float64{0.1, 0.5, 0.9}, "quantile(s) to track")
	runCmd.Flags().BoolVar(
		&plot, "plot", false, "render an ASCII plot of the stream")
}

func runStats(cmd *cobra.Command, args []string) {
	samples := siggen.Generate(siggen.Config{
		N:           numSamples,
		Seed:        seed,
		OutlierRate: outlierRate,
	})
	fmt.Printf("generated stream: n=%d (seed=%d, outlier-rate=%.2f%%)\n\n",
		len(samples), seed, 100*outlierRate)

	agg, err := streamstat.NewAggregator(quantiles...)
	if err != nil {
		log.Fatal(err)
	}

	// Per-update latency is a diagnostic only; it has no bearing on the
	// statistics themselves.
	latency := hdrhistogram.New(1, time.Second.Nanoseconds(), 3)
	onlineStart := time.Now()
	for _, x := range samples {
		t0 := time.Now()
		agg.Update(x)
		_ = latency.RecordValue(time.Since(t0).Nanoseconds())
	}
	onlineElapsed := time.Since(onlineStart)

	batchStart := time.Now()
	ref := batchstat.Compute(samples, agg.Probabilities()...)
	batchElapsed := time.Since(batchStart)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"metric", "online (O(1) mem)", "batch (O(n) mem)", "|delta|"})
	row := func(name string, online, batch float64) {
		table.Append([]string{
			name, formatValue(online), formatValue(batch),
			formatValue(math.Abs(online - batch)),
		})
	}
	row("min", agg.Min(), ref.Min)
	row("max", agg.Max(), ref.Max)
	row("mean", agg.Mean(), ref.Mean)
	row("std", agg.Std(), ref.Std)
	for _, p := range agg.Probabilities() {
		row(fmt.Sprintf("q%02d", int(math.Round(p*100))),
			agg.Quantile(p), ref.Quantiles[p])
	}
	row("env(mean)", agg.MeanEnvelope(), ref.MeanEnvelope)
	row("env(median)", agg.MedianEnvelope(), ref.MedianEnvelope)
	table.Render()

	fmt.Printf("\nonline: %s total, update latency mean=%s p50=%s p95=%s\n",
		onlineElapsed.Round(time.Microsecond),
		time.Duration(int64(latency.Mean())),
		time.Duration(latency.ValueAtQuantile(50)),
		time.Duration(latency.ValueAtQuantile(95)))
	fmt.Printf("batch:  %s total (stores all %d samples)\n",
		batchElapsed.Round(time.Microsecond), len(samples))

	if plot {
		fmt.Printf("\n%s\n", plotStream(samples, 100, 12))
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

// plotStream downsamples the stream to width buckets (mean per bucket) and
// renders it as an ASCII graph.
func plotStream(samples []float64, width, height int) string {
	if len(samples) < width {
		width = len(samples)
	}
	values := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(samples) / width
		hi := (i + 1) * len(samples) / width
		var sum float64
		for _, x := range samples[lo:hi] {
			sum += x
		}
		values[i] = sum / float64(hi-lo)
	}
	return asciigraph.Plot(values, asciigraph.Height(height))
}
