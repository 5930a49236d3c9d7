// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package streamstat

import (
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes an Aggregator's outputs as prometheus metrics. Undefined
// outputs (unready estimators, extrema of an empty stream) are omitted from
// a scrape rather than exported as zero.
//
// The Collector reads the Aggregator without synchronization; it must be
// scraped from the same goroutine that calls Update, or with external
// locking.
type Collector struct {
	agg *Aggregator

	count     *prometheus.Desc
	min       *prometheus.Desc
	max       *prometheus.Desc
	mean      *prometheus.Desc
	std       *prometheus.Desc
	meanEnv   *prometheus.Desc
	medianEnv *prometheus.Desc
	quantile  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a prometheus collector for the given Aggregator.
func NewCollector(agg *Aggregator, namespace string) *Collector {
	name := func(s string) string {
		return prometheus.BuildFQName(namespace, "stream", s)
	}
	return &Collector{
		agg: agg,
		count: prometheus.NewDesc(name("samples_total"),
			"Number of samples observed.", nil, nil),
		min: prometheus.NewDesc(name("min"),
			"Running minimum of the stream.", nil, nil),
		max: prometheus.NewDesc(name("max"),
			"Running maximum of the stream.", nil, nil),
		mean: prometheus.NewDesc(name("mean"),
			"Running mean of the stream.", nil, nil),
		std: prometheus.NewDesc(name("stddev"),
			"Running sample standard deviation of the stream.", nil, nil),
		meanEnv: prometheus.NewDesc(name("mean_envelope"),
			"Maximum absolute deviation from the running mean.", nil, nil),
		medianEnv: prometheus.NewDesc(name("median_envelope"),
			"Maximum absolute deviation from the running median estimate.", nil, nil),
		quantile: prometheus.NewDesc(name("quantile"),
			"Streaming quantile estimate (P²).", []string{"quantile"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.min
	ch <- c.max
	ch <- c.mean
	ch <- c.std
	ch <- c.meanEnv
	ch <- c.medianEnv
	ch <- c.quantile
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.count, prometheus.CounterValue, float64(c.agg.Count()))

	gauge := func(desc *prometheus.Desc, v float64, labels ...string) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, labels...)
	}
	gauge(c.min, c.agg.Min())
	gauge(c.max, c.agg.Max())
	gauge(c.mean, c.agg.Mean())
	gauge(c.std, c.agg.Std())
	gauge(c.meanEnv, c.agg.MeanEnvelope())
	gauge(c.medianEnv, c.agg.MedianEnvelope())
	for _, p := range c.agg.Probabilities() {
		gauge(c.quantile, c.agg.Quantile(p), strconv.FormatFloat(p, 'f', -1, 64))
	}
}
