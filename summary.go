// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package streamstat

import (
	"fmt"
	"math"

	"github.com/cockroachdb/redact"
)

// QuantileValue pairs a tracked probability with its current estimate.
type QuantileValue struct {
	Probability float64
	// Value is NaN while the estimator is not ready.
	Value float64
}

// Summary is a point-in-time copy of an Aggregator's outputs, suitable for
// logging and reporting. Undefined values (unready estimators, fewer than
// two samples) are NaN and render as "n/a".
type Summary struct {
	Count          uint64
	Min            float64
	Max            float64
	Mean           float64
	Std            float64
	Quantiles      []QuantileValue
	MeanEnvelope   float64
	MedianEnvelope float64
}

func (s Summary) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s Summary) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("n=%d min=%s max=%s mean=%s std=%s",
		redact.Safe(s.Count), formatValue(s.Min), formatValue(s.Max),
		formatValue(s.Mean), formatValue(s.Std))
	for _, q := range s.Quantiles {
		w.Printf(" q%02d=%s", redact.Safe(int(math.Round(q.Probability*100))),
			formatValue(q.Value))
	}
	w.Printf(" env(mean)=%s env(median)=%s",
		formatValue(s.MeanEnvelope), formatValue(s.MedianEnvelope))
}

// formatValue renders a statistic, mapping the undefined sentinels (NaN, and
// the ±Inf extrema of an empty stream) to "n/a". Statistics are derived from
// sample values, never from user-controlled strings, so they are safe to log
// unredacted.
func formatValue(v float64) redact.SafeString {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return redact.SafeString(fmt.Sprintf("%.4f", v))
}
