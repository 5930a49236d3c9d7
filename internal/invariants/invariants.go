// Copyright 2026 The Streamstat Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package invariants provides assertion helpers that are compiled away unless
// the "invariants" or "race" build tags are set.
package invariants

import "fmt"

// CheckOrdered panics if the values are not weakly increasing. Callers should
// gate calls on Enabled so the check has no cost in production builds.
func CheckOrdered(xs []float64) {
	for i := 1; i < len(xs); i++ {
		if xs[i-1] > xs[i] {
			panic(fmt.Sprintf("invariant violation: xs[%d]=%v > xs[%d]=%v",
				i-1, xs[i-1], i, xs[i]))
		}
	}
}
