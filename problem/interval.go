// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"fmt"
	"math"
)

// Interval represents the bounds [𝒍, 𝒖] of a scalar quantity.
// An infinite side is unbounded.
type Interval struct {
	Lower, Upper float64
}

// Unbounded returns (-∞, +∞).
func Unbounded() Interval {
	return Interval{math.Inf(-1), math.Inf(1)}
}

// Bounded returns [l, u]. It panics when l > u or either side is NaN.
func Bounded(l, u float64) Interval {
	if math.IsNaN(l) || math.IsNaN(u) || l > u {
		panic(fmt.Sprintf("invalid interval [%g, %g]", l, u))
	}
	return Interval{l, u}
}

// LowerBounded returns [l, +∞).
func LowerBounded(l float64) Interval {
	return Bounded(l, math.Inf(1))
}

// UpperBounded returns (-∞, u].
func UpperBounded(u float64) Interval {
	return Bounded(math.Inf(-1), u)
}

// Equal returns the degenerate interval [v, v].
func Equal(v float64) Interval {
	return Bounded(v, v)
}

// Finite reports whether both sides are finite.
func (i Interval) Finite() bool {
	return !math.IsInf(i.Lower, 0) && !math.IsInf(i.Upper, 0)
}

// IsUnbounded reports whether neither side is finite.
func (i Interval) IsUnbounded() bool {
	return math.IsInf(i.Lower, -1) && math.IsInf(i.Upper, 1)
}

// Contains reports whether 𝒍 ≤ v ≤ 𝒖.
func (i Interval) Contains(v float64) bool {
	return i.Lower <= v && v <= i.Upper
}

// Distance returns how far v lies outside the interval, zero inside.
func (i Interval) Distance(v float64) float64 {
	switch {
	case v < i.Lower:
		return i.Lower - v
	case v > i.Upper:
		return v - i.Upper
	default:
		return 0
	}
}

func (i Interval) valid() bool {
	return !math.IsNaN(i.Lower) && !math.IsNaN(i.Upper) && i.Lower <= i.Upper
}

func (i Interval) String() string {
	l, u := "(-inf", "+inf)"
	if !math.IsInf(i.Lower, -1) {
		l = fmt.Sprintf("[%g", i.Lower)
	}
	if !math.IsInf(i.Upper, 1) {
		u = fmt.Sprintf("%g]", i.Upper)
	}
	return l + ", " + u
}
