// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Central use central difference in interior points and the second order accuracy
	// forward or backward difference near the boundary.
	Central Method = iota
	// Forward use the first order accuracy forward difference.
	Forward
)

func (m Method) String() string {
	switch m {
	case Central:
		return "central"
	case Forward:
		return "forward"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Bound limits the range of one independent variable.
// A NaN side is treated as unbounded.
type Bound struct {
	Lower, Upper float64
}

// Object is the function of which to estimate the derivatives.
// The argument x is an n-vector and the result is stored in the m-vector y.
// Object must not retain or modify x.
type Object func(y, x []float64)

// Settings controls the finite difference scheme.
// The zero value selects central differences with automatic step sizes.
type Settings struct {
	// Finite difference method to use.
	Method Method
	// Lower and upper bounds on independent variables.
	// Use it to limit the range of function evaluation.
	Bounds []Bound
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = ε * sign(x0) * max(1, abs(x0))
	// where ε is √eps for Forward and ∛eps for Central.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x0) * abs(x0) when RelStep is provided.
	RelStep float64
	// Absolute step size to use, possibly adjusted to fit into the bounds.
	// The RelStep is used when AbsStep is not provide.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
}

// Approximator estimates the Jacobian of an Object by finite differences.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// # License
//
//   - https://github.com/scipy/scipy/blob/main/LICENSE.txt
//
// An Approximator holds no mutable state, working buffers are allocated
// per call, so it may be used from multiple goroutines.
type Approximator struct {
	n, m    int
	object  Object
	bounded bool
	Settings
}

// New checks the settings and creates an Approximator for an object ℝⁿ → ℝᵐ.
func New(n, m int, object Object, s Settings) (*Approximator, error) {
	var err error
	switch {
	case n < 0 || m <= 0:
		err = errors.New("invalid dimensions")
	case s.Method != Forward && s.Method != Central:
		err = errors.New("unknown method")
	case object == nil:
		err = errors.New("object function is required")
	case math.IsNaN(s.RelStep) || math.IsInf(s.RelStep, 0):
		err = errors.New("invalid relative step")
	case math.IsNaN(s.AbsStep) || math.IsInf(s.AbsStep, 0):
		err = errors.New("invalid absolute step")
	}
	if err != nil {
		return nil, err
	}

	bounded := false
	if s.Bounds != nil {
		if len(s.Bounds) != n {
			return nil, errors.New("invalid bound dimension")
		}
		bounds := make([]Bound, n)
		for i, b := range s.Bounds {
			if math.IsNaN(b.Lower) {
				b.Lower = math.Inf(-1)
			}
			if math.IsNaN(b.Upper) {
				b.Upper = math.Inf(1)
			}
			if b.Lower > b.Upper {
				return nil, fmt.Errorf("invalid bound range at %d", i)
			}
			if !(math.IsInf(b.Lower, 0) && math.IsInf(b.Upper, 0)) {
				bounded = true
			}
			bounds[i] = b
		}
		s.Bounds = bounds
	}

	return &Approximator{n: n, m: m, object: object, bounded: bounded, Settings: s}, nil
}

// Dims returns the input and output dimensions of the object.
func (a *Approximator) Dims() (n, m int) {
	return a.n, a.m
}

// Jacobian fills the m×n matrix dst with the approximated Jacobian at x0.
func (a *Approximator) Jacobian(dst *mat.Dense, x0 []float64) error {
	if len(x0) != a.n {
		panic("x0 dimension not match approximator")
	}
	if r, c := dst.Dims(); r != a.m || c != a.n {
		panic("jacobian dimension not match approximator")
	}
	if err := a.checkBounds(x0); err != nil {
		return err
	}
	a.approx(x0, func(i, j int, d float64) {
		dst.Set(j, i, d)
	})
	return nil
}

// Gradient fills dst with the row of the approximated Jacobian that belongs to output.
func (a *Approximator) Gradient(dst, x0 []float64, output int) error {
	if len(x0) != a.n || len(dst) != a.n {
		panic("gradient dimension not match approximator")
	}
	if output < 0 || output >= a.m {
		panic("output index out of range")
	}
	if err := a.checkBounds(x0); err != nil {
		return err
	}
	a.approx(x0, func(i, j int, d float64) {
		if j == output {
			dst[i] = d
		}
	})
	return nil
}

func (a *Approximator) checkBounds(x0 []float64) error {
	for i, b := range a.Bounds {
		if x0[i] < b.Lower || x0[i] > b.Upper {
			return errors.New("x0 violates bound constraints")
		}
	}
	return nil
}

// approx evaluates the difference quotients and reports each partial
// derivative ∂yⱼ/∂xᵢ through emit.
func (a *Approximator) approx(x0 []float64, emit func(i, j int, d float64)) {
	h := make([]float64, a.n)
	o := make([]bool, a.n)
	x := make([]float64, a.n)
	copy(x, x0)

	a.absoluteStep(h, x)
	a.adjustToBounds(h, o, x)

	if a.Method == Central {
		a.approxCentral(x, h, o, emit)
	} else {
		a.approxForward(x, h, emit)
	}
}

func (a *Approximator) adjustToBounds(h []float64, o []bool, x0 []float64) {
	if a.Method == Central {
		for i, v := range h {
			h[i] = math.Abs(v)
		}
	}
	for i := range o {
		o[i] = false
	}

	if !a.bounded {
		return
	}

	b := a.Bounds
	if len(x0) != len(b) || len(x0) != len(h) || len(x0) != len(o) {
		panic("bound check error")
	}

	if a.Method == Forward {
		for i, x0 := range x0 {
			ld, ud := x0-b[i].Lower, b[i].Upper-x0
			h0 := h[i]
			x := x0 + h0
			violated := x < b[i].Lower || x > b[i].Upper
			fitting := math.Abs(h0) < math.Max(ld, ud)
			if violated && fitting {
				h[i] = -h0
			} else if !fitting {
				if ud >= ld {
					h[i] = ud
				} else {
					h[i] = -ld
				}
			}
		}
		return
	}

	for i, x0 := range x0 {
		ld, ud := x0-b[i].Lower, b[i].Upper-x0
		central := ld >= h[i] && ud >= h[i]
		if !central {
			if ud >= ld {
				h[i] = math.Min(h[i], 0.5*ud)
			} else {
				h[i] = -math.Min(h[i], 0.5*ld)
			}
			o[i] = true
		}
		minDist := math.Min(ud, ld)
		if !central && math.Abs(h[i]) <= minDist {
			h[i] = minDist
			o[i] = false
		}
	}
}

func (a *Approximator) absoluteStep(h, x0 []float64) {
	if len(h) != len(x0) {
		panic("bound check error")
	}

	var eps float64
	switch a.Method {
	case Forward:
		eps = sqrtEps
	case Central:
		eps = cubeEps
	default:
		panic("unknown method")
	}

	abs, rel := a.AbsStep, a.RelStep
	for i, v := range x0 {
		auto := math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		if abs == 0 && rel == 0 {
			h[i] = auto
			continue
		}
		s := abs
		if s == 0 {
			s = math.Copysign(rel, v) * math.Abs(v)
		}
		if (v+s)-v == 0 {
			s = auto
		}
		h[i] = s
	}
}

func (a *Approximator) approxForward(x, h []float64, emit func(i, j int, d float64)) {
	f0, f1 := make([]float64, a.m), make([]float64, a.m)

	fun := a.object
	fun(f0, x)
	for i, s := range h {
		t := x[i]
		x[i] = t + s
		fun(f1, x)
		d := 1.0 / s
		for j := range f0 {
			emit(i, j, (f1[j]-f0[j])*d)
		}
		x[i] = t
	}
}

func (a *Approximator) approxCentral(x, h []float64, o []bool, emit func(i, j int, d float64)) {
	m := a.m
	buf := make([]float64, 3*m)
	f0, f1, f2 := buf[:m], buf[m:2*m], buf[2*m:]

	fun := a.object
	fun(f0, x)
	for i, s := range h {
		t := x[i]
		d := 1.0 / (2 * s)
		if o[i] {
			x[i] = t + s
			fun(f1, x)
			x[i] = t + 2*s
			fun(f2, x)
			for j := range f0 {
				emit(i, j, (4*f1[j]-3*f0[j]-f2[j])*d)
			}
		} else {
			x[i] = t - s
			fun(f1, x)
			x[i] = t + s
			fun(f2, x)
			for j := range f0 {
				emit(i, j, (f2[j]-f1[j])*d)
			}
		}
		x[i] = t
	}
}
