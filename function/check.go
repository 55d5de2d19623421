// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"fmt"
	"math"

	"github.com/curioloop/optcore/numdiff"
)

// DefaultTolerance is the absolute difference allowed between an exact
// derivative and its finite difference approximation.
const DefaultTolerance = 1e-4

// GradientError reports an exact gradient component that disagrees with the
// finite difference approximation.
type GradientError struct {
	Output, Index int
	Exact, Approx float64
	X             []float64
	Tolerance     float64
}

func (e *GradientError) Error() string {
	return fmt.Sprintf("bad gradient for output %d at component %d: exact %g, approximated %g (tolerance %g) at x = %v",
		e.Output, e.Index, e.Exact, e.Approx, e.Tolerance, e.X)
}

// CheckGradient compares the gradient of output k against the finite
// difference default. A tolerance ≤ 0 selects DefaultTolerance.
func CheckGradient(f Differentiable, x []float64, k int, s numdiff.Settings, tol float64) error {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	n := f.InputSize()
	exact, approx := make([]float64, n), make([]float64, n)
	f.Gradient(exact, x, k)
	Approximate(f, s).Gradient(approx, x, k)
	for i := range exact {
		if !(math.Abs(exact[i]-approx[i]) <= tol) {
			return &GradientError{
				Output: k, Index: i,
				Exact: exact[i], Approx: approx[i],
				X: append([]float64(nil), x...), Tolerance: tol,
			}
		}
	}
	return nil
}

// CheckJacobian runs CheckGradient on every output, then verifies that the
// Jacobian rows agree with the gradients.
func CheckJacobian(f Differentiable, x []float64, s numdiff.Settings, tol float64) error {
	for k := 0; k < f.OutputSize(); k++ {
		if err := CheckGradient(f, x, k, s, tol); err != nil {
			return err
		}
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}
	jac := Jac(f, x)
	for k := 0; k < f.OutputSize(); k++ {
		g := Grad(f, x, k)
		for i, v := range g {
			if !(math.Abs(jac.At(k, i)-v) <= tol) {
				return fmt.Errorf("jacobian row %d differs from gradient at component %d: %g != %g", k, i, jac.At(k, i), v)
			}
		}
	}
	return nil
}
