// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/curioloop/optcore/function"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/functions"
)

// rosenbrock is the extended Rosenbrock function with its exact gradient.
type rosenbrock struct{ n int }

func (r rosenbrock) InputSize() int  { return r.n }
func (r rosenbrock) OutputSize() int { return 1 }

func (r rosenbrock) Evaluate(dst, x []float64) {
	function.CheckEvalArgs(r, dst, x)
	dst[0] = functions.ExtendedRosenbrock{}.Func(x)
}

func (r rosenbrock) Gradient(dst, x []float64, output int) {
	function.CheckGradientArgs(r, dst, x, output)
	functions.ExtendedRosenbrock{}.Grad(dst, x)
}

func (r rosenbrock) Jacobian(dst *mat.Dense, x []float64) {
	function.StackGradients(dst, r, x)
}

func (r rosenbrock) String() string {
	return fmt.Sprintf("Extended Rosenbrock (ℝ^%d → ℝ)", r.n)
}

// rosenbrockStart is the classic starting point repeated to n arguments.
func rosenbrockStart(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		if i%2 == 0 {
			x[i] = -1.2
		} else {
			x[i] = 1
		}
	}
	return x
}

func linearScenario() (*function.NumericLinear, []float64) {
	a := mat.NewDense(1, 5, []float64{1.2, 3.4, 5.6, 7.8, 0})
	return function.NewNumericLinear(a, []float64{1}), []float64{0.1, 1.2, 2.3, 3.4, 4.5}
}
