// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gonumopt adapts the local minimizers of gonum.org/v1/gonum/optimize
// to the solver.Backend contract.
//
// The minimizers are unconstrained, so problems with constraints or finite
// argument bounds are reported as Failed outcomes.
package gonumopt

import (
	"fmt"
	"strings"

	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/problem"
	"github.com/curioloop/optcore/solver"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Backend minimizes a scalar differentiable objective with a gonum method.
type Backend[F function.Differentiable, C function.Function] struct {
	method   optimize.Method
	settings *optimize.Settings
	hessian  func(f F) func(hess *mat.SymDense, x []float64)
}

// New creates a gradient based backend. A nil method selects BFGS and
// nil settings select the gonum defaults.
func New[F function.Differentiable, C function.Function](method optimize.Method, settings *optimize.Settings) *Backend[F, C] {
	if method == nil {
		method = &optimize.BFGS{}
	}
	return &Backend[F, C]{method: method, settings: settings}
}

// NewSecondOrder creates a backend that also supplies the exact Hessian of the
// objective. A nil method selects Newton.
func NewSecondOrder[F function.TwiceDifferentiable, C function.Function](method optimize.Method, settings *optimize.Settings) *Backend[F, C] {
	if method == nil {
		method = &optimize.Newton{}
	}
	b := New[F, C](method, settings)
	b.hessian = func(f F) func(hess *mat.SymDense, x []float64) {
		n := f.InputSize()
		dense := mat.NewDense(n, n, nil)
		return func(hess *mat.SymDense, x []float64) {
			f.Hessian(dense, x, 0)
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					hess.SetSym(i, j, 0.5*(dense.At(i, j)+dense.At(j, i)))
				}
			}
		}
	}
	return b
}

func (b *Backend[F, C]) Name() string {
	name := fmt.Sprintf("%T", b.method)
	name = name[strings.LastIndexByte(name, '.')+1:]
	return "gonum-" + strings.ToLower(name)
}

func (b *Backend[F, C]) Solve(p *problem.Problem[F, C]) solver.Outcome {
	obj := p.Objective()
	if m := obj.OutputSize(); m != 1 {
		return solver.Failuref("%s minimizes scalar objectives, got %d outputs", b.Name(), m)
	}
	if p.NumConstraints() > 0 {
		return solver.Failuref("%s does not support constraints", b.Name())
	}
	for i, iv := range p.ArgumentBounds() {
		if !iv.IsUnbounded() {
			return solver.Failuref("%s does not support argument bounds, argument %d is in %s", b.Name(), i, iv)
		}
	}

	x0, ok := p.StartingPoint()
	if !ok {
		x0 = make([]float64, p.InputSize())
	}

	prob := optimize.Problem{
		Func: func(x []float64) float64 {
			return function.Eval(obj, x)[0]
		},
		Grad: func(grad, x []float64) {
			obj.Gradient(grad, x, 0)
		},
	}
	if b.hessian != nil {
		prob.Hess = b.hessian(obj)
	}

	var settings *optimize.Settings
	if b.settings != nil {
		s := *b.settings
		settings = &s
	}

	res, err := optimize.Minimize(prob, x0, settings, b.method)
	if res == nil {
		return solver.Failure(fmt.Sprintf("%s: %v", b.Name(), err), nil)
	}

	r := solver.Result{
		X:           res.X,
		Value:       []float64{res.F},
		Constraints: p.EvaluateConstraints(res.X),
	}
	if err != nil {
		return solver.Failure(fmt.Sprintf("%s: %v", b.Name(), err), &r)
	}

	switch res.Status {
	case optimize.Success, optimize.MethodConverge, optimize.GradientThreshold,
		optimize.FunctionConvergence, optimize.FunctionThreshold, optimize.StepConvergence:
		return solver.Success(r)
	case optimize.IterationLimit, optimize.RuntimeLimit, optimize.FunctionEvaluationLimit,
		optimize.GradientEvaluationLimit, optimize.HessianEvaluationLimit:
		return solver.SuccessWithWarnings(r,
			fmt.Sprintf("stopped early: %s after %d iterations", res.Status, res.Stats.MajorIterations))
	case optimize.FunctionNegativeInfinity:
		return solver.Failure("objective is unbounded below", &r)
	default:
		return solver.Failure(fmt.Sprintf("%s terminated with status %s", b.Name(), res.Status), &r)
	}
}
