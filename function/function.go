// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package function defines mathematical functions 𝒇(𝐱) : ℝⁿ → ℝᵐ with
// statically advertised derivative support.
//
// The capability tiers form a strict refinement:
//
//	Function ⊂ Differentiable ⊂ TwiceDifferentiable
//
// A solver that needs gradients constrains its type parameters with
// Differentiable, so attaching a value-only Function fails to compile.
//
// Calling any evaluation method with mismatched dimensions is a programming
// error and panics.
package function

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Function is a value-only mapping 𝒇(𝐱) : ℝⁿ → ℝᵐ.
// The dimensions are fixed at construction.
type Function interface {
	// InputSize returns n.
	InputSize() int
	// OutputSize returns m.
	OutputSize() int
	// Evaluate stores 𝒇(𝐱) in the m-vector dst.
	// It must be deterministic and must not modify x.
	Evaluate(dst, x []float64)
	fmt.Stringer
}

// Differentiable is a Function that exposes first order derivatives.
type Differentiable interface {
	Function
	// Gradient stores 𝜵𝒇ₖ(𝐱) in the n-vector dst where k is output.
	Gradient(dst, x []float64, output int)
	// Jacobian stores the m×n matrix 𝒇′(𝐱) in dst.
	// Row k of the Jacobian equals the gradient of output k.
	Jacobian(dst *mat.Dense, x []float64)
}

// TwiceDifferentiable is a Differentiable that exposes second order derivatives.
type TwiceDifferentiable interface {
	Differentiable
	// Hessian stores the n×n matrix 𝜵²𝒇ₖ(𝐱) in dst where k is output.
	Hessian(dst *mat.Dense, x []float64, output int)
}

// Capability is the derivative level a function type advertises.
type Capability int

const (
	ValueOnly Capability = iota
	FirstOrder
	SecondOrder
)

func (c Capability) String() string {
	switch c {
	case ValueOnly:
		return "value-only"
	case FirstOrder:
		return "differentiable"
	case SecondOrder:
		return "twice-differentiable"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// CapabilityOf reports the highest tier implemented by f.
func CapabilityOf(f Function) Capability {
	switch f.(type) {
	case TwiceDifferentiable:
		return SecondOrder
	case Differentiable:
		return FirstOrder
	default:
		return ValueOnly
	}
}

// Eval returns 𝒇(𝐱).
func Eval(f Function, x []float64) []float64 {
	dst := make([]float64, f.OutputSize())
	f.Evaluate(dst, x)
	return dst
}

// Grad returns the gradient of output k at x.
func Grad(f Differentiable, x []float64, k int) []float64 {
	dst := make([]float64, f.InputSize())
	f.Gradient(dst, x, k)
	return dst
}

// Jac returns the Jacobian of f at x.
func Jac(f Differentiable, x []float64) *mat.Dense {
	dst := mat.NewDense(f.OutputSize(), f.InputSize(), nil)
	f.Jacobian(dst, x)
	return dst
}

// Hess returns the Hessian of output k at x.
func Hess(f TwiceDifferentiable, x []float64, k int) *mat.Dense {
	n := f.InputSize()
	dst := mat.NewDense(n, n, nil)
	f.Hessian(dst, x, k)
	return dst
}

// StackGradients fills dst row by row with the gradients of f.
// Function authors that only write Gradient may delegate Jacobian to it.
func StackGradients(dst *mat.Dense, f Differentiable, x []float64) {
	CheckJacobianArgs(f, dst, x)
	row := make([]float64, f.InputSize())
	for k := 0; k < f.OutputSize(); k++ {
		f.Gradient(row, x, k)
		dst.SetRow(k, row)
	}
}

// CheckEvalArgs panics unless len(x) = n and len(dst) = m.
func CheckEvalArgs(f Function, dst, x []float64) {
	if len(x) != f.InputSize() {
		panic(fmt.Sprintf("argument size %d does not match input size %d", len(x), f.InputSize()))
	}
	if len(dst) != f.OutputSize() {
		panic(fmt.Sprintf("result size %d does not match output size %d", len(dst), f.OutputSize()))
	}
}

// CheckGradientArgs panics unless len(x) = len(dst) = n and 0 ≤ k < m.
func CheckGradientArgs(f Function, dst, x []float64, k int) {
	n := f.InputSize()
	if len(x) != n {
		panic(fmt.Sprintf("argument size %d does not match input size %d", len(x), n))
	}
	if len(dst) != n {
		panic(fmt.Sprintf("gradient size %d does not match input size %d", len(dst), n))
	}
	checkOutput(f, k)
}

// CheckJacobianArgs panics unless len(x) = n and dst is m×n.
func CheckJacobianArgs(f Function, dst *mat.Dense, x []float64) {
	n, m := f.InputSize(), f.OutputSize()
	if len(x) != n {
		panic(fmt.Sprintf("argument size %d does not match input size %d", len(x), n))
	}
	if r, c := dst.Dims(); r != m || c != n {
		panic(fmt.Sprintf("jacobian is %d×%d, expected %d×%d", r, c, m, n))
	}
}

// CheckHessianArgs panics unless len(x) = n, dst is n×n and 0 ≤ k < m.
func CheckHessianArgs(f Function, dst *mat.Dense, x []float64, k int) {
	n := f.InputSize()
	if len(x) != n {
		panic(fmt.Sprintf("argument size %d does not match input size %d", len(x), n))
	}
	if r, c := dst.Dims(); r != n || c != n {
		panic(fmt.Sprintf("hessian is %d×%d, expected %d×%d", r, c, n, n))
	}
	checkOutput(f, k)
}

func checkOutput(f Function, k int) {
	if k < 0 || k >= f.OutputSize() {
		panic(fmt.Sprintf("output index %d out of range [0, %d)", k, f.OutputSize()))
	}
}

func checkSizes(n, m int) {
	if n < 0 {
		panic("input size must not be negative")
	}
	if m < 1 {
		panic("output size must be positive")
	}
}
