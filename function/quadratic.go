// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// NumericQuadratic implements the scalar function 𝒇(𝐱) = ½𝐱ᵀ𝐀𝐱 + 𝐛ᵀ𝐱 + 𝒄
// with a symmetric n×n matrix 𝐀.
type NumericQuadratic struct {
	a *mat.SymDense
	b *mat.VecDense
	c float64
}

// NewNumericQuadratic copies a and b into a new quadratic function.
// It panics when len(b) differs from the order of a.
func NewNumericQuadratic(a mat.Symmetric, b []float64, c float64) *NumericQuadratic {
	n := a.SymmetricDim()
	if len(b) != n {
		panic(fmt.Sprintf("b has length %d, expected %d", len(b), n))
	}
	sym := mat.NewSymDense(n, nil)
	sym.CopySym(a)
	return &NumericQuadratic{
		a: sym,
		b: mat.NewVecDense(n, append([]float64(nil), b...)),
		c: c,
	}
}

func (q *NumericQuadratic) InputSize() int  { return q.a.SymmetricDim() }
func (q *NumericQuadratic) OutputSize() int { return 1 }

// A returns a copy of the matrix 𝐀.
func (q *NumericQuadratic) A() *mat.SymDense {
	a := mat.NewSymDense(q.a.SymmetricDim(), nil)
	a.CopySym(q.a)
	return a
}

// B returns a copy of the vector 𝐛.
func (q *NumericQuadratic) B() []float64 {
	return mat.Col(nil, 0, q.b)
}

// C returns the constant term.
func (q *NumericQuadratic) C() float64 { return q.c }

func (q *NumericQuadratic) Evaluate(dst, x []float64) {
	CheckEvalArgs(q, dst, x)
	v := mat.NewVecDense(len(x), x)
	dst[0] = 0.5*mat.Inner(v, q.a, v) + mat.Dot(q.b, v) + q.c
}

func (q *NumericQuadratic) Gradient(dst, x []float64, output int) {
	CheckGradientArgs(q, dst, x, output)
	g := mat.NewVecDense(len(dst), dst)
	g.MulVec(q.a, mat.NewVecDense(len(x), x))
	g.AddVec(g, q.b)
}

func (q *NumericQuadratic) Jacobian(dst *mat.Dense, x []float64) {
	CheckJacobianArgs(q, dst, x)
	q.Gradient(dst.RawRowView(0), x, 0)
}

func (q *NumericQuadratic) Hessian(dst *mat.Dense, x []float64, output int) {
	CheckHessianArgs(q, dst, x, output)
	dst.Copy(q.a)
}

func (q *NumericQuadratic) String() string {
	var sb strings.Builder
	sb.WriteString("Numeric quadratic function\n")
	fmt.Fprintf(&sb, "A = %v\n", mat.Formatted(q.a, mat.Prefix("    "), mat.Squeeze()))
	fmt.Fprintf(&sb, "b = %v\n", mat.Col(nil, 0, q.b))
	fmt.Fprintf(&sb, "c = %g", q.c)
	return sb.String()
}
