// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NumericLinear implements 𝒇(𝐱) = 𝐀𝐱 + 𝐛 where 𝐀 is m×n and 𝐛 is an m-vector.
//
// Derivatives are exact: the gradient of output k is row k of 𝐀,
// the Jacobian is 𝐀 and every Hessian is zero.
type NumericLinear struct {
	a *mat.Dense
	b []float64
}

// NewNumericLinear copies a and b into a new linear function.
// It panics when len(b) differs from the number of rows of a.
func NewNumericLinear(a mat.Matrix, b []float64) *NumericLinear {
	m, _ := a.Dims()
	if len(b) != m {
		panic(fmt.Sprintf("b has length %d, expected %d", len(b), m))
	}
	return &NumericLinear{
		a: mat.DenseCopyOf(a),
		b: append([]float64(nil), b...),
	}
}

func (l *NumericLinear) InputSize() int {
	_, n := l.a.Dims()
	return n
}

func (l *NumericLinear) OutputSize() int {
	m, _ := l.a.Dims()
	return m
}

// A returns a copy of the matrix 𝐀.
func (l *NumericLinear) A() *mat.Dense {
	return mat.DenseCopyOf(l.a)
}

// B returns a copy of the vector 𝐛.
func (l *NumericLinear) B() []float64 {
	return append([]float64(nil), l.b...)
}

func (l *NumericLinear) Evaluate(dst, x []float64) {
	CheckEvalArgs(l, dst, x)
	y := mat.NewVecDense(len(dst), dst)
	y.MulVec(l.a, mat.NewVecDense(len(x), x))
	floats.Add(dst, l.b)
}

func (l *NumericLinear) Gradient(dst, x []float64, output int) {
	CheckGradientArgs(l, dst, x, output)
	mat.Row(dst, output, l.a)
}

func (l *NumericLinear) Jacobian(dst *mat.Dense, x []float64) {
	CheckJacobianArgs(l, dst, x)
	dst.Copy(l.a)
}

func (l *NumericLinear) Hessian(dst *mat.Dense, x []float64, output int) {
	CheckHessianArgs(l, dst, x, output)
	dst.Zero()
}

func (l *NumericLinear) String() string {
	var sb strings.Builder
	sb.WriteString("Numeric linear function\n")
	fmt.Fprintf(&sb, "A = %v\n", mat.Formatted(l.a, mat.Prefix("    "), mat.Squeeze()))
	fmt.Fprintf(&sb, "b = %v", l.b)
	return sb.String()
}
