// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Func is a value-only function backed by a closure.
// Wrap it with Approximate to obtain derivatives.
type Func struct {
	name string
	n, m int
	eval func(dst, x []float64)
}

// New creates a value-only function ℝⁿ → ℝᵐ from eval.
func New(name string, n, m int, eval func(dst, x []float64)) *Func {
	checkSizes(n, m)
	if eval == nil {
		panic("eval function is required")
	}
	return &Func{name: name, n: n, m: m, eval: eval}
}

func (f *Func) InputSize() int  { return f.n }
func (f *Func) OutputSize() int { return f.m }

func (f *Func) Evaluate(dst, x []float64) {
	CheckEvalArgs(f, dst, x)
	f.eval(dst, x)
}

func (f *Func) String() string {
	return fmt.Sprintf("%s (ℝ^%d → ℝ^%d)", f.name, f.n, f.m)
}

// Constant implements 𝒇(𝐱) = 𝐯 for every 𝐱 ∈ ℝⁿ.
type Constant struct {
	n int
	v []float64
}

// NewConstant creates a constant function of n arguments.
func NewConstant(n int, v []float64) *Constant {
	checkSizes(n, len(v))
	return &Constant{n: n, v: append([]float64(nil), v...)}
}

func (c *Constant) InputSize() int  { return c.n }
func (c *Constant) OutputSize() int { return len(c.v) }

func (c *Constant) Evaluate(dst, x []float64) {
	CheckEvalArgs(c, dst, x)
	copy(dst, c.v)
}

func (c *Constant) Gradient(dst, x []float64, output int) {
	CheckGradientArgs(c, dst, x, output)
	clear(dst)
}

func (c *Constant) Jacobian(dst *mat.Dense, x []float64) {
	CheckJacobianArgs(c, dst, x)
	dst.Zero()
}

func (c *Constant) Hessian(dst *mat.Dense, x []float64, output int) {
	CheckHessianArgs(c, dst, x, output)
	dst.Zero()
}

func (c *Constant) String() string {
	return fmt.Sprintf("Constant function %v", c.v)
}

// Identity implements 𝒇(𝐱) = 𝐱 + 𝐨 where 𝐨 is a fixed offset.
type Identity struct {
	offset []float64
}

// NewIdentity creates an identity function of len(offset) arguments.
func NewIdentity(offset []float64) *Identity {
	checkSizes(len(offset), len(offset))
	return &Identity{offset: append([]float64(nil), offset...)}
}

func (id *Identity) InputSize() int  { return len(id.offset) }
func (id *Identity) OutputSize() int { return len(id.offset) }

func (id *Identity) Evaluate(dst, x []float64) {
	CheckEvalArgs(id, dst, x)
	floats.AddTo(dst, x, id.offset)
}

func (id *Identity) Gradient(dst, x []float64, output int) {
	CheckGradientArgs(id, dst, x, output)
	clear(dst)
	dst[output] = 1
}

func (id *Identity) Jacobian(dst *mat.Dense, x []float64) {
	CheckJacobianArgs(id, dst, x)
	dst.Zero()
	for i := range id.offset {
		dst.Set(i, i, 1)
	}
}

func (id *Identity) Hessian(dst *mat.Dense, x []float64, output int) {
	CheckHessianArgs(id, dst, x, output)
	dst.Zero()
}

func (id *Identity) String() string {
	return fmt.Sprintf("Identity function with offset %v", id.offset)
}
