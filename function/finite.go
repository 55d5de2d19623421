// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import (
	"fmt"

	"github.com/curioloop/optcore/numdiff"
	"gonum.org/v1/gonum/mat"
)

type approximation interface {
	approximated() bool
}

// Approximated reports whether some derivative of f comes from finite differences.
func Approximated(f Function) bool {
	a, ok := f.(approximation)
	return ok && a.approximated()
}

// FiniteDifference is the default derivative implementation for any Function.
// Only the Evaluate method of the wrapped function is used, so an exact
// override on the wrapped type is bypassed.
//
// The Hessian of output k is the symmetrized finite difference Jacobian of
// the approximated gradient of output k.
type FiniteDifference struct {
	f        Function
	settings numdiff.Settings
	jac      *numdiff.Approximator
}

// Approximate wraps f with finite difference derivatives.
// Invalid settings panic.
func Approximate(f Function, s numdiff.Settings) *FiniteDifference {
	jac, err := numdiff.New(f.InputSize(), f.OutputSize(), f.Evaluate, s)
	if err != nil {
		panic("finite difference: " + err.Error())
	}
	return &FiniteDifference{f: f, settings: s, jac: jac}
}

// Differentiate returns f itself when it provides derivatives,
// otherwise its finite difference approximation.
func Differentiate(f Function, s numdiff.Settings) Differentiable {
	if d, ok := f.(Differentiable); ok {
		return d
	}
	return Approximate(f, s)
}

// Twice returns f itself when it provides a Hessian, otherwise a function
// whose Hessian is approximated from the gradient of f.
func Twice(f Differentiable, s numdiff.Settings) TwiceDifferentiable {
	if t, ok := f.(TwiceDifferentiable); ok {
		return t
	}
	return &finiteHessian{Differentiable: f, settings: s}
}

func (fd *FiniteDifference) InputSize() int  { return fd.f.InputSize() }
func (fd *FiniteDifference) OutputSize() int { return fd.f.OutputSize() }

// Base returns the wrapped function.
func (fd *FiniteDifference) Base() Function { return fd.f }

// Settings returns the finite difference configuration.
func (fd *FiniteDifference) Settings() numdiff.Settings { return fd.settings }

func (fd *FiniteDifference) approximated() bool { return true }

func (fd *FiniteDifference) Evaluate(dst, x []float64) {
	fd.f.Evaluate(dst, x)
}

func (fd *FiniteDifference) Gradient(dst, x []float64, output int) {
	CheckGradientArgs(fd, dst, x, output)
	if err := fd.jac.Gradient(dst, x, output); err != nil {
		panic(err.Error())
	}
}

func (fd *FiniteDifference) Jacobian(dst *mat.Dense, x []float64) {
	CheckJacobianArgs(fd, dst, x)
	if err := fd.jac.Jacobian(dst, x); err != nil {
		panic(err.Error())
	}
}

func (fd *FiniteDifference) Hessian(dst *mat.Dense, x []float64, output int) {
	CheckHessianArgs(fd, dst, x, output)
	hessianOf(dst, x, fd.InputSize(), fd.settings, func(g, x []float64) {
		fd.Gradient(g, x, output)
	})
}

func (fd *FiniteDifference) String() string {
	return fmt.Sprintf("%s (%s finite differences)", fd.f, fd.settings.Method)
}

type finiteHessian struct {
	Differentiable
	settings numdiff.Settings
}

func (fh *finiteHessian) approximated() bool { return true }

func (fh *finiteHessian) Hessian(dst *mat.Dense, x []float64, output int) {
	CheckHessianArgs(fh, dst, x, output)
	hessianOf(dst, x, fh.InputSize(), fh.settings, func(g, x []float64) {
		fh.Gradient(g, x, output)
	})
}

func (fh *finiteHessian) String() string {
	return fmt.Sprintf("%s (%s finite difference hessian)", fh.Differentiable, fh.settings.Method)
}

func hessianOf(dst *mat.Dense, x []float64, n int, s numdiff.Settings, grad numdiff.Object) {
	if n == 0 {
		return
	}
	a, err := numdiff.New(n, n, grad, s)
	if err != nil {
		panic("finite difference: " + err.Error())
	}
	if err := a.Jacobian(dst, x); err != nil {
		panic(err.Error())
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := 0.5 * (dst.At(i, j) + dst.At(j, i))
			dst.Set(i, j, v)
			dst.Set(j, i, v)
		}
	}
}
