// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package function

import "fmt"

// Parametrized maps a parameter vector 𝐩 ∈ ℝᵖ to a function of type F.
type Parametrized[F Function] struct {
	name  string
	p     int
	build func(p []float64) F
}

// NewParametrized creates a family of functions indexed by p parameters.
func NewParametrized[F Function](name string, p int, build func(p []float64) F) *Parametrized[F] {
	if p < 0 {
		panic("parameter size must not be negative")
	}
	if build == nil {
		panic("build function is required")
	}
	return &Parametrized[F]{name: name, p: p, build: build}
}

// ParameterSize returns p.
func (pf *Parametrized[F]) ParameterSize() int { return pf.p }

// Instantiate returns the member of the family selected by param.
func (pf *Parametrized[F]) Instantiate(param []float64) F {
	if len(param) != pf.p {
		panic(fmt.Sprintf("parameter size %d does not match %d", len(param), pf.p))
	}
	return pf.build(append([]float64(nil), param...))
}

func (pf *Parametrized[F]) String() string {
	return fmt.Sprintf("Parametrized function %s (ℝ^%d)", pf.name, pf.p)
}
