// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problem aggregates an objective, constraints and bounds into an
// optimization problem
//
//	minimize 𝒇(𝐱) subject to
//	  - 𝒍ⱼ ≤ 𝒄ⱼ(𝐱) ≤ 𝒖ⱼ (j = 1 ··· m)
//	  - 𝒍ᵢ ≤ 𝐱ᵢ ≤ 𝒖ᵢ (i = 1 ··· n)
//
// The type parameters F and C name the capability of the objective and of the
// constraints, so solver backends can demand derivatives at compile time.
// A built Problem is immutable and performs no evaluation.
package problem

import (
	"fmt"
	"slices"
	"strings"

	"github.com/curioloop/optcore/function"
)

// Constraint pairs a constraint function with one interval per output.
type Constraint[C function.Function] struct {
	Function C
	Bounds   []Interval
	// Scale is a hint for solvers that normalize constraints. Defaults to 1.
	Scale float64
}

func (c Constraint[C]) clone() Constraint[C] {
	c.Bounds = slices.Clone(c.Bounds)
	return c
}

// Problem is an immutable optimization problem.
// Use a Builder to create one.
type Problem[F, C function.Function] struct {
	objective   F
	constraints []Constraint[C]
	bounds      []Interval
	start       []float64
	names       []string
}

// Builder accumulates the parts of a Problem and checks every insertion
// against the objective input size. Violations panic.
type Builder[F, C function.Function] struct {
	p Problem[F, C]
}

// NewBuilder starts a problem minimizing objective with unbounded arguments.
func NewBuilder[F, C function.Function](objective F) *Builder[F, C] {
	n := objective.InputSize()
	bounds := make([]Interval, n)
	for i := range bounds {
		bounds[i] = Unbounded()
	}
	return &Builder[F, C]{p: Problem[F, C]{objective: objective, bounds: bounds}}
}

// Constraint appends c with the given bounds. A single interval applies to
// every output of c; otherwise one interval per output is required.
// Without bounds the constraint is unbounded.
func (b *Builder[F, C]) Constraint(c C, bounds ...Interval) *Builder[F, C] {
	return b.ScaledConstraint(c, 1, bounds...)
}

// ScaledConstraint appends c like Constraint with an explicit scale hint.
func (b *Builder[F, C]) ScaledConstraint(c C, scale float64, bounds ...Interval) *Builder[F, C] {
	n, m := b.p.InputSize(), c.OutputSize()
	if c.InputSize() != n {
		panic(fmt.Sprintf("constraint input size %d does not match objective input size %d", c.InputSize(), n))
	}
	if !(scale > 0) {
		panic(fmt.Sprintf("constraint scale %g must be positive", scale))
	}

	var bnd []Interval
	switch len(bounds) {
	case 0:
		bnd = slices.Repeat([]Interval{Unbounded()}, m)
	case 1:
		bnd = slices.Repeat(bounds, m)
	case m:
		bnd = slices.Clone(bounds)
	default:
		panic(fmt.Sprintf("got %d constraint bounds, expected 1 or %d", len(bounds), m))
	}
	for k, iv := range bnd {
		if !iv.valid() {
			panic(fmt.Sprintf("invalid constraint bound %v at output %d", iv, k))
		}
	}

	b.p.constraints = append(b.p.constraints, Constraint[C]{Function: c, Bounds: bnd, Scale: scale})
	return b
}

// ArgumentBounds sets the box bounds, one interval per argument.
func (b *Builder[F, C]) ArgumentBounds(bounds ...Interval) *Builder[F, C] {
	if len(bounds) != b.p.InputSize() {
		panic(fmt.Sprintf("got %d argument bounds, expected %d", len(bounds), b.p.InputSize()))
	}
	for i, iv := range bounds {
		if !iv.valid() {
			panic(fmt.Sprintf("invalid argument bound %v at %d", iv, i))
		}
	}
	b.p.bounds = slices.Clone(bounds)
	return b
}

// StartingPoint sets the initial guess.
func (b *Builder[F, C]) StartingPoint(x []float64) *Builder[F, C] {
	if len(x) != b.p.InputSize() {
		panic(fmt.Sprintf("starting point size %d does not match input size %d", len(x), b.p.InputSize()))
	}
	b.p.start = slices.Clone(x)
	return b
}

// ArgumentNames labels the arguments for display.
func (b *Builder[F, C]) ArgumentNames(names ...string) *Builder[F, C] {
	if len(names) != b.p.InputSize() {
		panic(fmt.Sprintf("got %d argument names, expected %d", len(names), b.p.InputSize()))
	}
	b.p.names = slices.Clone(names)
	return b
}

// Build returns a snapshot of the problem.
// Later calls on the builder do not affect it.
func (b *Builder[F, C]) Build() *Problem[F, C] {
	p := b.p.clone()
	return &p
}

func (p *Problem[F, C]) clone() Problem[F, C] {
	cs := make([]Constraint[C], len(p.constraints))
	for i, c := range p.constraints {
		cs[i] = c.clone()
	}
	return Problem[F, C]{
		objective:   p.objective,
		constraints: cs,
		bounds:      slices.Clone(p.bounds),
		start:       slices.Clone(p.start),
		names:       slices.Clone(p.names),
	}
}

// Objective returns the function to minimize.
func (p *Problem[F, C]) Objective() F { return p.objective }

// InputSize returns the number of arguments n.
func (p *Problem[F, C]) InputSize() int { return p.objective.InputSize() }

// Constraints returns a copy of the constraints in insertion order.
func (p *Problem[F, C]) Constraints() []Constraint[C] {
	cs := make([]Constraint[C], len(p.constraints))
	for i, c := range p.constraints {
		cs[i] = c.clone()
	}
	return cs
}

// NumConstraints returns the number of constraint functions.
func (p *Problem[F, C]) NumConstraints() int { return len(p.constraints) }

// ConstraintOutputs returns the sum of the constraint output sizes, which is
// the length of a flattened constraint value vector.
func (p *Problem[F, C]) ConstraintOutputs() int {
	total := 0
	for _, c := range p.constraints {
		total += c.Function.OutputSize()
	}
	return total
}

// EvaluateConstraints returns the flattened constraint values at x,
// preserving constraint order.
func (p *Problem[F, C]) EvaluateConstraints(x []float64) []float64 {
	values := make([]float64, 0, p.ConstraintOutputs())
	for _, c := range p.constraints {
		values = append(values, function.Eval(c.Function, x)...)
	}
	return values
}

// Violation returns the largest distance between a constraint value at x
// and its interval, and the flattened index where it occurs.
func (p *Problem[F, C]) Violation(x []float64) (float64, int) {
	worst, at, k := 0.0, -1, 0
	for _, c := range p.constraints {
		for j, v := range function.Eval(c.Function, x) {
			if d := c.Bounds[j].Distance(v); d > worst {
				worst, at = d, k
			}
			k++
		}
	}
	return worst, at
}

// ArgumentBounds returns a copy of the box bounds.
func (p *Problem[F, C]) ArgumentBounds() []Interval { return slices.Clone(p.bounds) }

// StartingPoint returns a copy of the initial guess if one was set.
func (p *Problem[F, C]) StartingPoint() ([]float64, bool) {
	if p.start == nil {
		return nil, false
	}
	return slices.Clone(p.start), true
}

// ArgumentNames returns a copy of the argument labels, nil when unset.
func (p *Problem[F, C]) ArgumentNames() []string { return slices.Clone(p.names) }

func (p *Problem[F, C]) argName(i int) string {
	if p.names != nil {
		return p.names[i]
	}
	return fmt.Sprintf("x%d", i)
}

func (p *Problem[F, C]) String() string {
	var sb strings.Builder
	sb.WriteString("Problem:\n")
	fmt.Fprintf(&sb, "  Objective: %s\n", indent(p.objective.String()))
	sb.WriteString("  Argument bounds:")
	for i, iv := range p.bounds {
		fmt.Fprintf(&sb, " %s ∈ %s", p.argName(i), iv)
	}
	sb.WriteByte('\n')
	if p.start != nil {
		fmt.Fprintf(&sb, "  Starting point: %v\n", p.start)
	}
	fmt.Fprintf(&sb, "  Number of constraints: %d", len(p.constraints))
	for j, c := range p.constraints {
		fmt.Fprintf(&sb, "\n  Constraint %d: %s", j, indent(c.Function.String()))
		fmt.Fprintf(&sb, "\n    Bounds: %v", c.Bounds)
		if c.Scale != 1 {
			fmt.Fprintf(&sb, "\n    Scale: %g", c.Scale)
		}
	}
	return sb.String()
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}

// Map re-types a problem by converting its objective and every constraint.
// Bounds, starting point, names and constraint order are preserved.
//
// A typical use lifts a value-only problem for a gradient solver:
//
//	dp := problem.Map(p, approx, approx)
//
// where approx wraps functions with function.Approximate.
func Map[F, C, G, D function.Function](p *Problem[F, C], objective func(F) G, constraint func(C) D) *Problem[G, D] {
	obj := objective(p.objective)
	if obj.InputSize() != p.InputSize() {
		panic("mapped objective changed the input size")
	}
	b := NewBuilder[G, D](obj)
	for _, c := range p.constraints {
		mc := constraint(c.Function)
		if mc.OutputSize() != c.Function.OutputSize() {
			panic("mapped constraint changed the output size")
		}
		b.ScaledConstraint(mc, c.Scale, c.Bounds...)
	}
	b.ArgumentBounds(p.bounds...)
	if p.start != nil {
		b.StartingPoint(p.start)
	}
	if p.names != nil {
		b.ArgumentNames(p.names...)
	}
	return b.Build()
}
