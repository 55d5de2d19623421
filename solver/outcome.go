// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"
	"slices"
	"strings"
)

// State identifies the case held by an Outcome.
type State int

const (
	// NoSolution the problem has not been solved yet.
	NoSolution State = iota
	// Solved a solution has been found.
	Solved
	// SolvedWithWarnings a solution has been found but the backend reported advisories.
	SolvedWithWarnings
	// Failed the backend did not produce a usable solution.
	Failed
)

func (s State) String() string {
	switch s {
	case NoSolution:
		return "no solution"
	case Solved:
		return "solved"
	case SolvedWithWarnings:
		return "solved with warnings"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result describes a point found by a solver.
type Result struct {
	X           []float64 // Solution.
	Value       []float64 // Objective value at X.
	Constraints []float64 // Constraint values at X, flattened in problem order.
	Lambda      []float64 // Lagrange multipliers if the backend provides them.
}

func (r Result) clone() Result {
	return Result{
		X:           slices.Clone(r.X),
		Value:       slices.Clone(r.Value),
		Constraints: slices.Clone(r.Constraints),
		Lambda:      slices.Clone(r.Lambda),
	}
}

func (r Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "x = %v, value = %v", r.X, r.Value)
	if len(r.Constraints) > 0 {
		fmt.Fprintf(&sb, ", constraints = %v", r.Constraints)
	}
	if len(r.Lambda) > 0 {
		fmt.Fprintf(&sb, ", lambda = %v", r.Lambda)
	}
	return sb.String()
}

// Error is a recoverable solve failure such as non-convergence or infeasibility.
type Error struct {
	Reason string
	// Last is the last point reached by the backend, if any.
	// It is not guaranteed to be feasible or optimal.
	Last *Result
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) clone() *Error {
	c := &Error{Reason: e.Reason}
	if e.Last != nil {
		l := e.Last.clone()
		c.Last = &l
	}
	return c
}

// Outcome is the terminal state of one solve cycle.
// The zero value holds no solution.
type Outcome struct {
	state    State
	result   Result
	warnings []string
	err      *Error
}

// Success creates a Solved outcome.
func Success(r Result) Outcome {
	return Outcome{state: Solved, result: r.clone()}
}

// SuccessWithWarnings creates a SolvedWithWarnings outcome.
// Without warnings it is the same as Success.
func SuccessWithWarnings(r Result, warnings ...string) Outcome {
	if len(warnings) == 0 {
		return Success(r)
	}
	return Outcome{state: SolvedWithWarnings, result: r.clone(), warnings: slices.Clone(warnings)}
}

// Failure creates a Failed outcome. last may be nil.
func Failure(reason string, last *Result) Outcome {
	e := &Error{Reason: reason, Last: last}
	return Outcome{state: Failed, err: e.clone()}
}

// Failuref creates a Failed outcome with a formatted reason and no last point.
func Failuref(format string, a ...any) Outcome {
	return Failure(fmt.Sprintf(format, a...), nil)
}

// State returns the case held by o.
func (o Outcome) State() State { return o.state }

// Solved reports whether o holds a usable solution.
func (o Outcome) Solved() bool {
	return o.state == Solved || o.state == SolvedWithWarnings
}

// Result returns the solution when o is Solved or SolvedWithWarnings.
func (o Outcome) Result() (Result, bool) {
	if !o.Solved() {
		return Result{}, false
	}
	return o.result.clone(), true
}

// Warnings returns the advisories of a SolvedWithWarnings outcome in order.
func (o Outcome) Warnings() []string {
	return slices.Clone(o.warnings)
}

// Err returns the failure of a Failed outcome, nil otherwise.
func (o Outcome) Err() error {
	if o.err == nil {
		return nil
	}
	return o.err.clone()
}

// Visitor handles every case of an Outcome.
// Adding a case to Outcome adds a method here, so implementations stay exhaustive.
type Visitor interface {
	NoSolution()
	Solved(r Result)
	SolvedWithWarnings(r Result, warnings []string)
	Failed(err *Error)
}

// Visit calls the method of v matching the case held by o.
func (o Outcome) Visit(v Visitor) {
	switch o.state {
	case NoSolution:
		v.NoSolution()
	case Solved:
		v.Solved(o.result.clone())
	case SolvedWithWarnings:
		v.SolvedWithWarnings(o.result.clone(), slices.Clone(o.warnings))
	case Failed:
		v.Failed(o.err.clone())
	default:
		panic("unknown outcome state")
	}
}

type printer struct {
	sb *strings.Builder
}

func (p printer) NoSolution() {
	p.sb.WriteString("No solution")
}

func (p printer) Solved(r Result) {
	fmt.Fprintf(p.sb, "Result: %s", r)
}

func (p printer) SolvedWithWarnings(r Result, warnings []string) {
	fmt.Fprintf(p.sb, "Result with warnings: %s", r)
	for _, w := range warnings {
		fmt.Fprintf(p.sb, "\n  warning: %s", w)
	}
}

func (p printer) Failed(err *Error) {
	fmt.Fprintf(p.sb, "Solver error: %s", err.Reason)
	if err.Last != nil {
		fmt.Fprintf(p.sb, "\n  last state: %s", err.Last)
	}
}

func (o Outcome) String() string {
	var sb strings.Builder
	o.Visit(printer{&sb})
	return sb.String()
}
