// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mayflyopt adapts the Mayfly metaheuristic to the solver.Backend
// contract.
//
// Mayfly searches a box with a single scalar range, so every argument is
// rescaled to [0, 1] from its own finite bounds. Constraints are folded into
// the objective as a quadratic penalty on the distance to their intervals.
package mayflyopt

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/problem"
	"github.com/curioloop/optcore/solver"
	"github.com/cwbudde/mayfly"
)

// Config controls the search.
type Config struct {
	MaxIterations int
	Population    int     // mayfly requires at least 20
	Seed          int64   // seeds each solve cycle
	Penalty       float64 // weight of the squared constraint violation
	Tolerance     float64 // largest accepted violation of the best point
}

// DefaultConfig returns a configuration suitable for small problems.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 200,
		Population:    30,
		Seed:          1,
		Penalty:       1e4,
		Tolerance:     1e-3,
	}
}

func (c Config) validate() error {
	switch {
	case c.MaxIterations <= 0:
		return errors.New("max iterations must be positive")
	case c.Population < 20:
		return fmt.Errorf("population %d is below the minimum of 20", c.Population)
	case c.Penalty <= 0:
		return errors.New("penalty must be positive")
	case c.Tolerance < 0:
		return errors.New("tolerance must be non-negative")
	}
	return nil
}

// Backend minimizes any scalar objective inside finite argument bounds.
// It needs no derivatives.
type Backend[F, C function.Function] struct {
	cfg Config
	rng *rand.Rand
}

// New validates cfg and creates a backend.
func New[F, C function.Function](cfg Config) (*Backend[F, C], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Backend[F, C]{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

func (b *Backend[F, C]) Name() string { return "mayfly" }

// Reset reseeds the random source so the next cycle repeats the search.
func (b *Backend[F, C]) Reset() {
	b.rng = rand.New(rand.NewSource(b.cfg.Seed))
}

func (b *Backend[F, C]) Solve(p *problem.Problem[F, C]) solver.Outcome {
	obj := p.Objective()
	if m := obj.OutputSize(); m != 1 {
		return solver.Failuref("mayfly minimizes scalar objectives, got %d outputs", m)
	}
	bounds := p.ArgumentBounds()
	for i, iv := range bounds {
		if !iv.Finite() {
			return solver.Failuref("mayfly requires finite argument bounds, argument %d is in %s", i, iv)
		}
	}

	constraints := p.Constraints()
	cost := func(u []float64) float64 {
		x := fromUnit(u, bounds)
		v := function.Eval(obj, x)[0]
		var pen float64
		for _, c := range constraints {
			for j, y := range function.Eval(c.Function, x) {
				d := c.Bounds[j].Distance(y) * c.Scale
				pen += d * d
			}
		}
		return v + b.cfg.Penalty*pen
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = cost
	config.ProblemSize = len(bounds)
	config.MaxIterations = b.cfg.MaxIterations
	config.NPop = b.cfg.Population
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = b.rng

	res, err := mayfly.Optimize(config)
	if err != nil {
		return solver.Failure(fmt.Sprintf("mayfly: %v", err), nil)
	}

	x := fromUnit(res.GlobalBest.Position, bounds)
	r := solver.Result{
		X:           x,
		Value:       function.Eval(obj, x),
		Constraints: p.EvaluateConstraints(x),
	}
	if v, at := p.Violation(x); v > b.cfg.Tolerance {
		return solver.Failure(fmt.Sprintf("best point violates constraint output %d by %g", at, v), &r)
	}
	return solver.Success(r)
}

// fromUnit maps u ∈ [0, 1]ⁿ into the argument box, clamping stray coordinates.
func fromUnit(u []float64, bounds []problem.Interval) []float64 {
	x := make([]float64, len(bounds))
	for i, iv := range bounds {
		t := min(max(u[i], 0), 1)
		x[i] = iv.Lower + t*(iv.Upper-iv.Lower)
	}
	return x
}
