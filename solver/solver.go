// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the solve-once, read-many lifecycle shared by all
// optimization backends.
//
// A Solver caches the Outcome of one solve cycle:
//
//	NoSolution ──Minimum──▶ Solved | SolvedWithWarnings | Failed
//	    ▲                                   │
//	    └──────────────── Reset ────────────┘
//
// Minimum runs Backend.Solve at most once per cycle. Numerical failures are
// reported through a Failed outcome. Contract violations (a malformed
// problem, a backend that returns no solution) panic.
package solver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/problem"
	"github.com/google/uuid"
)

// Backend implements an optimization algorithm.
//
// Solve must return a terminal outcome (Solved, SolvedWithWarnings or Failed)
// and must not modify the problem. It is called at most once per solve cycle,
// so a backend may perform one-time setup inside it.
type Backend[F, C function.Function] interface {
	Name() string
	Solve(p *problem.Problem[F, C]) Outcome
}

// Resetter is implemented by backends that hold working state between cycles.
type Resetter interface {
	Reset()
}

// Solver memoizes the outcome of a Backend on a Problem.
//
// A Solver is not safe for concurrent use. The Problem it references is
// read-only and may be shared by several solvers.
type Solver[F, C function.Function] struct {
	problem *problem.Problem[F, C]
	backend Backend[F, C]
	logger  *slog.Logger

	outcome Outcome
	cycle   uuid.UUID
	solves  int
}

// New creates a solver for p. A nil logger selects slog.Default().
func New[F, C function.Function](p *problem.Problem[F, C], backend Backend[F, C], logger *slog.Logger) *Solver[F, C] {
	if p == nil {
		panic("problem is required")
	}
	if backend == nil {
		panic("backend is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver[F, C]{
		problem: p,
		backend: backend,
		logger:  logger,
		cycle:   uuid.New(),
	}
}

// Minimum returns the outcome of the current cycle, solving the problem first
// if it has not been solved yet.
func (s *Solver[F, C]) Minimum() Outcome {
	if s.outcome.State() != NoSolution {
		return s.outcome
	}

	log := s.logger.With("cycle", s.cycle.String(), "backend", s.backend.Name())
	log.Debug("Solving problem", "n", s.problem.InputSize(), "constraints", s.problem.NumConstraints())

	outcome := s.backend.Solve(s.problem)
	s.solves++
	if outcome.State() == NoSolution {
		panic(fmt.Sprintf("backend %s returned without a solution", s.backend.Name()))
	}
	s.outcome = outcome

	switch outcome.State() {
	case Solved:
		r, _ := outcome.Result()
		log.Info("Solve complete", "state", outcome.State().String(), "value", r.Value)
	case SolvedWithWarnings:
		r, _ := outcome.Result()
		log.Warn("Solve complete with warnings", "value", r.Value, "warnings", outcome.Warnings())
	case Failed:
		log.Error("Solve failed", "error", outcome.Err())
	}
	return s.outcome
}

// Reset discards the cached outcome and any backend working state,
// so the next call to Minimum solves again.
func (s *Solver[F, C]) Reset() {
	s.outcome = Outcome{}
	if r, ok := s.backend.(Resetter); ok {
		r.Reset()
	}
	s.cycle = uuid.New()
	s.logger.Debug("Solver reset", "cycle", s.cycle.String(), "backend", s.backend.Name())
}

// Outcome returns the cached outcome without solving.
func (s *Solver[F, C]) Outcome() Outcome { return s.outcome }

// Problem returns the problem being solved.
func (s *Solver[F, C]) Problem() *problem.Problem[F, C] { return s.problem }

// Backend returns the algorithm used by the solver.
func (s *Solver[F, C]) Backend() Backend[F, C] { return s.backend }

// Cycle identifies the current solve cycle. It changes on Reset.
func (s *Solver[F, C]) Cycle() uuid.UUID { return s.cycle }

// Solves returns how many times the backend has been invoked.
func (s *Solver[F, C]) Solves() int { return s.solves }

func (s *Solver[F, C]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Solver (%s)\n", s.backend.Name())
	sb.WriteString("  ")
	sb.WriteString(strings.ReplaceAll(s.problem.String(), "\n", "\n  "))
	fmt.Fprintf(&sb, "\n  State: %s", s.outcome.State())
	if s.outcome.State() != NoSolution {
		fmt.Fprintf(&sb, "\n  %s", strings.ReplaceAll(s.outcome.String(), "\n", "\n  "))
	}
	return sb.String()
}
