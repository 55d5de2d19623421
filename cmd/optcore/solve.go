// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/curioloop/optcore/backend/gonumopt"
	"github.com/curioloop/optcore/backend/mayflyopt"
	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/numdiff"
	"github.com/curioloop/optcore/problem"
	"github.com/curioloop/optcore/solver"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"
)

var (
	solveBackend string
	solveDim     int
	solveBox     float64
	solveIters   int
	solvePop     int
	solveSeed    int64
	solveCycles  int
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Minimize the extended Rosenbrock function",
	Long: `Builds the extended Rosenbrock problem and minimizes it with the selected
backend. The mayfly backend searches inside the box [-box, box] on every
argument, the gonum backends require an unbounded problem (box 0).`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveBackend, "backend", "bfgs", "Backend: bfgs, lbfgs, cg, newton, mayfly, dummy")
	solveCmd.Flags().IntVar(&solveDim, "dim", 2, "Number of arguments")
	solveCmd.Flags().Float64Var(&solveBox, "box", 0, "Half width of the argument box (0 leaves arguments unbounded)")
	solveCmd.Flags().IntVar(&solveIters, "iters", 200, "Max iterations")
	solveCmd.Flags().IntVar(&solvePop, "pop", 30, "Population size (mayfly)")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 42, "Random seed (mayfly)")
	solveCmd.Flags().IntVar(&solveCycles, "cycles", 1, "Number of solve cycles, resetting the solver in between")
	rootCmd.AddCommand(solveCmd)
}

type objective = function.TwiceDifferentiable

func newBackend(name string) (solver.Backend[objective, function.Function], error) {
	settings := &optimize.Settings{MajorIterations: solveIters}
	switch name {
	case "bfgs":
		return gonumopt.New[objective, function.Function](&optimize.BFGS{}, settings), nil
	case "lbfgs":
		return gonumopt.New[objective, function.Function](&optimize.LBFGS{}, settings), nil
	case "cg":
		return gonumopt.New[objective, function.Function](&optimize.CG{}, settings), nil
	case "newton":
		return gonumopt.NewSecondOrder[objective, function.Function](&optimize.Newton{}, settings), nil
	case "mayfly":
		cfg := mayflyopt.DefaultConfig()
		cfg.MaxIterations, cfg.Population, cfg.Seed = solveIters, solvePop, solveSeed
		b, err := mayflyopt.New[objective, function.Function](cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "dummy":
		return solver.Dummy[objective, function.Function]{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func rosenbrockProblem(n int, box float64) *problem.Problem[objective, function.Function] {
	if n < 2 {
		panic(fmt.Sprintf("rosenbrock needs at least 2 arguments, got %d", n))
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	b := problem.NewBuilder[objective, function.Function](function.Twice(rosenbrock{n: n}, numdiff.Settings{})).
		StartingPoint(rosenbrockStart(n)).
		ArgumentNames(names...)
	if box > 0 {
		b.ArgumentBounds(slices.Repeat([]problem.Interval{problem.Bounded(-box, box)}, n)...)
	}
	return b.Build()
}

func runSolve(cmd *cobra.Command, args []string) error {
	if solveDim < 2 {
		return fmt.Errorf("dim must be at least 2, got %d", solveDim)
	}
	backend, err := newBackend(solveBackend)
	if err != nil {
		return err
	}

	s := solver.New(rosenbrockProblem(solveDim, solveBox), backend, logger)
	out := cmd.OutOrStdout()
	rep := &report{w: out}
	for c := 0; c < solveCycles; c++ {
		if c > 0 {
			s.Reset()
		}
		s.Minimum().Visit(rep)
	}
	fmt.Fprintln(out, s)
	if rep.err != nil {
		return rep.err
	}
	return nil
}

// report prints outcomes and remembers the last failure.
type report struct {
	w   io.Writer
	err *solver.Error
}

func (r *report) NoSolution() { fmt.Fprintln(r.w, "no solution") }

func (r *report) Solved(res solver.Result) {
	fmt.Fprintf(r.w, "minimum %g at %v\n", res.Value[0], res.X)
}

func (r *report) SolvedWithWarnings(res solver.Result, warnings []string) {
	r.Solved(res)
	for _, w := range warnings {
		fmt.Fprintf(r.w, "warning: %s\n", w)
	}
}

func (r *report) Failed(err *solver.Error) { r.err = err }
