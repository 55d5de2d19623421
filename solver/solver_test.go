package solver

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/problem"
	"gonum.org/v1/gonum/mat"
)

// counting evaluates the objective at the starting point and counts invocations.
type counting struct {
	solves, resets int
	fail           bool
}

func (c *counting) Name() string { return "counting" }

func (c *counting) Solve(p *problem.Problem[function.Function, function.Function]) Outcome {
	c.solves++
	if c.fail {
		return Failuref("gave up after %d attempts", c.solves)
	}
	x, _ := p.StartingPoint()
	return Success(Result{
		X:           x,
		Value:       function.Eval(p.Objective(), x),
		Constraints: p.EvaluateConstraints(x),
	})
}

func (c *counting) Reset() { c.resets++ }

type lazy struct{}

func (lazy) Name() string { return "lazy" }

func (lazy) Solve(*problem.Problem[function.Function, function.Function]) Outcome {
	return Outcome{}
}

func scenario() *problem.Problem[function.Function, function.Function] {
	obj := function.NewNumericLinear(mat.NewDense(1, 5, []float64{1.2, 3.4, 5.6, 7.8, 0}), []float64{1})
	return problem.NewBuilder[function.Function, function.Function](obj).
		Constraint(function.NewIdentity(make([]float64, 5)), problem.LowerBounded(0)).
		StartingPoint([]float64{0.1, 1.2, 2.3, 3.4, 4.5}).
		Build()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestMinimumMemoized(t *testing.T) {
	backend := new(counting)
	s := New(scenario(), Backend[function.Function, function.Function](backend), quietLogger())

	if s.Outcome().State() != NoSolution {
		t.Fatal("new solver must be unsolved")
	}

	first := s.Minimum()
	second := s.Minimum()
	switch {
	case backend.solves != 1 || s.Solves() != 1:
		t.Fatalf("solve invoked %d times, expected once", backend.solves)
	case first.State() != Solved || second.State() != Solved:
		t.Fatal("unexpected state")
	}

	r, _ := second.Result()
	if len(r.Value) != 1 || r.Value[0] < 44.6-1e-9 || r.Value[0] > 44.6+1e-9 {
		t.Fatalf("unexpected objective value %v", r.Value)
	}
	if len(r.Constraints) != 5 || r.Constraints[4] != 4.5 {
		t.Fatalf("constraint values must follow problem order: %v", r.Constraints)
	}
}

func TestResetSolvesAgain(t *testing.T) {
	backend := new(counting)
	s := New(scenario(), Backend[function.Function, function.Function](backend), quietLogger())

	s.Minimum()
	cycle := s.Cycle()
	s.Reset()
	switch {
	case s.Outcome().State() != NoSolution:
		t.Fatal("reset must discard the outcome")
	case backend.resets != 1:
		t.Fatal("reset must reach the backend")
	case s.Cycle() == cycle:
		t.Fatal("reset must start a new cycle")
	}

	if o := s.Minimum(); o.State() != Solved || backend.solves != 2 {
		t.Fatalf("expected a fresh solve, got %d solves", backend.solves)
	}
	s.Minimum()
	if backend.solves != 2 {
		t.Fatal("second cycle must also be memoized")
	}
}

func TestFailureIsCached(t *testing.T) {
	backend := &counting{fail: true}
	s := New(scenario(), Backend[function.Function, function.Function](backend), quietLogger())

	for i := 0; i < 3; i++ {
		o := s.Minimum()
		if o.State() != Failed || o.Err().Error() != "gave up after 1 attempts" {
			t.Fatalf("unexpected outcome %v", o)
		}
	}
	if backend.solves != 1 {
		t.Fatal("failed outcome must be memoized")
	}

	s.Reset()
	if o := s.Minimum(); o.Err().Error() != "gave up after 2 attempts" {
		t.Fatalf("unexpected outcome after reset %v", o)
	}
}

type tamper struct{ *recorder }

func (tamper) Failed(err *Error) {
	err.Reason = "changed"
	err.Last.X[0] = 100
}

type stubborn struct{}

func (stubborn) Name() string { return "stubborn" }

func (stubborn) Solve(p *problem.Problem[function.Function, function.Function]) Outcome {
	x, _ := p.StartingPoint()
	return Failure("infeasible", &Result{X: x})
}

func TestCachedFailureIsImmutable(t *testing.T) {
	s := New(scenario(), Backend[function.Function, function.Function](stubborn{}), quietLogger())

	var se *Error
	if !errors.As(s.Minimum().Err(), &se) {
		t.Fatal("expected solver error")
	}
	se.Reason = "changed"
	se.Last.X[0] = 100
	s.Minimum().Visit(tamper{new(recorder)})

	if !errors.As(s.Minimum().Err(), &se) {
		t.Fatal("expected solver error")
	}
	switch {
	case se.Reason != "infeasible":
		t.Fatalf("cached reason changed to %q", se.Reason)
	case se.Last.X[0] != 0.1:
		t.Fatalf("cached last point changed to %v", se.Last.X)
	}
}

func TestDummy(t *testing.T) {
	s := New(scenario(), Backend[function.Function, function.Function](Dummy[function.Function, function.Function]{}), quietLogger())
	o := s.Minimum()
	if o.State() != Failed || !strings.Contains(o.String(), "always fails") {
		t.Fatalf("unexpected dummy outcome %v", o)
	}
	if !strings.Contains(s.String(), "Solver (dummy)") || !strings.Contains(s.String(), "State: failed") {
		t.Fatalf("unexpected description:\n%s", s)
	}
}

func TestBackendContract(t *testing.T) {
	s := New(scenario(), Backend[function.Function, function.Function](lazy{}), quietLogger())
	defer func() {
		if recover() == nil {
			t.Fatal("backend returning no solution must panic")
		}
	}()
	s.Minimum()
}

func TestNewPreconditions(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("nil backend must panic")
		}
	}()
	New[function.Function, function.Function](scenario(), nil, nil)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(scenario(), Backend[function.Function, function.Function](&counting{fail: true}), logger)
	s.Minimum()

	out := buf.String()
	if !strings.Contains(out, `"msg":"Solve failed"`) || !strings.Contains(out, s.Cycle().String()) {
		t.Fatalf("unexpected log output %s", out)
	}
}
