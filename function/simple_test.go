package function

import (
	"strings"
	"testing"

	"github.com/curioloop/optcore/numdiff"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestNumericQuadratic(t *testing.T) {
	a := mat.NewSymDense(2, []float64{4, 1, 1, 3})
	q := NewNumericQuadratic(a, []float64{1, -2}, 5)
	x := []float64{2, -1}

	// ½(4·4 + 2·1·2·(-1) + 3·1) + (2 + 2) + 5
	if y := Eval(q, x); !scalar.EqualWithinAbs(y[0], 0.5*(16-4+3)+4+5, 1e-12) {
		t.Fatalf("unexpected value %v", y)
	}
	if g := Grad(q, x, 0); !floats.Equal(g, []float64{4*2 - 1 + 1, 2 - 3 - 2}) {
		t.Fatalf("unexpected gradient %v", g)
	}
	if !mat.Equal(Hess(q, x, 0), a) {
		t.Fatal("hessian must equal A")
	}

	fd := Approximate(q, numdiff.Settings{})
	if !mat.EqualApprox(Hess(fd, x, 0), a, 1e-3) {
		t.Fatal("finite difference hessian disagrees with A")
	}

	mustPanic(t, "construct", func() { NewNumericQuadratic(a, []float64{1}, 0) })
	if !strings.Contains(q.String(), "c = 5") {
		t.Fatalf("unexpected description %q", q.String())
	}
}

func TestConstantAndIdentity(t *testing.T) {
	c := NewConstant(3, []float64{1, 2})
	x := []float64{4, 5, 6}
	if !floats.Equal(Eval(c, x), []float64{1, 2}) {
		t.Fatal("unexpected constant value")
	}
	if !mat.Equal(Jac(c, x), mat.NewDense(2, 3, nil)) {
		t.Fatal("constant jacobian must be zero")
	}

	id := NewIdentity([]float64{1, -1})
	x = []float64{3, 3}
	if !floats.Equal(Eval(id, x), []float64{4, 2}) {
		t.Fatal("unexpected identity value")
	}
	if !floats.Equal(Grad(id, x, 1), []float64{0, 1}) {
		t.Fatal("unexpected identity gradient")
	}
	if err := CheckJacobian(id, x, numdiff.Settings{}, 0); err != nil {
		t.Fatal(err)
	}

	mustPanic(t, "empty constant", func() { NewConstant(1, nil) })
	mustPanic(t, "negative input", func() { NewConstant(-1, []float64{0}) })
}

func TestFuncPreconditions(t *testing.T) {
	f := New("sum", 3, 1, func(dst, x []float64) { dst[0] = floats.Sum(x) })
	if Eval(f, []float64{1, 2, 3})[0] != 6 {
		t.Fatal("unexpected sum")
	}
	mustPanic(t, "argument", func() { Eval(f, []float64{1, 2}) })
	mustPanic(t, "nil eval", func() { New("nil", 1, 1, nil) })
	mustPanic(t, "zero output", func() { New("none", 1, 0, func(dst, x []float64) {}) })
	if f.String() != "sum (ℝ^3 → ℝ^1)" {
		t.Fatalf("unexpected description %q", f.String())
	}
}

func TestParametrized(t *testing.T) {
	family := NewParametrized("offset line", 1, func(p []float64) *NumericLinear {
		return NewNumericLinear(mat.NewDense(1, 2, []float64{1, 1}), p)
	})

	param := []float64{3}
	f := family.Instantiate(param)
	param[0] = 100
	if y := Eval(f, []float64{1, 2}); y[0] != 6 {
		t.Fatalf("unexpected value %v", y)
	}
	if family.ParameterSize() != 1 {
		t.Fatal("unexpected parameter size")
	}
	mustPanic(t, "parameter", func() { family.Instantiate([]float64{1, 2}) })
}
