package function

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/curioloop/optcore/numdiff"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func scenarioLinear() *NumericLinear {
	a := mat.NewDense(1, 5, []float64{1.2, 3.4, 5.6, 7.8, 0.0})
	return NewNumericLinear(a, []float64{1.0})
}

func TestNumericLinearScenario(t *testing.T) {
	f := scenarioLinear()
	x := []float64{0.1, 1.2, 2.3, 3.4, 4.5}

	y := Eval(f, x)
	switch {
	case len(y) != 1:
		t.Fatal("unexpected output size")
	case !scalar.EqualWithinRel(y[0], 44.6, 1e-10):
		t.Fatalf("f(x) = %v, expected 44.6", y[0])
	case !mat.Equal(Jac(f, x), f.A()):
		t.Fatal("jacobian must equal A")
	}

	if !strings.HasPrefix(f.String(), "Numeric linear function") {
		t.Fatalf("unexpected description %q", f.String())
	}
}

func TestNumericLinearRandom(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 20; trial++ {
		m, n := 1+rnd.IntN(5), 1+rnd.IntN(6)
		a := mat.NewDense(m, n, nil)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				a.Set(i, j, rnd.NormFloat64())
			}
		}
		b := make([]float64, m)
		x := make([]float64, n)
		for i := range b {
			b[i] = rnd.NormFloat64()
		}
		for i := range x {
			x[i] = 10 * rnd.NormFloat64()
		}

		f := NewNumericLinear(a, b)
		y := Eval(f, x)
		for i := 0; i < m; i++ {
			want := floats.Dot(mat.Row(nil, i, a), x) + b[i]
			if !scalar.EqualWithinAbsOrRel(y[i], want, 1e-12, 1e-10) {
				t.Fatalf("trial %d: output %d = %v, expected %v", trial, i, y[i], want)
			}
			if !floats.Equal(Grad(f, x, i), mat.Row(nil, i, a)) {
				t.Fatalf("trial %d: gradient %d is not row of A", trial, i)
			}
		}
		if !mat.Equal(Jac(f, x), a) {
			t.Fatalf("trial %d: jacobian must equal A", trial)
		}
		if err := CheckJacobian(f, x, numdiff.Settings{}, 0); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
	}
}

func TestNumericLinearExact(t *testing.T) {
	f := scenarioLinear()
	switch {
	case CapabilityOf(f) != SecondOrder:
		t.Fatal("numeric linear must be twice differentiable")
	case Approximated(f):
		t.Fatal("numeric linear derivatives must be exact")
	case Differentiate(f, numdiff.Settings{}) != Differentiable(f):
		t.Fatal("differentiate must keep the exact override")
	}

	h := Hess(f, []float64{1, 2, 3, 4, 5}, 0)
	if !mat.Equal(h, mat.NewDense(5, 5, nil)) {
		t.Fatal("hessian of a linear function must be zero")
	}
}

func TestNumericLinearDefaultDerivatives(t *testing.T) {
	f := scenarioLinear()
	fd := Approximate(f, numdiff.Settings{Method: numdiff.Central, AbsStep: 1e-7})

	if !Approximated(fd) {
		t.Fatal("finite difference wrapper must report approximation")
	}

	for _, x := range [][]float64{
		{0.1, 1.2, 2.3, 3.4, 4.5},
		{0, 0, 0, 0, 0},
		{-3, 7, 1e-3, 12, -0.5},
	} {
		if !mat.EqualApprox(Jac(fd, x), f.A(), 1e-6) {
			t.Fatalf("default jacobian disagrees with A at %v", x)
		}
		if !floats.EqualApprox(Grad(fd, x, 0), mat.Row(nil, 0, f.A()), 1e-6) {
			t.Fatalf("default gradient disagrees with A at %v", x)
		}
	}
}

func TestNumericLinearImmutable(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := []float64{5, 6}
	f := NewNumericLinear(a, b)

	a.Set(0, 0, 100)
	b[0] = 100
	f.A().Set(1, 1, 100)
	f.B()[1] = 100

	y := Eval(f, []float64{1, 1})
	if !floats.Equal(y, []float64{8, 13}) {
		t.Fatalf("function changed after construction: %v", y)
	}
}

func TestNumericLinearPreconditions(t *testing.T) {
	f := scenarioLinear()
	for name, fn := range map[string]func(){
		"construct": func() { NewNumericLinear(mat.NewDense(2, 3, nil), []float64{1}) },
		"evaluate":  func() { Eval(f, []float64{1, 2}) },
		"result":    func() { f.Evaluate(make([]float64, 2), make([]float64, 5)) },
		"gradient":  func() { Grad(f, make([]float64, 5), 1) },
		"jacobian":  func() { f.Jacobian(mat.NewDense(5, 1, nil), make([]float64, 5)) },
		"hessian":   func() { f.Hessian(mat.NewDense(4, 4, nil), make([]float64, 5), 0) },
	} {
		mustPanic(t, name, fn)
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func relativeEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b)/math.Max(math.Abs(a), math.Abs(b)) <= tol
}
