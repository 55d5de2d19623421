package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil || out != "optcore version "+version+"\n" {
		t.Fatalf("unexpected output %q (%v)", out, err)
	}
}

func TestLinear(t *testing.T) {
	out, err := execute(t, "linear")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Numeric linear function", "f(x) = [44.", "J(x) =", "finite differences agree"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "--point", "-1.2,1,0.5", "--forward", "--step", "1e-7", "--tol", "1e-3")
	if err != nil || !strings.Contains(out, "agrees with forward differences") {
		t.Fatalf("unexpected output %q (%v)", out, err)
	}
}

func TestSolve(t *testing.T) {
	for _, backend := range []string{"bfgs", "lbfgs", "newton"} {
		out, err := execute(t, "solve", "--backend", backend, "--box", "0", "--cycles", "2", "--iters", "200")
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		if strings.Count(out, "minimum") != 2 || !strings.Contains(out, "State: solved") {
			t.Fatalf("%s: unexpected output\n%s", backend, out)
		}
	}
}

func TestSolveFailures(t *testing.T) {
	for args, want := range map[string]string{
		"--backend mayfly --box 0":  "finite argument bounds",
		"--backend bfgs --box 2":    "does not support argument bounds",
		"--backend dummy --box 0":   "always fails",
		"--backend simplex --box 0": `unknown backend "simplex"`,
	} {
		out, err := execute(t, append([]string{"solve", "--cycles", "1"}, strings.Fields(args)...)...)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%s: unexpected result %q (%v)", args, out, err)
		}
	}
}

func TestSolveMayfly(t *testing.T) {
	out, err := execute(t, "solve", "--backend", "mayfly", "--box", "2", "--cycles", "1", "--iters", "300", "--pop", "40")
	if err != nil || !strings.Contains(out, "Solver (mayfly)") {
		t.Fatalf("unexpected result %q (%v)", out, err)
	}
}
