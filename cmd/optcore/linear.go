// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/numdiff"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var linearCmd = &cobra.Command{
	Use:   "linear",
	Short: "Evaluate the sample numeric linear function",
	Long: `Prints the numeric linear function f(x) = Ax + b with its value and
Jacobian at a fixed point, and compares the Jacobian with finite differences.`,
	RunE: runLinear,
}

func init() {
	rootCmd.AddCommand(linearCmd)
}

func runLinear(cmd *cobra.Command, args []string) error {
	f, x := linearScenario()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, f)
	fmt.Fprintf(out, "x = %v\n", x)
	fmt.Fprintf(out, "f(x) = %v\n", function.Eval(f, x))
	fmt.Fprintf(out, "J(x) = %v\n", mat.Formatted(function.Jac(f, x), mat.Prefix("       "), mat.Squeeze()))

	if err := function.CheckJacobian(f, x, numdiff.Settings{}, 0); err != nil {
		return err
	}
	fmt.Fprintln(out, "finite differences agree")
	return nil
}
