// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"

	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/numdiff"
	"github.com/spf13/cobra"
)

var (
	checkPoint   []float64
	checkForward bool
	checkStep    float64
	checkTol     float64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the Rosenbrock gradient with finite differences",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Float64SliceVar(&checkPoint, "point", []float64{-1.2, 1}, "Point where the gradient is checked")
	checkCmd.Flags().BoolVar(&checkForward, "forward", false, "Use forward instead of central differences")
	checkCmd.Flags().Float64Var(&checkStep, "step", 0, "Absolute step (0 selects the automatic step)")
	checkCmd.Flags().Float64Var(&checkTol, "tol", function.DefaultTolerance, "Accepted absolute difference")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	f := rosenbrock{n: len(checkPoint)}
	s := numdiff.Settings{AbsStep: checkStep}
	if checkForward {
		s.Method = numdiff.Forward
	}
	slog.Debug("Checking gradient", "point", checkPoint, "method", s.Method.String(), "step", checkStep)

	if err := function.CheckGradient(f, checkPoint, 0, s, checkTol); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: gradient %v agrees with %s differences\n",
		f, function.Grad(f, checkPoint, 0), s.Method)
	return nil
}
