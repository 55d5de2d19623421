// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/curioloop/optcore/function"
	"github.com/curioloop/optcore/problem"
)

// Dummy is a backend that never finds a solution.
// It is useful to exercise callers of the Failed outcome.
type Dummy[F, C function.Function] struct{}

func (Dummy[F, C]) Name() string { return "dummy" }

func (Dummy[F, C]) Solve(*problem.Problem[F, C]) Outcome {
	return Failure("the dummy solver always fails", nil)
}
