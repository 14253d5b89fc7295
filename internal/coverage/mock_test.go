// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coverage

import (
	"context"

	"github.com/bayesnet/brecipe/internal/executor"
)

// fixedSource implements Source with a fixed answer.
type fixedSource struct {
	reading Reading
	err     error
}

func (s fixedSource) Percentage(ctx context.Context) (Reading, error) {
	return s.reading, s.err
}

// summaryRunner implements executor.Runner and prints out.
type summaryRunner struct {
	calls []executor.Command
	out   string
}

func (r *summaryRunner) Run(ctx context.Context, cmd executor.Command) (*executor.Result, error) {
	r.calls = append(r.calls, cmd)
	return &executor.Result{Stdout: r.out}, nil
}
