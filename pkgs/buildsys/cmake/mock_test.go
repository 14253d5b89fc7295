// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmake

import (
	"context"

	"github.com/bayesnet/brecipe/internal/executor"
)

// recordRunner implements executor.Runner and records every command.
type recordRunner struct {
	calls  []executor.Command
	stdout string
	err    error
}

func (r *recordRunner) Run(ctx context.Context, cmd executor.Command) (*executor.Result, error) {
	r.calls = append(r.calls, cmd)
	if r.err != nil {
		return &executor.Result{ExitCode: 1}, r.err
	}
	return &executor.Result{Stdout: r.stdout}, nil
}
