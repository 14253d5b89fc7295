// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"io"
	"testing/fstest"

	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/recipe"
)

// funcRunner implements executor.Runner with a function.
type funcRunner struct {
	calls []executor.Command
	run   func(cmd executor.Command) (*executor.Result, error)
}

func (r *funcRunner) Run(ctx context.Context, cmd executor.Command) (*executor.Result, error) {
	r.calls = append(r.calls, cmd)
	return r.run(cmd)
}

// stdoutRunner answers every command with out.
func stdoutRunner(out string) *funcRunner {
	return &funcRunner{run: func(executor.Command) (*executor.Result, error) {
		return &executor.Result{Stdout: out}, nil
	}}
}

// failRunner writes out to the command's stderr and fails with err.
func failRunner(out string, err error) *funcRunner {
	return &funcRunner{run: func(cmd executor.Command) (*executor.Result, error) {
		if cmd.Stderr != nil {
			io.WriteString(cmd.Stderr, out)
		}
		return &executor.Result{ExitCode: 1}, err
	}}
}

func loadRecipe(s recipe.Settings, overrides map[string]bool) (*recipe.Recipe, error) {
	proj := &recipe.Project{
		Dir: "bayesnet",
		DirFS: fstest.MapFS{
			"CMakeLists.txt": {Data: []byte("project(BayesNet VERSION 1.1.2 LANGUAGES CXX)\n")},
		},
	}
	return recipe.Load(proj, s, overrides)
}
