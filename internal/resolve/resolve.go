// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve hands the declared requirements to an external
// dependency resolver. Versions are never chosen or substituted here.
package resolve

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/recipe"
)

// ToolchainFile is the name of the toolchain file generated by the resolver.
const ToolchainFile = "conan_toolchain.cmake"

// Result describes what the resolver generated.
type Result struct {
	// Toolchain is the CMake toolchain file that makes the resolved
	// dependencies visible to the build.
	Toolchain string
}

// Resolver makes the requirements of a recipe available in dir.
type Resolver interface {
	Resolve(ctx context.Context, r *recipe.Recipe, dir string) (*Result, error)
}

// ResolutionError reports requirements the resolver could not satisfy. Output
// holds the resolver's own output, unmodified.
type ResolutionError struct {
	Ref    string
	Output string
	Err    error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("failed to resolve dependencies")
	if e.Ref != "" {
		b.WriteString(" (" + e.Ref + ")")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Output != "" {
		b.WriteString("\n")
		b.WriteString(e.Output)
	}
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Command runs an external resolver program, "conan install" by default.
type Command struct {
	Program string
	Args    []string // leading arguments, before the generated ones
	Runner  executor.Runner
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommand returns a Command that runs "conan install".
func NewCommand() *Command {
	return &Command{
		Program: "conan",
		Args:    []string{"install"},
		Runner:  executor.Default,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Resolve runs the resolver for the active requirements of r and returns
// the generated toolchain file inside dir.
func (c *Command) Resolve(ctx context.Context, r *recipe.Recipe, dir string) (*Result, error) {
	args := c.Arguments(r, dir)
	log.Infof("resolving %d requirements of %s", len(r.ActiveRequirements()), r.Ref())

	var stderr bytes.Buffer
	errOut := io.Writer(&stderr)
	if c.Stderr != nil {
		errOut = io.MultiWriter(&stderr, c.Stderr)
	}
	res, err := c.Runner.Run(ctx, executor.Command{
		Name:   c.Program,
		Args:   args,
		Stdout: c.Stdout,
		Stderr: errOut,
	})
	if err != nil {
		var out string
		if res != nil {
			out = res.Stdout
		}
		return nil, &ResolutionError{Output: out + stderr.String(), Err: err}
	}
	return &Result{Toolchain: filepath.Join(dir, ToolchainFile)}, nil
}

// Arguments returns the command-line arguments Resolve passes to the
// resolver program.
func (c *Command) Arguments(r *recipe.Recipe, dir string) []string {
	args := append([]string(nil), c.Args...)
	for _, req := range r.ActiveRequirements() {
		switch req.Scope {
		case recipe.ScopeBuild:
			args = append(args, "--tool-requires="+req.String())
		default:
			args = append(args, "--requires="+req.String())
		}
	}
	for _, kv := range r.Settings.Pairs() {
		args = append(args, "-s", kv)
	}
	return append(args,
		"-g", "CMakeDeps",
		"-g", "CMakeToolchain",
		"--output-folder="+dir,
		"--build=missing",
	)
}

