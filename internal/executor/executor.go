// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor runs the external programs the recipe delegates to
// (cmake, ctest, lcov, the dependency resolver and consumer binaries).
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/qiniu/x/log"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string            // working directory, empty for the current one
	Env  map[string]string // overrides applied on top of os.Environ()

	// Stdout and Stderr receive a copy of the process output. Stdout is
	// always captured into Result.Stdout as well.
	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the outcome of a finished process.
type Result struct {
	Stdout   string
	ExitCode int
}

// Runner runs external commands. Implementations must wait for the process
// to finish before returning.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ProcessError reports a process that could not be started or exited with
// a non-zero status.
type ProcessError struct {
	Command  string
	ExitCode int // -1 when the process did not start or was killed by a signal
	Err      error
}

func (e *ProcessError) Error() string {
	var exitErr *exec.ExitError
	if e.ExitCode > 0 && errors.As(e.Err, &exitErr) {
		return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// OS runs commands as child processes of the current process.
type OS struct{}

// Default is the runner used when none is injected.
var Default Runner = OS{}

// Run implements Runner.
func (OS) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), c.Env)
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if c.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&stdout, c.Stdout)
	}
	cmd.Stderr = c.Stderr

	log.Debugf("run: %s (dir %q)", c, c.Dir)
	err := cmd.Run()

	res := &Result{Stdout: stdout.String(), ExitCode: -1}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return res, &ProcessError{Command: c.String(), ExitCode: res.ExitCode, Err: err}
	}
	return res, nil
}

// MergeEnv applies override on top of base ("KEY=VALUE" entries) and returns
// the result sorted by key.
func MergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
