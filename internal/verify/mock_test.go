// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verify

import (
	"context"

	"github.com/bayesnet/brecipe/internal/executor"
)

// consumerSystem implements buildsys.BuildSystem for the consumer build.
type consumerSystem struct {
	source    string
	used      []string
	defines   map[string]string
	env       map[string]string
	calls     []string
	configure []string
	failOn    string
	err       error
}

func (s *consumerSystem) Use(root string)       { s.used = append(s.used, root) }
func (s *consumerSystem) Source(dir string)     { s.source = dir }
func (s *consumerSystem) InstallDir(dir string) {}
func (s *consumerSystem) BuildDir() string      { return "/tp/build" }
func (s *consumerSystem) OutputDir() string     { return "/tp/build" }

func (s *consumerSystem) Env(key, val string) {
	if s.env == nil {
		s.env = map[string]string{}
	}
	s.env[key] = val
}

func (s *consumerSystem) Define(key, value string) {
	if s.defines == nil {
		s.defines = map[string]string{}
	}
	s.defines[key] = value
}

func (s *consumerSystem) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	s.Define(key, v)
}

func (s *consumerSystem) step(name string) error {
	s.calls = append(s.calls, name)
	if name == s.failOn {
		return s.err
	}
	return nil
}

func (s *consumerSystem) Configure(ctx context.Context, args ...string) error {
	s.configure = args
	return s.step("configure")
}

func (s *consumerSystem) Build(ctx context.Context, args ...string) error {
	return s.step("build")
}

func (s *consumerSystem) Test(ctx context.Context, args ...string) error {
	return s.step("test")
}

func (s *consumerSystem) Install(ctx context.Context, args ...string) error {
	return s.step("install")
}

// binRunner implements executor.Runner for the consumer binary.
type binRunner struct {
	calls []executor.Command
	err   error
}

func (r *binRunner) Run(ctx context.Context, cmd executor.Command) (*executor.Result, error) {
	r.calls = append(r.calls, cmd)
	if r.err != nil {
		return &executor.Result{ExitCode: 1}, r.err
	}
	return &executor.Result{}, nil
}
