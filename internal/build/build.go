// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build drives one configure, build, test and install cycle of the
// recipe through an external build system.
package build

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/qiniu/x/log"

	"github.com/bayesnet/brecipe/pkgs/buildsys"
	"github.com/bayesnet/brecipe/recipe"
)

// State is the position of a Pipeline in its lifecycle.
type State int

const (
	Unconfigured State = iota
	Configured
	Built
	Tested
	TestSkipped
	Installed
)

var stateNames = [...]string{
	Unconfigured: "unconfigured",
	Configured:   "configured",
	Built:        "built",
	Tested:       "tested",
	TestSkipped:  "test-skipped",
	Installed:    "installed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Step names a pipeline transition.
type Step string

const (
	StepConfigure Step = "configure"
	StepBuild     Step = "build"
	StepTest      Step = "test"
	StepInstall   Step = "install"
)

var (
	// ErrInvalidState is returned when a step is requested out of order.
	ErrInvalidState = errors.New("invalid pipeline state")

	// ErrAborted is returned for any step requested after a failed one.
	ErrAborted = errors.New("pipeline aborted")
)

// StepError reports a step whose external tool failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Pipeline runs the build steps of one recipe in order. Transitions are
// one-way: a failed step leaves the pipeline in the state it had reached and
// every later step is refused.
type Pipeline struct {
	recipe *recipe.Recipe
	sys    buildsys.BuildSystem
	state  State
	failed *StepError
}

// NewPipeline returns an unconfigured pipeline for r driven by sys.
func NewPipeline(r *recipe.Recipe, sys buildsys.BuildSystem) *Pipeline {
	return &Pipeline{recipe: r, sys: sys}
}

// State returns the current state.
func (p *Pipeline) State() State {
	return p.state
}

// Failed returns the error of the step that aborted the pipeline, if any.
func (p *Pipeline) Failed() error {
	if p.failed == nil {
		return nil
	}
	return p.failed
}

// System returns the build system the pipeline delegates to.
func (p *Pipeline) System() buildsys.BuildSystem {
	return p.sys
}

// Configure defines the recipe's cache variables on the build system and
// runs its configure step.
func (p *Pipeline) Configure(ctx context.Context) error {
	if err := p.expect(StepConfigure, Unconfigured); err != nil {
		return err
	}
	vars := p.recipe.CacheVariables()
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		p.sys.DefineBool(k, vars[k])
	}
	log.Infof("configuring %s", p.recipe.Ref())
	if err := p.sys.Configure(ctx); err != nil {
		return p.fail(StepConfigure, err)
	}
	p.state = Configured
	return nil
}

// Build compiles the configured tree.
func (p *Pipeline) Build(ctx context.Context) error {
	if err := p.expect(StepBuild, Configured); err != nil {
		return err
	}
	log.Infof("building %s", p.recipe.Ref())
	if err := p.sys.Build(ctx); err != nil {
		return p.fail(StepBuild, err)
	}
	p.state = Built
	return nil
}

// Test runs the test suite when enable_testing is on. Otherwise the step is
// skipped and the test runner is never invoked.
func (p *Pipeline) Test(ctx context.Context) error {
	if err := p.expect(StepTest, Built); err != nil {
		return err
	}
	if !p.recipe.Options.Bool(recipe.OptEnableTesting) {
		log.Warnf("tests of %s skipped: %s is off", p.recipe.Ref(), recipe.OptEnableTesting)
		p.state = TestSkipped
		return nil
	}
	log.Infof("testing %s", p.recipe.Ref())
	if err := p.sys.Test(ctx); err != nil {
		return p.fail(StepTest, err)
	}
	p.state = Tested
	return nil
}

// Run performs configure, build and the conditional test step.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Configure(ctx); err != nil {
		return err
	}
	if err := p.Build(ctx); err != nil {
		return err
	}
	return p.Test(ctx)
}

// Install runs the build system's install step.
func (p *Pipeline) Install(ctx context.Context) error {
	if err := p.expect(StepInstall, Tested, TestSkipped); err != nil {
		return err
	}
	log.Infof("installing %s into %s", p.recipe.Ref(), p.sys.OutputDir())
	if err := p.sys.Install(ctx); err != nil {
		return p.fail(StepInstall, err)
	}
	p.state = Installed
	return nil
}

func (p *Pipeline) expect(step Step, states ...State) error {
	if p.failed != nil {
		return fmt.Errorf("%w: cannot %s after %s failed", ErrAborted, step, p.failed.Step)
	}
	for _, s := range states {
		if p.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s in state %s", ErrInvalidState, step, p.state)
}

func (p *Pipeline) fail(step Step, err error) error {
	p.failed = &StepError{Step: step, Err: err}
	return p.failed
}
