// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"testing/fstest"

	"github.com/bayesnet/brecipe/recipe"
)

// mockSystem implements buildsys.BuildSystem and records the steps it runs.
type mockSystem struct {
	calls     []string
	defines   []string
	configure []string
	failOn    string
	err       error
	outputDir string
}

func (m *mockSystem) step(name string, args []string) error {
	m.calls = append(m.calls, name)
	if name == "configure" {
		m.configure = append(m.defines, args...)
	}
	if name == m.failOn {
		return m.err
	}
	return nil
}

func (m *mockSystem) Use(root string) {}
func (m *mockSystem) Source(dir string) {}
func (m *mockSystem) InstallDir(dir string) { m.outputDir = dir }
func (m *mockSystem) Env(key, val string) {}
func (m *mockSystem) Define(key, value string) {
	m.defines = append(m.defines, "-D"+key+":STRING="+value)
}
func (m *mockSystem) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	m.defines = append(m.defines, "-D"+key+":BOOL="+v)
}
func (m *mockSystem) BuildDir() string { return "build" }
func (m *mockSystem) OutputDir() string { return m.outputDir }

func (m *mockSystem) Configure(ctx context.Context, args ...string) error {
	return m.step("configure", args)
}

func (m *mockSystem) Build(ctx context.Context, args ...string) error {
	return m.step("build", args)
}

func (m *mockSystem) Test(ctx context.Context, args ...string) error {
	return m.step("test", args)
}

func (m *mockSystem) Install(ctx context.Context, args ...string) error {
	return m.step("install", args)
}

// newTestRecipe loads a recipe from an in-memory project.
func newTestRecipe(s recipe.Settings, overrides map[string]bool) (*recipe.Recipe, error) {
	proj := &recipe.Project{
		Dir: "bayesnet",
		DirFS: fstest.MapFS{
			"CMakeLists.txt": {Data: []byte("cmake_minimum_required(VERSION 3.27)\nproject(BayesNet VERSION 1.1.2 LANGUAGES CXX)\n")},
		},
	}
	return recipe.Load(proj, s, overrides)
}
