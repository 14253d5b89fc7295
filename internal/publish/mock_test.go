// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"testing/fstest"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/bayesnet/brecipe/recipe"
)

// installSystem implements buildsys.BuildSystem. Its install step writes a
// header and a library into dst.
type installSystem struct {
	dst       billy.Filesystem
	installed bool
}

func (s *installSystem) Use(root string) {}
func (s *installSystem) Source(dir string) {}
func (s *installSystem) InstallDir(dir string) {}
func (s *installSystem) Env(key, val string) {}
func (s *installSystem) Define(key, value string) {}
func (s *installSystem) DefineBool(key string, value bool) {}
func (s *installSystem) BuildDir() string { return "/build" }
func (s *installSystem) OutputDir() string { return "/pkg" }

func (s *installSystem) Configure(ctx context.Context, args ...string) error { return nil }
func (s *installSystem) Build(ctx context.Context, args ...string) error { return nil }
func (s *installSystem) Test(ctx context.Context, args ...string) error { return nil }

func (s *installSystem) Install(ctx context.Context, args ...string) error {
	s.installed = true
	if err := util.WriteFile(s.dst, "/include/bayesnet/BaseClassifier.h", []byte("#pragma once\n"), 0o644); err != nil {
		return err
	}
	return util.WriteFile(s.dst, "/lib/libbayesnet.a", []byte("!<arch>\n"), 0o644)
}

func loadRecipe(s recipe.Settings) (*recipe.Recipe, error) {
	proj := &recipe.Project{
		Dir: "bayesnet",
		DirFS: fstest.MapFS{
			"CMakeLists.txt": {Data: []byte("project(BayesNet VERSION 1.1.2 LANGUAGES CXX)\n")},
		},
	}
	return recipe.Load(proj, s, nil)
}
