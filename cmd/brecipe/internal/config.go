// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bayesnet/brecipe/internal/build"
	"github.com/bayesnet/brecipe/internal/env"
	"github.com/bayesnet/brecipe/internal/profile"
	"github.com/bayesnet/brecipe/pkgs/buildsys/cmake"
	"github.com/bayesnet/brecipe/recipe"
)

// configure returns the settings and option overrides: host defaults, then
// the profile, then -s and -o flags.
func configure() (recipe.Settings, map[string]bool, error) {
	s := recipe.HostSettings()
	overrides := map[string]bool{}
	if profilePath != "" {
		p, err := profile.Load(profilePath)
		if err != nil {
			return s, nil, err
		}
		s, overrides = p.Apply(s, overrides)
	}
	s, err := applySettings(s, settingFlags)
	if err != nil {
		return s, nil, err
	}
	if err := applyOptions(overrides, optionFlags); err != nil {
		return s, nil, err
	}
	return s, overrides, nil
}

func applySettings(s recipe.Settings, pairs []string) (recipe.Settings, error) {
	for _, pair := range pairs {
		key, value, err := recipe.ParseSetting(pair)
		if err != nil {
			return s, err
		}
		if s, err = s.With(key, value); err != nil {
			return s, err
		}
	}
	return s, nil
}

func applyOptions(overrides map[string]bool, pairs []string) error {
	for _, pair := range pairs {
		name, value, err := recipe.ParseOption(pair)
		if err != nil {
			return err
		}
		overrides[name] = value
	}
	return nil
}

// loadRecipe evaluates the recipe of the source directory.
func loadRecipe() (*recipe.Recipe, error) {
	dir, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source dir: %w", err)
	}
	s, overrides, err := configure()
	if err != nil {
		return nil, err
	}
	r, err := recipe.Load(recipe.NewProject(dir), s, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return r, nil
}

func openWorkspace() (*build.Workspace, error) {
	dir := workspaceDir
	if dir == "" {
		var err error
		if dir, err = env.WorkDir(); err != nil {
			return nil, fmt.Errorf("failed to get workspace dir: %w", err)
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return build.NewWorkspace(dir), nil
}

// newCMake returns a CMake driver that stays quiet unless -v is given.
func newCMake(src, buildDir, installDir, buildType string) *cmake.CMake {
	c := cmake.New(src, buildDir, installDir).BuildType(buildType)
	if !verbose {
		c.SetStdout(io.Discard)
	}
	c.SetStderr(os.Stderr)
	return c
}
