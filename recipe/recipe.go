// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recipe describes how the bayesnet library is configured, built
// and packaged: its version, options, requirements and the metadata
// exported to consumers.
package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/bayesnet/brecipe/internal/manifest"
	"github.com/bayesnet/brecipe/mod/module"
)

// Name is the package name.
const Name = "bayesnet"

// Recipe is the evaluated configuration of one build/package cycle.
type Recipe struct {
	Name     string
	Version  string
	Settings Settings
	Options  Options
	Requires []Requirement
	Project  *Project
}

// Load evaluates the recipe for proj.
//
// The version is read from the build manifest before anything else; if it
// cannot be found no recipe is returned.
func Load(proj *Project, s Settings, overrides map[string]bool) (*Recipe, error) {
	version, err := manifest.ReadVersion(proj.DirFS)
	if err != nil {
		return nil, err
	}
	opts, err := ResolveOptions(s, overrides)
	if err != nil {
		return nil, err
	}
	return &Recipe{
		Name:     Name,
		Version:  version,
		Settings: s,
		Options:  opts,
		Requires: DefaultRequirements(),
		Project:  proj,
	}, nil
}

// Ref returns the name/version reference of the package.
func (r *Recipe) Ref() module.Version {
	return module.Version{Path: r.Name, Version: r.Version}
}

// PackageID identifies one binary configuration of the package. It only
// depends on the settings and the resolved options.
func (r *Recipe) PackageID() string {
	h := sha256.New()
	h.Write([]byte(strings.Join(r.Settings.Pairs(), ";")))
	h.Write([]byte{'|'})
	h.Write([]byte(r.Options.String()))
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// ActiveRequirements returns the requirements that must be resolved for
// this configuration: test requirements are only included when testing is
// enabled.
func (r *Recipe) ActiveRequirements() []Requirement {
	if r.Options.Bool(OptEnableTesting) {
		return Filter(r.Requires, ScopeRuntime, ScopeBuild, ScopeTest)
	}
	return Filter(r.Requires, ScopeRuntime, ScopeBuild)
}

// CacheVariables returns the CMake cache variables derived from the
// options. CMAKE_POSITION_INDEPENDENT_CODE is only set when fPIC exists.
func (r *Recipe) CacheVariables() map[string]bool {
	vars := map[string]bool{
		"ENABLE_TESTING":    r.Options.Bool(OptEnableTesting),
		"CODE_COVERAGE":     r.Options.Bool(OptEnableCoverage),
		"BUILD_SHARED_LIBS": r.Options.Bool(OptShared),
	}
	if fpic, ok := r.Options.Get(OptFPIC); ok {
		vars["CMAKE_POSITION_INDEPENDENT_CODE"] = fpic
	}
	return vars
}
