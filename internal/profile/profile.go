// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package profile loads build profiles: HCL files that preset settings and
// options.
//
// A profile looks like:
//
//	settings {
//	  os         = "Linux"
//	  arch       = "x86_64"
//	  build_type = "Debug"
//	}
//
//	options {
//	  enable_testing  = true
//	  enable_coverage = true
//	}
package profile

import (
	"fmt"
	"maps"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/bayesnet/brecipe/recipe"
)

// Profile is a decoded profile file. Absent blocks and attributes leave
// the corresponding values alone.
type Profile struct {
	Settings *SettingsBlock `hcl:"settings,block"`
	Options  *OptionsBlock  `hcl:"options,block"`
}

type SettingsBlock struct {
	OS        *string `hcl:"os"`
	Arch      *string `hcl:"arch"`
	Compiler  *string `hcl:"compiler"`
	BuildType *string `hcl:"build_type"`
}

type OptionsBlock struct {
	Shared         *bool `hcl:"shared"`
	FPIC           *bool `hcl:"fPIC"`
	EnableTesting  *bool `hcl:"enable_testing"`
	EnableCoverage *bool `hcl:"enable_coverage"`
}

// Load reads and decodes the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes profile source; filename is used in diagnostics.
func Parse(filename string, data []byte) (*Profile, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %w", filename, diags)
	}
	var p Profile
	if diags := gohcl.DecodeBody(file.Body, nil, &p); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %w", filename, diags)
	}
	return &p, nil
}

// Apply returns s and overrides with the profile's values laid on top.
// overrides is not modified.
func (p *Profile) Apply(s recipe.Settings, overrides map[string]bool) (recipe.Settings, map[string]bool) {
	out := maps.Clone(overrides)
	if out == nil {
		out = make(map[string]bool)
	}
	if b := p.Settings; b != nil {
		setString(&s.OS, b.OS)
		setString(&s.Arch, b.Arch)
		setString(&s.Compiler, b.Compiler)
		setString(&s.BuildType, b.BuildType)
	}
	if b := p.Options; b != nil {
		setOption(out, recipe.OptShared, b.Shared)
		setOption(out, recipe.OptFPIC, b.FPIC)
		setOption(out, recipe.OptEnableTesting, b.EnableTesting)
		setOption(out, recipe.OptEnableCoverage, b.EnableCoverage)
	}
	return s, out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setOption(m map[string]bool, name string, v *bool) {
	if v != nil {
		m[name] = *v
	}
}
