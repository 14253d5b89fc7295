// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bayesnet/brecipe/mod/module"
	xsemver "golang.org/x/mod/semver"
)

// Scope tells when a requirement is needed.
type Scope int

const (
	ScopeRuntime Scope = iota // linked into the package and advertised to consumers
	ScopeBuild                // build tool, never linked
	ScopeTest                 // only needed to build and run the test suite
)

func (s Scope) String() string {
	switch s {
	case ScopeRuntime:
		return "runtime"
	case ScopeBuild:
		return "build"
	case ScopeTest:
		return "test"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Requirement is a direct dependency of the recipe.
type Requirement struct {
	Ref   module.Version `json:"ref"`
	Scope Scope          `json:"scope"`
}

func (r Requirement) String() string {
	return r.Ref.String()
}

// IsPinned reports whether the requirement names one exact
// MAJOR.MINOR.PATCH version.
func (r Requirement) IsPinned() bool {
	if r.Ref.IsRange() {
		return false
	}
	v := "v" + r.Ref.Version
	return xsemver.IsValid(v) && xsemver.Canonical(v) == v
}

// Constraint returns the version constraint of the requirement. A pin is
// returned as an exact "=" constraint.
func (r Requirement) Constraint() (*semver.Constraints, error) {
	expr := "=" + r.Ref.Version
	if r.Ref.IsRange() {
		expr = strings.TrimSuffix(strings.TrimPrefix(r.Ref.Version, "["), "]")
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint for %s: %w", r, err)
	}
	return c, nil
}

func require(ref string, scope Scope) Requirement {
	v, err := module.Parse(ref)
	if err != nil {
		panic(err)
	}
	return Requirement{Ref: v, Scope: scope}
}

// DefaultRequirements returns the direct dependencies of bayesnet in
// declaration order.
func DefaultRequirements() []Requirement {
	return []Requirement{
		require("libtorch/2.7.1", ScopeRuntime),
		require("nlohmann_json/3.11.3", ScopeRuntime),
		require("folding/1.1.2", ScopeRuntime),
		require("fimdlp/2.1.1", ScopeRuntime),
		require("cmake/[>=3.27]", ScopeBuild),
		require("arff-files/1.2.1", ScopeTest),
		require("catch2/3.8.1", ScopeTest),
	}
}

// Filter returns the requirements whose scope is one of scopes, keeping
// their order.
func Filter(reqs []Requirement, scopes ...Scope) []Requirement {
	var out []Requirement
	for _, r := range reqs {
		for _, s := range scopes {
			if r.Scope == s {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// RuntimeClosure returns the requirements advertised to consumers of the
// package. Build and test requirements never leak into it.
func RuntimeClosure(reqs []Requirement) []Requirement {
	return Filter(reqs, ScopeRuntime)
}

// Validate checks the pinning rules: runtime and test requirements must be
// exact pins, build tools may use a range.
func Validate(reqs []Requirement) error {
	var errs []error
	for _, r := range reqs {
		switch r.Scope {
		case ScopeBuild:
			if _, err := r.Constraint(); err != nil {
				errs = append(errs, err)
			}
		default:
			if !r.IsPinned() {
				errs = append(errs, fmt.Errorf("%s requirement %s is not pinned to an exact version", r.Scope, r))
			}
		}
	}
	return errors.Join(errs...)
}
