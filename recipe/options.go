// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Option names.
const (
	OptShared         = "shared"
	OptFPIC           = "fPIC"
	OptEnableTesting  = "enable_testing"
	OptEnableCoverage = "enable_coverage"
)

// DefaultOptions returns the declared options with their default values.
func DefaultOptions() map[string]bool {
	return map[string]bool{
		OptShared:         false,
		OptFPIC:           true,
		OptEnableTesting:  false,
		OptEnableCoverage: false,
	}
}

// Options is a resolved, read-only option set.
type Options struct {
	values map[string]bool
}

// ResolveOptions builds the final option set for the given settings.
//
// Overrides are applied on top of the defaults. fPIC is then removed when
// the target OS is Windows or when shared is true; an override for a removed
// option is dropped with it.
func ResolveOptions(s Settings, overrides map[string]bool) (Options, error) {
	declared := DefaultOptions()
	for name := range overrides {
		if _, ok := declared[name]; !ok {
			return Options{}, fmt.Errorf("unknown option %q", name)
		}
	}
	value := func(name string) bool {
		if v, ok := overrides[name]; ok {
			return v
		}
		return declared[name]
	}

	values := make(map[string]bool, len(declared))
	for name := range declared {
		if name == OptFPIC && !hasFPIC(s, value(OptShared)) {
			continue
		}
		values[name] = value(name)
	}
	return Options{values: values}, nil
}

// hasFPIC reports whether fPIC is meaningful: it does not exist on Windows
// and is implied by shared linkage.
func hasFPIC(s Settings, shared bool) bool {
	return s.OS != OSWindows && !shared
}

// Has reports whether name is part of the option set.
func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Get returns the value of name and whether it is present.
func (o Options) Get(name string) (value, ok bool) {
	value, ok = o.values[name]
	return
}

// Bool returns the value of name, or false if it is absent.
func (o Options) Bool(name string) bool {
	return o.values[name]
}

// Names returns the option names in sorted order.
func (o Options) Names() []string {
	return slices.Sorted(maps.Keys(o.values))
}

// Map returns a copy of the option values.
func (o Options) Map() map[string]bool {
	return maps.Clone(o.values)
}

// String renders the set as "name=True,name=False" in sorted order.
func (o Options) String() string {
	parts := make([]string, 0, len(o.values))
	for _, name := range o.Names() {
		parts = append(parts, name+"="+formatBool(o.values[name]))
	}
	return strings.Join(parts, ",")
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// ParseOption parses a "name=value" pair. Values accept the forms understood
// by strconv.ParseBool, so "True" and "False" work as well.
func ParseOption(pair string) (name string, value bool, err error) {
	name, raw, ok := strings.Cut(pair, "=")
	if !ok || name == "" {
		return "", false, fmt.Errorf("invalid option %q: want name=value", pair)
	}
	value, err = strconv.ParseBool(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid value for option %q: %q", name, raw)
	}
	return name, value, nil
}
