// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"reflect"
	"testing"
)

func TestResolveOptions_Defaults(t *testing.T) {
	opts, err := ResolveOptions(Settings{OS: OSLinux}, nil)
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	want := map[string]bool{
		OptShared:         false,
		OptFPIC:           true,
		OptEnableTesting:  false,
		OptEnableCoverage: false,
	}
	if got := opts.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}

func TestResolveOptions_FPIC(t *testing.T) {
	tests := []struct {
		name      string
		os        string
		overrides map[string]bool
		wantFPIC  bool
	}{
		{"linux static", OSLinux, nil, true},
		{"macos static", OSMacos, nil, true},
		{"linux shared", OSLinux, map[string]bool{OptShared: true}, false},
		{"macos shared", OSMacos, map[string]bool{OptShared: true}, false},
		{"windows static", OSWindows, nil, false},
		{"windows shared", OSWindows, map[string]bool{OptShared: true}, false},
		{"shared drops explicit fPIC", OSLinux, map[string]bool{OptShared: true, OptFPIC: true}, false},
		{"windows drops explicit fPIC", OSWindows, map[string]bool{OptFPIC: true}, false},
		{"empty os keeps fPIC", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ResolveOptions(Settings{OS: tt.os}, tt.overrides)
			if err != nil {
				t.Fatalf("ResolveOptions: %v", err)
			}
			if got := opts.Has(OptFPIC); got != tt.wantFPIC {
				t.Errorf("Has(fPIC) = %v, want %v (options %s)", got, tt.wantFPIC, opts)
			}
			for _, name := range []string{OptShared, OptEnableTesting, OptEnableCoverage} {
				if !opts.Has(name) {
					t.Errorf("option %s missing from %s", name, opts)
				}
			}
		})
	}
}

func TestResolveOptions_Overrides(t *testing.T) {
	opts, err := ResolveOptions(Settings{OS: OSLinux}, map[string]bool{
		OptFPIC:          false,
		OptEnableTesting: true,
	})
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	if v, ok := opts.Get(OptFPIC); !ok || v {
		t.Errorf("Get(fPIC) = %v, %v; want false, true", v, ok)
	}
	if !opts.Bool(OptEnableTesting) {
		t.Error("enable_testing override not applied")
	}
	if opts.Bool(OptEnableCoverage) {
		t.Error("enable_coverage should keep its default")
	}
}

func TestResolveOptions_UnknownOption(t *testing.T) {
	if _, err := ResolveOptions(Settings{}, map[string]bool{"with_cuda": true}); err == nil {
		t.Fatal("ResolveOptions accepted an unknown option")
	}
}

func TestResolveOptions_DoesNotAliasOverrides(t *testing.T) {
	overrides := map[string]bool{OptShared: true}
	opts, err := ResolveOptions(Settings{}, overrides)
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	m := opts.Map()
	m[OptShared] = false
	if !opts.Bool(OptShared) {
		t.Error("mutating Map() changed the option set")
	}
	if len(overrides) != 1 || !overrides[OptShared] {
		t.Errorf("overrides mutated: %v", overrides)
	}
}

func TestOptionsString(t *testing.T) {
	opts, err := ResolveOptions(Settings{OS: OSWindows}, map[string]bool{OptEnableTesting: true})
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	want := "enable_coverage=False,enable_testing=True,shared=False"
	if got := opts.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := opts.Names(); !reflect.DeepEqual(got, []string{OptEnableCoverage, OptEnableTesting, OptShared}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		pair      string
		wantName  string
		wantValue bool
		wantErr   bool
	}{
		{"shared=True", OptShared, true, false},
		{"shared=False", OptShared, false, false},
		{"fPIC=true", OptFPIC, true, false},
		{"enable_testing=1", OptEnableTesting, true, false},
		{"enable_coverage=0", OptEnableCoverage, false, false},
		{"shared", "", false, true},
		{"=True", "", false, true},
		{"shared=maybe", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			name, value, err := ParseOption(tt.pair)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOption(%q) error = %v, wantErr %v", tt.pair, err, tt.wantErr)
			}
			if name != tt.wantName || value != tt.wantValue {
				t.Errorf("ParseOption(%q) = %q, %v; want %q, %v", tt.pair, name, value, tt.wantName, tt.wantValue)
			}
		})
	}
}
