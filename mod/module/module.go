// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// A Version (for clients, a module.Version) represents a package reference
// of the form "name/version".
type Version struct {
	Path    string // Package name (e.g., "libtorch")
	Version string // Exact version (e.g., "2.7.1") or a range such as "[>=3.27]"
}

// String returns the reference in "name/version" form.
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "/" + v.Version
}

// IsRange reports whether the version is a bracketed range expression.
func (v Version) IsRange() bool {
	return strings.HasPrefix(v.Version, "[") && strings.HasSuffix(v.Version, "]")
}

// Parse parses a "name/version" reference. The version is split at the
// first slash, so ranges like "cmake/[>=3.27]" are kept intact.
func Parse(ref string) (Version, error) {
	name, ver, ok := strings.Cut(ref, "/")
	if !ok || name == "" || ver == "" {
		return Version{}, fmt.Errorf("invalid reference %q: want name/version", ref)
	}
	return Version{Path: name, Version: ver}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// EscapePath returns the escaped form of the given package name as a valid
// file system path. It fails if the name is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
