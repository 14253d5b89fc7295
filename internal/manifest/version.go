// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest extracts package metadata from the project's build
// manifest (the top-level CMakeLists.txt).
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
)

// FileName is the build manifest the version is read from.
const FileName = "CMakeLists.txt"

// ErrVersionNotFound is matched by every VersionNotFoundError.
var ErrVersionNotFound = errors.New("version not found")

// VersionNotFoundError reports a manifest without a project(... VERSION x.y.z)
// declaration.
type VersionNotFoundError struct {
	File string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version not found in %s", e.File)
}

func (e *VersionNotFoundError) Unwrap() error { return ErrVersionNotFound }

// projectVersionRe matches the VERSION argument of a project() call.
// [^)] also matches newlines, so multi-line project() calls are accepted.
var projectVersionRe = regexp.MustCompile(`(?i)project\s*\([^)]*VERSION\s+([0-9]+\.[0-9]+\.[0-9]+)`)

// ParseVersion returns the MAJOR.MINOR.PATCH triple declared by the first
// project() call in data, exactly as written. file is only used for errors.
func ParseVersion(file string, data []byte) (string, error) {
	m := projectVersionRe.FindSubmatch(data)
	if m == nil {
		return "", &VersionNotFoundError{File: file}
	}
	return string(m[1]), nil
}

// ReadVersion reads FileName from fsys and parses its version.
func ReadVersion(fsys fs.FS) (string, error) {
	data, err := fs.ReadFile(fsys, FileName)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return ParseVersion(FileName, data)
}
