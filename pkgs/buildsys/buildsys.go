// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildsys

import "context"

// BuildSystem captures the capabilities the recipe delegates to an external
// build tool (CMake today). It keeps the common lifecycle and the
// dependency/env setup; implementations add their own extras.
type BuildSystem interface {
	// Use makes a package installed at root visible to the build.
	Use(root string)

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Environment helper.
	Env(key, val string)

	// Cache variables passed to the next Configure.
	Define(key, value string)
	DefineBool(key string, value bool)

	// Lifecycle. Each call blocks until the external tool exits.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error
	Test(ctx context.Context, args ...string) error
	Install(ctx context.Context, args ...string) error

	// Where build outputs land.
	BuildDir() string

	// Where installed artifacts land.
	OutputDir() string
}
