// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package verify proves a published package is usable by building and
// running a minimal consumer against it.
package verify

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/qiniu/x/log"

	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/mod/module"
	"github.com/bayesnet/brecipe/pkgs/buildsys"
	"github.com/bayesnet/brecipe/recipe"
)

const (
	// ReferenceVar carries the reference under test into the consumer build.
	ReferenceVar = "BAYESNET_TESTED_REFERENCE"

	// BinaryName is the consumer program built by the test package.
	BinaryName = "test_bayesnet"
)

// VerificationError reports a consumer that failed to build or run.
type VerificationError struct {
	Ref  module.Version
	Step string
	Err  error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification of %s failed at %s: %v", e.Ref, e.Step, e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Verifier builds the consumer project in Dir with System against the
// package installed in PackageDir.
type Verifier struct {
	Ref        module.Version
	Dir        string // consumer sources, empty to keep the System's
	PackageDir string
	Info       recipe.PackageInfo
	Target     recipe.Settings
	Host       recipe.Settings
	System     buildsys.BuildSystem
	Runner     executor.Runner

	// Generators receives the find files generated from Info. It is rooted
	// at GeneratorsDir; both default to <build>/generators on disk.
	Generators    billy.Filesystem
	GeneratorsDir string

	// Binary overrides the path of the consumer program. By default it is
	// BinaryName inside the build folder.
	Binary string
}

// Verify configures and builds the consumer, then runs it when the target
// can run on the host.
//
// The consumer finds the package only through files generated from Info,
// so a build that succeeds proves the published include directories and
// link names are sufficient.
func (v *Verifier) Verify(ctx context.Context) error {
	if v.Info.Ref() != v.Ref {
		return &VerificationError{Ref: v.Ref, Step: "metadata",
			Err: fmt.Errorf("package folder holds %s", v.Info.Ref())}
	}

	if v.Dir != "" {
		v.System.Source(v.Dir)
	}
	v.System.Use(v.PackageDir)
	genDir, err := v.generate()
	if err != nil {
		return &VerificationError{Ref: v.Ref, Step: "metadata", Err: err}
	}
	genDir = filepath.ToSlash(genDir)
	v.System.Define(ReferenceVar, v.Ref.String())
	v.System.Define("CMAKE_PREFIX_PATH", genDir)
	v.System.Define("CMAKE_MODULE_PATH", genDir)
	if mode := v.Info.Properties[recipe.PropFindMode]; mode != FindModule && mode != FindNone {
		v.System.Define(v.Info.Name+"_DIR", genDir)
	}
	for key, val := range RunEnv(v.PackageDir, v.Info, v.Host.OS) {
		v.System.Env(key, val)
	}

	log.Infof("building consumer of %s", v.Ref)
	if err := v.System.Configure(ctx); err != nil {
		return &VerificationError{Ref: v.Ref, Step: "configure", Err: err}
	}
	if err := v.System.Build(ctx); err != nil {
		return &VerificationError{Ref: v.Ref, Step: "build", Err: err}
	}

	if !CanRun(v.Target, v.Host) {
		log.Warnf("consumer of %s built for %s, not running it on %s", v.Ref, v.Target, v.Host)
		return nil
	}

	runner := v.Runner
	if runner == nil {
		runner = executor.Default
	}
	bin := v.binary()
	log.Infof("running %s", bin)
	_, err = runner.Run(ctx, executor.Command{
		Name:   bin,
		Env:    RunEnv(v.PackageDir, v.Info, v.Host.OS),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return &VerificationError{Ref: v.Ref, Step: "run", Err: err}
	}
	return nil
}

// generate writes the find files of the package and returns their folder.
func (v *Verifier) generate() (string, error) {
	files, err := FindFiles(v.PackageDir, v.Info)
	if err != nil {
		return "", err
	}
	dir := v.GeneratorsDir
	if dir == "" {
		dir = filepath.Join(v.System.BuildDir(), GeneratorsDir)
	}
	fsys := v.Generators
	if fsys == nil {
		fsys = osfs.New(dir)
	}
	for _, name := range slices.Sorted(maps.Keys(files)) {
		if err := util.WriteFile(fsys, "/"+name, []byte(files[name]), 0o644); err != nil {
			return "", err
		}
		log.Debugf("generated %s", filepath.Join(dir, name))
	}
	return dir, nil
}

func (v *Verifier) binary() string {
	if v.Binary != "" {
		return v.Binary
	}
	name := BinaryName
	if v.Host.OS == recipe.OSWindows {
		name += ".exe"
	}
	return filepath.Join(v.System.BuildDir(), name)
}

// CanRun reports whether binaries built for target execute on host. Empty
// target axes default to the host.
func CanRun(target, host recipe.Settings) bool {
	sameOS := target.OS == "" || target.OS == host.OS
	sameArch := target.Arch == "" || target.Arch == host.Arch
	return sameOS && sameArch
}

// RunEnv returns the environment a consumer of the package runs with: the
// dynamic library search path of targetOS gets the package's lib (bin on
// Windows) directories prepended.
func RunEnv(pkgDir string, info recipe.PackageInfo, targetOS string) map[string]string {
	key, dirs := "LD_LIBRARY_PATH", info.LibDirs
	switch targetOS {
	case recipe.OSMacos:
		key = "DYLD_LIBRARY_PATH"
	case recipe.OSWindows:
		key, dirs = "PATH", info.BinDirs
	}
	if len(dirs) == 0 {
		return nil
	}

	paths := make([]string, 0, len(dirs)+1)
	for _, d := range dirs {
		paths = append(paths, filepath.Join(pkgDir, d))
	}
	if cur := os.Getenv(key); cur != "" {
		paths = append(paths, cur)
	}
	return map[string]string{key: strings.Join(paths, string(os.PathListSeparator))}
}
