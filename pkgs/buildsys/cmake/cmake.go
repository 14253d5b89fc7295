// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmake drives the cmake configure/build/install workflow and runs
// the test suite with ctest.
package cmake

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/pkgs/buildsys"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	defines    map[string]defineValue
	env        map[string]string

	runner executor.Runner
	stdout io.Writer
	stderr io.Writer
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a CMake driver for sourceDir that builds into buildDir and
// installs into installDir (which may be empty).
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		defines:    map[string]defineValue{},
		env:        map[string]string{},
		runner:     executor.Default,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

// WithRunner replaces the process runner.
func (c *CMake) WithRunner(r executor.Runner) *CMake {
	c.runner = r
	return c
}

// SetStdout redirects the output of the external tools.
func (c *CMake) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr redirects the error output of the external tools.
func (c *CMake) SetStderr(w io.Writer) { c.stderr = w }

func (c *CMake) Source(dir string) {
	c.sourceDir = dir
}

func (c *CMake) InstallDir(dir string) {
	c.installDir = dir
}

func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

func (c *CMake) Toolchain(path string) *CMake {
	c.toolchain = path
	return c
}

// Define sets a STRING cache variable for the next configure.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool sets a BOOL cache variable (ON/OFF) for the next configure.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// Env sets an environment variable for every tool this driver runs.
func (c *CMake) Env(key, value string) {
	c.env[key] = value
}

// Use makes the package installed at root visible to CMake and the
// compilers, through the driver's environment only.
func (c *CMake) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		c.prependEnv("PKG_CONFIG_PATH", pkgconfigDir)
	}
	c.prependEnv("CMAKE_PREFIX_PATH", root)
	if _, err := os.Stat(includeDir); err == nil {
		c.prependEnv("CMAKE_INCLUDE_PATH", includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		c.prependEnv("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			c.prependEnv("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			c.prependEnv("LIB", libDir)
		}
	}
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)

	return c.run(ctx, "cmake", cmakeArgs, "")
}

func (c *CMake) Build(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(ctx, "cmake", cmdArgs, "")
}

// Test runs ctest in the build directory. Any failing test makes ctest
// exit non-zero, which is returned as an error.
func (c *CMake) Test(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--output-on-failure"}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "-C", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(ctx, "ctest", cmdArgs, c.buildDir)
}

func (c *CMake) Install(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--install", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(ctx, "cmake", cmdArgs, "")
}

// BuildDir returns the binary directory.
func (c *CMake) BuildDir() string {
	return c.buildDir
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

var versionRe = regexp.MustCompile(`cmake version ([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// Version returns the version reported by "cmake --version".
func (c *CMake) Version(ctx context.Context) (string, error) {
	res, err := c.runner.Run(ctx, executor.Command{Name: "cmake", Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	m := versionRe.FindStringSubmatch(res.Stdout)
	if m == nil {
		return "", fmt.Errorf("cmake: unexpected version output %q", firstLine(res.Stdout))
	}
	return m[1], nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}

func (c *CMake) run(ctx context.Context, bin string, args []string, dir string) error {
	_, err := c.runner.Run(ctx, executor.Command{
		Name:   bin,
		Args:   args,
		Dir:    dir,
		Env:    c.env,
		Stdout: c.stdout,
		Stderr: c.stderr,
	})
	return err
}

// prependEnv prepends value to the driver's copy of key, starting from the
// process environment the first time.
func (c *CMake) prependEnv(key, value string) {
	current, ok := c.env[key]
	if !ok {
		current = os.Getenv(key)
	}
	if current == "" {
		c.env[key] = value
		return
	}
	c.env[key] = value + string(os.PathListSeparator) + current
}

