// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/internal/publish"
	"github.com/bayesnet/brecipe/internal/verify"
	"github.com/bayesnet/brecipe/recipe"
)

var testPackageCmd = &cobra.Command{
	Use:   "test-package [dir]",
	Short: "Verify the created package with a consumer project",
	Long: `Test-package builds the consumer project in dir (default test_package)
against the package created for the current settings and options, and runs
it when the host can execute it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTestPackage,
}

func init() {
	rootCmd.AddCommand(testPackageCmd)
}

func runTestPackage(cmd *cobra.Command, args []string) error {
	r, err := loadRecipe()
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	dir := filepath.Join(r.Project.Dir, "test_package")
	if len(args) > 0 {
		if dir, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}

	pkgDir, err := ws.PackageDir(r.Ref(), r.PackageID())
	if err != nil {
		return err
	}
	info, err := publish.ReadInfo(osfs.New(pkgDir))
	if err != nil {
		return fmt.Errorf("package %s not created for this configuration (run create first): %w", r.Ref(), err)
	}

	wrote, err := verify.Scaffold(osfs.New(dir))
	if err != nil {
		return err
	}
	if wrote {
		log.Infof("generated %s", filepath.Join(dir, "CMakeLists.txt"))
	}

	v := &verify.Verifier{
		Ref:        r.Ref(),
		Dir:        dir,
		PackageDir: pkgDir,
		Info:       info,
		Target:     r.Settings,
		Host:       recipe.HostSettings(),
		System:     newCMake("", filepath.Join(dir, "build"), "", r.Settings.BuildType),
		Runner:     executor.Default,
	}
	if err := v.Verify(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s verified\n", r.Ref())
	return nil
}
