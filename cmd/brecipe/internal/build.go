// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/bayesnet/brecipe/internal/build"
	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/internal/resolve"
	"github.com/bayesnet/brecipe/recipe"
)

var buildNoResolve bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure, build and test the library",
	Long: `Build checks the build tools, resolves the dependencies, then configures
and builds the library. Tests run when enable_testing is on.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&buildNoResolve, "no-resolve", false, "Skip dependency resolution")
}

func runBuild(cmd *cobra.Command, args []string) error {
	r, err := loadRecipe()
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	pl, err := buildRecipe(cmd.Context(), r, ws)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", r.Ref(), pl.State(), pl.System().BuildDir())
	return nil
}

// buildRecipe runs the configure, build and test steps of r in the
// workspace folders of its package.
func buildRecipe(ctx context.Context, r *recipe.Recipe, ws *build.Workspace) (*build.Pipeline, error) {
	if err := recipe.Validate(r.Requires); err != nil {
		return nil, err
	}
	if err := resolve.CheckTools(ctx, executor.Default, r.Requires); err != nil {
		return nil, err
	}

	id := r.PackageID()
	pkgDir, err := ws.PackageDir(r.Ref(), id)
	if err != nil {
		return nil, err
	}
	buildDir, err := ws.BuildDir(r.Ref(), id)
	if err != nil {
		return nil, err
	}
	log.Debugf("package %s: build folder %s, package folder %s", id, buildDir, pkgDir)

	sys := newCMake(r.Project.Dir, buildDir, pkgDir, r.Settings.BuildType)
	if !buildNoResolve {
		res, err := resolve.NewCommand().Resolve(ctx, r, filepath.Join(buildDir, "generators"))
		if err != nil {
			return nil, err
		}
		sys.Toolchain(res.Toolchain)
	}

	pl := build.NewPipeline(r, sys)
	if err := pl.Run(ctx); err != nil {
		return pl, err
	}
	return pl, nil
}
