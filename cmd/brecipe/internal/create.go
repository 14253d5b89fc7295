// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/bayesnet/brecipe/internal/publish"
)

var createOutput string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Build the library and create its package",
	Long: `Create builds the library, copies the license, installs the artifacts into
the package folder of the workspace and writes package_info.json.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	addBuildFlags(createCmd)
	createCmd.Flags().StringVarP(&createOutput, "output", "O", "", "Also export the package (directory or .zip file)")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Resolve output path to absolute before build
	if createOutput != "" {
		abs, err := filepath.Abs(createOutput)
		if err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		createOutput = abs
	}

	r, err := loadRecipe()
	if err != nil {
		return err
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	pl, err := buildRecipe(ctx, r, ws)
	if err != nil {
		return err
	}

	pkgFS := osfs.New(pl.System().OutputDir())
	if err := publish.New(osfs.New(r.Project.Dir), pkgFS).Package(ctx, pl); err != nil {
		return err
	}
	info := r.PackageInfo()
	if err := publish.WriteInfo(pkgFS, info); err != nil {
		return fmt.Errorf("failed to write package info: %w", err)
	}
	metadata := strings.Join(append(r.Settings.Pairs(), r.Options.String()), ";")
	if err := ws.Record(r.Ref(), r.PackageID(), metadata); err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}

	if createOutput != "" {
		if err := publish.Archive(pkgFS, createOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(info)
}
