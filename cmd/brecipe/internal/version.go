// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bayesnet/brecipe/internal/manifest"
	"github.com/bayesnet/brecipe/recipe"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version derived from CMakeLists.txt",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	v, err := manifest.ReadVersion(recipe.NewProject(sourceDir).DirFS)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}
