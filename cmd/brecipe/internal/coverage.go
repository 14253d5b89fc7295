// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/bayesnet/brecipe/internal/coverage"
	"github.com/bayesnet/brecipe/internal/executor"
)

var (
	coverageReadme    string
	coverageThreshold float64
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <build-dir>",
	Short: "Update the README coverage badge",
	Long: `Coverage summarizes <build-dir>/coverage.info with lcov. Below the threshold
it fails and leaves the README alone; otherwise the Coverage line of the
README is replaced with a new badge.`,
	Args: cobra.ExactArgs(1),
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&coverageReadme, "readme", "README.md", "Document holding the coverage badge")
	coverageCmd.Flags().Float64Var(&coverageThreshold, "threshold", coverage.DefaultThreshold, "Minimum coverage percentage")
	rootCmd.AddCommand(coverageCmd)
}

func runCoverage(cmd *cobra.Command, args []string) error {
	if !(coverageThreshold > 0 && coverageThreshold <= 100) {
		return fmt.Errorf("invalid --threshold %g: want a percentage in (0, 100]", coverageThreshold)
	}
	readme, err := filepath.Abs(coverageReadme)
	if err != nil {
		return err
	}
	g := &coverage.Gate{
		Source:    &coverage.Lcov{Dir: args[0], Runner: executor.Default},
		FS:        osfs.New(filepath.Dir(readme)),
		Document:  filepath.Base(readme),
		Threshold: coverageThreshold,
	}
	r, err := g.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Coverage updated with value: %s\n", r)
	return nil
}
