// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	sourceDir    string
	profilePath  string
	settingFlags []string
	optionFlags  []string
	workspaceDir string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "brecipe",
	Short: "brecipe builds and packages the bayesnet library",
	Long: `brecipe derives the bayesnet version from CMakeLists.txt, resolves its
dependencies, drives the CMake build, packages the result and verifies it
with a consumer project.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		} else {
			log.SetOutputLevel(log.Linfo)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&sourceDir, "source", "C", ".", "Source directory of the recipe")
	flags.StringVar(&profilePath, "profile", "", "HCL profile with settings and options")
	flags.StringArrayVarP(&settingFlags, "setting", "s", nil, "Setting as key=value (repeatable)")
	flags.StringArrayVarP(&optionFlags, "option", "o", nil, "Option as name=value (repeatable)")
	flags.StringVar(&workspaceDir, "workspace", "", "Workspace directory (default $BRECIPE_WORKSPACE or the user cache)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
