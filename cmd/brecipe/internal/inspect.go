// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bayesnet/brecipe/recipe"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the evaluated recipe as JSON",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// recipeView is the JSON shape printed by inspect.
type recipeView struct {
	Name        string               `json:"name"`
	Version     string               `json:"version"`
	PackageID   string               `json:"package_id"`
	Settings    recipe.Settings      `json:"settings"`
	Options     map[string]bool      `json:"options"`
	Requires    []recipe.Requirement `json:"requires"`
	PackageInfo recipe.PackageInfo   `json:"package_info"`
}

func newRecipeView(r *recipe.Recipe) recipeView {
	return recipeView{
		Name:        r.Name,
		Version:     r.Version,
		PackageID:   r.PackageID(),
		Settings:    r.Settings,
		Options:     r.Options.Map(),
		Requires:    r.Requires,
		PackageInfo: r.PackageInfo(),
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := loadRecipe()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(newRecipeView(r))
}
