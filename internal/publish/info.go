// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/bayesnet/brecipe/recipe"
)

// InfoFile holds the consumption metadata in the package folder.
const InfoFile = "package_info.json"

// WriteInfo stores info in the package folder.
func WriteInfo(fsys billy.Filesystem, info recipe.PackageInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFile(fsys, "/"+InfoFile, append(data, '\n'), 0o644)
}

// ReadInfo loads the consumption metadata of a package folder.
func ReadInfo(fsys billy.Filesystem) (recipe.PackageInfo, error) {
	var info recipe.PackageInfo
	data, err := util.ReadFile(fsys, "/"+InfoFile)
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("failed to parse %s: %w", InfoFile, err)
	}
	return info, nil
}
