// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// WorkspaceVar overrides the default workspace directory.
const WorkspaceVar = "BRECIPE_WORKSPACE"

// WorkDir returns the workspace directory: $BRECIPE_WORKSPACE when set,
// otherwise brecipe under the XDG cache home.
func WorkDir() (string, error) {
	if dir := os.Getenv(WorkspaceVar); dir != "" {
		return filepath.Abs(dir)
	}
	return filepath.Join(xdg.CacheHome, "brecipe"), nil
}
