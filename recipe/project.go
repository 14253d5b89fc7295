// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"io/fs"
	"os"
)

// -----------------------------------------------------------------------------

// Project represents the source tree the recipe builds.
type Project struct {
	Dir   string // source directory on disk, handed to the build system
	DirFS fs.FS
}

// NewProject returns a Project rooted at dir.
func NewProject(dir string) *Project {
	return &Project{Dir: dir, DirFS: os.DirFS(dir)}
}

// -----------------------------------------------------------------------------
