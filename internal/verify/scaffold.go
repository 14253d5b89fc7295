// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verify

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/bayesnet/brecipe/recipe"
)

const consumerCMake = `cmake_minimum_required(VERSION 3.27)
project(%[1]s LANGUAGES CXX)

set(CMAKE_CXX_STANDARD 17)

find_package(%[2]s REQUIRED)
message(STATUS "Consuming ${%[3]s}")

add_executable(%[1]s %[1]s.cpp)
target_link_libraries(%[1]s PRIVATE %[4]s)
`

// Scaffold writes the CMakeLists.txt of the consumer project into dir
// unless one exists. It reports whether a file was written.
func Scaffold(dir billy.Filesystem) (bool, error) {
	const name = "/CMakeLists.txt"
	if _, err := dir.Stat(name); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if _, err := dir.Stat("/" + BinaryName + ".cpp"); err != nil {
		return false, fmt.Errorf("consumer source missing: %w", err)
	}
	data := fmt.Sprintf(consumerCMake, BinaryName, recipe.Name, ReferenceVar, recipe.TargetName)
	if err := util.WriteFile(dir, name, []byte(data), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
