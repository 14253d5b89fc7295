// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import "github.com/bayesnet/brecipe/mod/module"

// TargetName is the CMake target consumers link against.
const TargetName = Name + "::" + Name

// Build-system properties of PackageInfo.
const (
	PropFindMode   = "cmake_find_mode"   // config, module, both or none
	PropTargetName = "cmake_target_name" // imported target of the package
)

// PackageInfo is what a consumer of the package sees: link names, search
// directories, system libraries and build-system properties.
type PackageInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Libs        []string          `json:"libs"`
	IncludeDirs []string          `json:"includedirs"`
	LibDirs     []string          `json:"libdirs"`
	BinDirs     []string          `json:"bindirs"`
	SystemLibs  []string          `json:"system_libs,omitempty"`
	Requires    []string          `json:"requires,omitempty"`
	Properties  map[string]string `json:"properties"`
	Settings    Settings          `json:"settings"`
	Options     map[string]bool   `json:"options"`
}

// Ref returns the name/version reference the metadata describes.
func (i PackageInfo) Ref() module.Version {
	return module.Version{Path: i.Name, Version: i.Version}
}

// PackageInfo returns the consumption metadata of the package.
//
// cmake_find_mode is "both" so the package is found in config and in module
// mode. pthread is a system link requirement on Linux only.
func (r *Recipe) PackageInfo() PackageInfo {
	info := PackageInfo{
		Name:        r.Name,
		Version:     r.Version,
		Libs:        []string{r.Name},
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
		BinDirs:     []string{"bin"},
		Properties: map[string]string{
			PropFindMode:   "both",
			PropTargetName: TargetName,
		},
		Settings: r.Settings,
		Options:  r.Options.Map(),
	}
	if r.Settings.OS == OSLinux {
		info.SystemLibs = []string{"pthread"}
	}
	for _, req := range RuntimeClosure(r.Requires) {
		info.Requires = append(info.Requires, req.String())
	}
	return info
}
