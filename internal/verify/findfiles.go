// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verify

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bayesnet/brecipe/recipe"
)

// GeneratorsDir is the folder of the consumer build that receives the find
// files of the package.
const GeneratorsDir = "generators"

// Find modes of the cmake_find_mode property.
const (
	FindConfig = "config"
	FindModule = "module"
	FindBoth   = "both"
	FindNone   = "none"
)

// ConfigFile returns the name of the config-mode file of package name.
func ConfigFile(name string) string { return name + "-config.cmake" }

// ConfigVersionFile returns the name of the version file next to ConfigFile.
func ConfigVersionFile(name string) string { return name + "-config-version.cmake" }

// ModuleFile returns the name of the module-mode file of package name.
func ModuleFile(name string) string { return "Find" + name + ".cmake" }

// FindFiles renders the CMake files that let a consumer find the package
// described by info, installed at pkgDir. The result maps file names to
// contents.
//
// Every file defines the imported target named by the cmake_target_name
// property (name::name when absent). Its include directories, link names and
// system libraries come from info only; nothing installed by the library
// itself is consulted. cmake_find_mode selects config files, a find module,
// both or nothing, and defaults to config.
func FindFiles(pkgDir string, info recipe.PackageInfo) (map[string]string, error) {
	if info.Name == "" {
		return nil, errors.New("package metadata has no name")
	}
	target := info.Properties[recipe.PropTargetName]
	if target == "" {
		target = info.Name + "::" + info.Name
	}
	mode := info.Properties[recipe.PropFindMode]
	if mode == "" {
		mode = FindConfig
	}

	files := make(map[string]string)
	body := importedTarget(pkgDir, info, target)
	switch mode {
	case FindConfig:
		files[ConfigFile(info.Name)] = body
		files[ConfigVersionFile(info.Name)] = versionFile(info.Version)
	case FindModule:
		files[ModuleFile(info.Name)] = body
	case FindBoth:
		files[ConfigFile(info.Name)] = body
		files[ConfigVersionFile(info.Name)] = versionFile(info.Version)
		files[ModuleFile(info.Name)] = body
	case FindNone:
	default:
		return nil, fmt.Errorf("unknown %s %q", recipe.PropFindMode, mode)
	}
	return files, nil
}

func importedTarget(pkgDir string, info recipe.PackageInfo, target string) string {
	n := info.Name
	libDirs := pathList(pkgDir, info.LibDirs)

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated from the metadata of %s.\n", info.Ref())
	fmt.Fprintf(&b, "set(%s_FOUND TRUE)\n", n)
	fmt.Fprintf(&b, "set(%s_VERSION %s)\n", n, quote(info.Version))

	var links []string
	for _, lib := range info.Libs {
		v := n + "_LIB_" + lib
		fmt.Fprintf(&b, "\nfind_library(%s NAMES %s PATHS %s NO_DEFAULT_PATH)\n", v, lib, quoteAll(libDirs))
		fmt.Fprintf(&b, "if(NOT %s)\n", v)
		fmt.Fprintf(&b, "  message(FATAL_ERROR %s)\n", quote("library "+lib+" of "+n+" not found in "+strings.Join(libDirs, " ")))
		b.WriteString("endif()\n")
		links = append(links, "${"+v+"}")
	}
	links = append(links, info.SystemLibs...)
	includes := pathList(pkgDir, info.IncludeDirs)

	fmt.Fprintf(&b, "\nif(NOT TARGET %s)\n", target)
	fmt.Fprintf(&b, "  add_library(%s INTERFACE IMPORTED)\n", target)
	if len(includes) > 0 || len(links) > 0 {
		fmt.Fprintf(&b, "  set_target_properties(%s PROPERTIES\n", target)
		if len(includes) > 0 {
			fmt.Fprintf(&b, "    INTERFACE_INCLUDE_DIRECTORIES %s\n", quote(strings.Join(includes, ";")))
		}
		if len(links) > 0 {
			fmt.Fprintf(&b, "    INTERFACE_LINK_LIBRARIES %s\n", quote(strings.Join(links, ";")))
		}
		b.WriteString("  )\n")
	}
	b.WriteString("endif()\n")
	return b.String()
}

const versionTemplate = `set(PACKAGE_VERSION %s)
if(PACKAGE_FIND_VERSION AND PACKAGE_VERSION VERSION_LESS PACKAGE_FIND_VERSION)
  set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
  set(PACKAGE_VERSION_COMPATIBLE TRUE)
  if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
    set(PACKAGE_VERSION_EXACT TRUE)
  endif()
endif()
`

func versionFile(version string) string {
	return fmt.Sprintf(versionTemplate, quote(version))
}

// pathList joins dirs under pkgDir using forward slashes, as CMake expects.
func pathList(pkgDir string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, filepath.ToSlash(filepath.Join(pkgDir, d)))
	}
	return out
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = quote(s)
	}
	return strings.Join(q, " ")
}
