// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"fmt"
	"runtime"
	"strings"
)

// Identifiers of the os setting axis.
const (
	OSLinux   = "Linux"
	OSWindows = "Windows"
	OSMacos   = "Macos"
)

// Settings are the platform axes of a build. They are passed through to the
// resolver and the build system without interpretation, except for OS which
// drives the option and link rules.
type Settings struct {
	OS        string `json:"os,omitempty"`
	Arch      string `json:"arch,omitempty"`
	Compiler  string `json:"compiler,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}

// HostSettings returns the settings of the running host with a Release
// build type.
func HostSettings() Settings {
	return Settings{
		OS:        hostOS(runtime.GOOS),
		Arch:      hostArch(runtime.GOARCH),
		BuildType: "Release",
	}
}

func hostOS(goos string) string {
	switch goos {
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	case "darwin":
		return OSMacos
	}
	return goos
}

func hostArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "armv8"
	case "386":
		return "x86"
	}
	return goarch
}

// With returns a copy of s with the named axis set to value.
func (s Settings) With(key, value string) (Settings, error) {
	switch key {
	case "os":
		s.OS = value
	case "arch":
		s.Arch = value
	case "compiler":
		s.Compiler = value
	case "build_type":
		s.BuildType = value
	default:
		return s, fmt.Errorf("unknown setting %q", key)
	}
	return s, nil
}

// Pairs returns the non-empty axes as key=value strings in a fixed order.
func (s Settings) Pairs() []string {
	var pairs []string
	for _, kv := range [][2]string{
		{"os", s.OS},
		{"arch", s.Arch},
		{"compiler", s.Compiler},
		{"build_type", s.BuildType},
	} {
		if kv[1] != "" {
			pairs = append(pairs, kv[0]+"="+kv[1])
		}
	}
	return pairs
}

// String joins the non-empty axes with "-", e.g. "Linux-x86_64-gcc-Release".
func (s Settings) String() string {
	var parts []string
	for _, v := range []string{s.OS, s.Arch, s.Compiler, s.BuildType} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "-")
}

// ParseSetting splits a "key=value" pair.
func ParseSetting(pair string) (key, value string, err error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("invalid setting %q: want key=value", pair)
	}
	return key, value, nil
}
