// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bayesnet/brecipe/mod/module"
)

// Workspace directory layout:
//
//	workspaceDir/
//	  <escaped>/                          # package-level dir (cacheDir)
//	    .cache.json                       # maps "version-packageID" → Entry
//	  <escaped>@<version>-<packageID>/    # package folder (install prefix)
//	    licenses/
//	    include/
//	    lib/
//	    package_info.json
//	  <escaped>@<version>-<packageID>.build/
const cacheFile = ".cache.json"

// Entry contains metadata about a single successful build.
type Entry struct {
	Metadata  string    `json:"metadata"`
	BuildTime time.Time `json:"build_time"`
}

// buildCache maps "version-packageID" keys to their entries.
type buildCache struct {
	Cache map[string]*Entry `json:"cache"`
}

func cacheKey(version, packageID string) string {
	return version + "-" + packageID
}

func (c *buildCache) get(version, packageID string) (*Entry, bool) {
	entry, ok := c.Cache[cacheKey(version, packageID)]
	return entry, ok
}

func (c *buildCache) set(version, packageID string, entry *Entry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*Entry)
	}
	c.Cache[cacheKey(version, packageID)] = entry
}

// Workspace is the local build cache.
type Workspace struct {
	dir string
}

// NewWorkspace returns a workspace rooted at dir.
func NewWorkspace(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.dir
}

// cacheDir returns the package-level directory: workspaceDir/<escapedPath>.
func (w *Workspace) cacheDir(name string) (string, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.dir, escaped), nil
}

// PackageDir returns the package folder: workspaceDir/<escapedPath>@<version>-<packageID>.
func (w *Workspace) PackageDir(ref module.Version, packageID string) (string, error) {
	escaped, err := module.EscapePath(ref.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.dir, fmt.Sprintf("%s@%s-%s", escaped, ref.Version, packageID)), nil
}

// BuildDir returns the build folder that belongs to PackageDir.
func (w *Workspace) BuildDir(ref module.Version, packageID string) (string, error) {
	dir, err := w.PackageDir(ref, packageID)
	if err != nil {
		return "", err
	}
	return dir + ".build", nil
}

// Record stores a successful build of ref in the cache file.
func (w *Workspace) Record(ref module.Version, packageID, metadata string) error {
	cache, err := w.loadCache(ref.Path)
	if errors.Is(err, fs.ErrNotExist) {
		cache, err = &buildCache{}, nil
	}
	if err != nil {
		return err
	}
	cache.set(ref.Version, packageID, &Entry{
		Metadata:  metadata,
		BuildTime: time.Now(),
	})
	return w.saveCache(ref.Path, cache)
}

// Lookup returns the recorded build of ref, if any.
func (w *Workspace) Lookup(ref module.Version, packageID string) (*Entry, bool, error) {
	cache, err := w.loadCache(ref.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	entry, ok := cache.get(ref.Version, packageID)
	return entry, ok, nil
}

// loadCache reads the cache file of a package from the workspace directory.
func (w *Workspace) loadCache(name string) (*buildCache, error) {
	dir, err := w.cacheDir(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if err != nil {
		return nil, err
	}
	var cache buildCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cacheFile, err)
	}
	return &cache, nil
}

// saveCache writes the cache file of a package to the workspace directory.
func (w *Workspace) saveCache(name string, cache *buildCache) error {
	dir, err := w.cacheDir(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}
