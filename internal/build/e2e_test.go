// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bayesnet/brecipe/pkgs/buildsys/cmake"
	"github.com/bayesnet/brecipe/recipe"
)

func TestPipelineE2E(t *testing.T) {
	for _, tool := range []string{"cmake", "ctest"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found in PATH", tool)
		}
	}
	if runtime.GOOS == "windows" {
		t.Skip("makefile generator not available")
	}

	src, err := filepath.Abs(filepath.Join("testdata", "project"))
	if err != nil {
		t.Fatal(err)
	}
	r, err := recipe.Load(recipe.NewProject(src), recipe.HostSettings(),
		map[string]bool{recipe.OptEnableTesting: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Version != "0.3.1" {
		t.Fatalf("Version = %q, want 0.3.1", r.Version)
	}

	ws := NewWorkspace(t.TempDir())
	pkgDir, err := ws.PackageDir(r.Ref(), r.PackageID())
	if err != nil {
		t.Fatal(err)
	}
	buildDir, err := ws.BuildDir(r.Ref(), r.PackageID())
	if err != nil {
		t.Fatal(err)
	}

	sys := cmake.New(src, buildDir, pkgDir).BuildType("Release").Generator("Unix Makefiles")
	sys.SetStdout(io.Discard)
	p := NewPipeline(r, sys)

	ctx := context.Background()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.State() != Tested {
		t.Fatalf("state = %v, want %v", p.State(), Tested)
	}
	if err := p.Install(ctx); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "include", "sample.h")); err != nil {
		t.Fatalf("installed header missing: %v", err)
	}
	if err := ws.Record(r.Ref(), r.PackageID(), r.Options.String()); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := ws.Lookup(r.Ref(), r.PackageID()); err != nil || !ok {
		t.Fatalf("Lookup = ok %v, err %v", ok, err)
	}
}
