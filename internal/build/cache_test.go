// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bayesnet/brecipe/mod/module"
)

func TestWorkspaceLayout(t *testing.T) {
	ws := NewWorkspace("/ws")
	ref := module.Version{Path: "bayesnet", Version: "1.1.2"}

	pkg, err := ws.PackageDir(ref, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/ws", "bayesnet@1.1.2-abc123"); pkg != want {
		t.Errorf("PackageDir = %q, want %q", pkg, want)
	}
	build, err := ws.BuildDir(ref, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/ws", "bayesnet@1.1.2-abc123.build"); build != want {
		t.Errorf("BuildDir = %q, want %q", build, want)
	}

	if _, err := ws.PackageDir(module.Version{Path: "../evil", Version: "1"}, "x"); err == nil {
		t.Error("PackageDir accepted a non-local name")
	}
}

func TestWorkspaceRecordLookup(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	ref := module.Version{Path: "bayesnet", Version: "1.1.2"}

	if _, ok, err := ws.Lookup(ref, "abc123"); err != nil || ok {
		t.Fatalf("Lookup on empty workspace = ok %v, err %v", ok, err)
	}

	before := time.Now().Add(-time.Second)
	if err := ws.Record(ref, "abc123", "os=Linux|shared=False"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := ws.Record(ref, "def456", "os=Linux|shared=True"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entry, ok, err := ws.Lookup(ref, "abc123")
	if err != nil || !ok {
		t.Fatalf("Lookup = ok %v, err %v", ok, err)
	}
	if entry.Metadata != "os=Linux|shared=False" {
		t.Errorf("Metadata = %q", entry.Metadata)
	}
	if entry.BuildTime.Before(before) {
		t.Errorf("BuildTime = %v, want after %v", entry.BuildTime, before)
	}
	if _, ok, _ := ws.Lookup(ref, "def456"); !ok {
		t.Error("second record lost")
	}
	if _, ok, _ := ws.Lookup(module.Version{Path: "bayesnet", Version: "1.1.3"}, "abc123"); ok {
		t.Error("Lookup matched another version")
	}
}

func TestWorkspaceInvalidCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bayesnet"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bayesnet", cacheFile), []byte("invalid json"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	ws := NewWorkspace(dir)
	ref := module.Version{Path: "bayesnet", Version: "1.1.2"}
	if _, _, err := ws.Lookup(ref, "abc123"); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if err := ws.Record(ref, "abc123", ""); err == nil {
		t.Fatal("Record overwrote an unreadable cache")
	}
}
