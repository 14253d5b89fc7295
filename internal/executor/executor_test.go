// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/root", "BROKEN"}
	got := MergeEnv(base, map[string]string{"HOME": "/tmp", "CC": "clang"})
	want := []string{"CC=clang", "HOME=/tmp", "PATH=/usr/bin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeEnv() = %v, want %v", got, want)
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "ctest", Args: []string{"--output-on-failure"}}
	if got := c.String(); got != "ctest --output-on-failure" {
		t.Errorf("String() = %q", got)
	}
}

func TestOSRunCapturesStdout(t *testing.T) {
	requireShell(t)

	var tee bytes.Buffer
	res, err := OS{}.Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", "echo $GREETING"},
		Env:    map[string]string{"GREETING": "hello"},
		Stdout: &tee,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if tee.String() != res.Stdout {
		t.Errorf("tee = %q, want %q", tee.String(), res.Stdout)
	}
}

func TestOSRunWorkingDir(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	res, err := OS{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "pwd"}, Dir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(res.Stdout), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", res.Stdout, dir)
	}
}

func TestOSRunNonZeroExit(t *testing.T) {
	requireShell(t)

	res, err := OS{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo partial; exit 3"}})
	var pErr *ProcessError
	if !errors.As(err, &pErr) {
		t.Fatalf("Run error = %v, want *ProcessError", err)
	}
	if pErr.ExitCode != 3 || res.ExitCode != 3 {
		t.Errorf("ExitCode = %d/%d, want 3", pErr.ExitCode, res.ExitCode)
	}
	if pErr.Error() != "sh -c echo partial; exit 3: exit status 3" {
		t.Errorf("Error() = %q", pErr.Error())
	}
	if res.Stdout != "partial\n" {
		t.Errorf("Stdout = %q, want output captured before the failure", res.Stdout)
	}
}

func TestOSRunMissingProgram(t *testing.T) {
	_, err := OS{}.Run(context.Background(), Command{Name: "brecipe-no-such-program"})
	var pErr *ProcessError
	if !errors.As(err, &pErr) {
		t.Fatalf("Run error = %v, want *ProcessError", err)
	}
	if pErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", pErr.ExitCode)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error %v does not wrap exec.ErrNotFound", err)
	}
}
