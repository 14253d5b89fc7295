// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package publish stages a built recipe into its package folder.
package publish

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/qiniu/x/log"

	"github.com/bayesnet/brecipe/internal/build"
)

const (
	// LicenseFile is the license copied from the source tree.
	LicenseFile = "LICENSE"

	// LicensesDir receives the license in the package folder.
	LicensesDir = "licenses"
)

// Publisher copies files from a source tree into a package folder.
type Publisher struct {
	src billy.Filesystem
	dst billy.Filesystem
}

// New returns a Publisher reading from src and writing to dst.
func New(src, dst billy.Filesystem) *Publisher {
	return &Publisher{src: src, dst: dst}
}

// CopyLicense copies exactly the LICENSE file of the source tree to
// licenses/LICENSE. A missing license is an error.
func (p *Publisher) CopyLicense() error {
	data, err := util.ReadFile(p.src, "/"+LicenseFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", LicenseFile, err)
	}
	if err := p.dst.MkdirAll("/"+LicensesDir, 0o755); err != nil {
		return err
	}
	name := p.dst.Join("/", LicensesDir, LicenseFile)
	if err := util.WriteFile(p.dst, name, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Package copies the license and then runs the pipeline's install step,
// which places headers and libraries into the package folder.
func (p *Publisher) Package(ctx context.Context, pl *build.Pipeline) error {
	if err := p.CopyLicense(); err != nil {
		return err
	}
	if err := pl.Install(ctx); err != nil {
		return err
	}
	log.Infof("packaged into %s", pl.System().OutputDir())
	return nil
}
