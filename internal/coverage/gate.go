// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coverage enforces the coverage threshold and keeps the coverage
// badge of the README up to date.
package coverage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/qiniu/x/log"
)

const (
	// DefaultThreshold is the minimum accepted coverage percentage.
	DefaultThreshold = 90.0

	// Indicator marks the line of the document that holds the badge.
	Indicator = "Coverage"
)

// ErrNoIndicator is returned for a document without a coverage line.
var ErrNoIndicator = errors.New("no " + Indicator + " line in document")

// BelowThresholdError reports a reading under the threshold. The document
// is left untouched.
type BelowThresholdError struct {
	Reading   Reading
	Threshold float64
}

func (e *BelowThresholdError) Error() string {
	return fmt.Sprintf("coverage %s is less than %g%%, badge not updated", e.Reading, e.Threshold)
}

// Gate checks a reading and rewrites the badge of Document in FS.
type Gate struct {
	Source    Source
	FS        billy.Filesystem
	Document  string
	Threshold float64 // DefaultThreshold when zero
}

// Run reads the coverage and updates the document when it reaches the
// threshold.
func (g *Gate) Run(ctx context.Context) (Reading, error) {
	r, err := g.Source.Percentage(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("failed to read coverage: %w", err)
	}
	threshold := g.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if !(r.Percent >= threshold) {
		return r, &BelowThresholdError{Reading: r, Threshold: threshold}
	}
	if err := UpdateDocument(g.FS, g.Document, BadgeLine(r)); err != nil {
		return r, err
	}
	log.Infof("coverage updated with value: %s", r)
	return r, nil
}

// BadgeLine renders the badge for r. The decimal point becomes a comma and
// the percent sign is written as "%25".
func BadgeLine(r Reading) string {
	p := strings.ReplaceAll(strings.TrimSuffix(r.Text, "%"), ".", ",")
	return "![Static Badge](https://img.shields.io/badge/" + Indicator + "-" + p + "%25-green)"
}

// UpdateDocument replaces every line of name that contains Indicator with
// line. All other bytes are kept. The file is replaced atomically.
func UpdateDocument(fsys billy.Filesystem, name, line string) error {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	found := false
	for _, l := range strings.SplitAfter(string(data), "\n") {
		if l == "" {
			continue
		}
		if strings.Contains(l, Indicator) {
			found = true
			out.WriteString(line + "\n")
			continue
		}
		out.WriteString(l)
	}
	if !found {
		return fmt.Errorf("%s: %w", name, ErrNoIndicator)
	}
	return writeAtomic(fsys, name, out.Bytes())
}

// writeAtomic writes data next to name and renames it over name, keeping
// the permissions of the original file.
func writeAtomic(fsys billy.Filesystem, name string, data []byte) error {
	info, err := fsys.Stat(name)
	if err != nil {
		return err
	}
	tmpName := fsys.Join(filepath.Dir(name), "."+filepath.Base(name)+".tmp")
	tmp, err := fsys.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Rename(tmpName, name); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	return nil
}
