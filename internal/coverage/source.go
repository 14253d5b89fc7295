// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coverage

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bayesnet/brecipe/internal/executor"
)

// ReportFile is the lcov tracefile inside the build folder.
const ReportFile = "coverage.info"

// Reading is one coverage measurement.
type Reading struct {
	Percent float64
	Text    string // as printed by the tool, e.g. "93.47%"
}

func (r Reading) String() string {
	return r.Text
}

// Source produces a coverage reading.
type Source interface {
	Percentage(ctx context.Context) (Reading, error)
}

// Lcov reads the line coverage of Dir/coverage.info with "lcov --summary".
type Lcov struct {
	Dir    string
	Runner executor.Runner
}

// Percentage implements Source.
func (l *Lcov) Percentage(ctx context.Context) (Reading, error) {
	runner := l.Runner
	if runner == nil {
		runner = executor.Default
	}
	res, err := runner.Run(ctx, executor.Command{
		Name: "lcov",
		Args: []string{"--summary", filepath.Join(l.Dir, ReportFile)},
	})
	if err != nil {
		return Reading{}, err
	}
	return ParseSummary(res.Stdout)
}

// ParseSummary extracts the percentage from lcov summary output. The value
// is the 4th space-separated field of the second-to-last line and must be a
// finite number between 0 and 100.
func ParseSummary(out string) (Reading, error) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		return Reading{}, fmt.Errorf("unexpected lcov summary: %d line(s)", len(lines))
	}
	line := strings.TrimSuffix(lines[len(lines)-2], "\r")
	text := strings.TrimSpace(field(line, 4))
	number := strings.TrimSuffix(text, "%")
	if !decimal(number) {
		return Reading{}, fmt.Errorf("unexpected lcov summary line %q: %q is not a percentage", line, text)
	}
	percent, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("unexpected lcov summary line %q: %w", line, err)
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 || percent > 100 {
		return Reading{}, fmt.Errorf("unexpected lcov summary line %q: %s is not a percentage", line, text)
	}
	return Reading{Percent: percent, Text: text}, nil
}

// decimal reports whether s is written as digits with an optional
// fractional part, the only form lcov prints.
func decimal(s string) bool {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if intPart == "" || (hasFrac && frac == "") {
		return false
	}
	for _, r := range intPart + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// field returns the n-th (1-based) field of line split on single spaces.
// A line without any space is returned whole.
func field(line string, n int) string {
	if !strings.Contains(line, " ") {
		return line
	}
	fields := strings.Split(line, " ")
	if len(fields) < n {
		return ""
	}
	return fields[n-1]
}
