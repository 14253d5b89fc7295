// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/qiniu/x/log"

	"github.com/bayesnet/brecipe/internal/executor"
	"github.com/bayesnet/brecipe/recipe"
)

// hostTools lists build requirements that are looked up on the host
// instead of being installed by the resolver.
var hostTools = map[string][]string{
	"cmake": {"--version"},
}

var toolVersionRe = regexp.MustCompile(`([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// CheckTools verifies that the host tools among the build requirements are
// installed and satisfy their version constraint.
func CheckTools(ctx context.Context, runner executor.Runner, reqs []recipe.Requirement) error {
	for _, req := range recipe.Filter(reqs, recipe.ScopeBuild) {
		args, ok := hostTools[req.Ref.Path]
		if !ok {
			continue
		}
		if err := checkTool(ctx, runner, req, args); err != nil {
			return err
		}
	}
	return nil
}

func checkTool(ctx context.Context, runner executor.Runner, req recipe.Requirement, args []string) error {
	constraint, err := req.Constraint()
	if err != nil {
		return &ResolutionError{Ref: req.String(), Err: err}
	}
	res, err := runner.Run(ctx, executor.Command{Name: req.Ref.Path, Args: args})
	if err != nil {
		return &ResolutionError{Ref: req.String(), Err: err}
	}
	m := toolVersionRe.FindString(res.Stdout)
	if m == "" {
		return &ResolutionError{Ref: req.String(), Output: res.Stdout, Err: fmt.Errorf("cannot determine %s version", req.Ref.Path)}
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return &ResolutionError{Ref: req.String(), Err: err}
	}
	if !constraint.Check(v) {
		return &ResolutionError{Ref: req.String(), Err: fmt.Errorf("%s %s does not satisfy %s", req.Ref.Path, v, constraint)}
	}
	log.Debugf("found %s %s (%s)", req.Ref.Path, v, constraint)
	return nil
}
