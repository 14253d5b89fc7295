// Copyright 2024 The brecipe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command brecipe builds, packages and verifies the bayesnet library.
package main

import "github.com/bayesnet/brecipe/cmd/brecipe/internal"

func main() {
	internal.Execute()
}
