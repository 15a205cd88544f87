// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/hemoloc/hemoloc/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
