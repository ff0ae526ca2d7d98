// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/mkells/solarmap/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
