// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatInt formats an integer with thousands separators for human-readable
// CLI output.
func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}
