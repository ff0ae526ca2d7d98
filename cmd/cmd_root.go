// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVarP(&settingsPath, "config", "c", defaultSettingsFile,
		"path to the settings file")
}

var settingsPath string

var rootCmd = &cobra.Command{
	Use:   "solarmap",
	Short: "plot SolarWinds node locations on a map",
	Long: `
solarmap queries a SolarWinds Orion server for monitored node locations and
their statuses, geocodes each location (caching every resolution in a local
database so repeated runs stay cheap), and renders the result as an HTML map.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
