// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkells/solarmap/swis"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the SolarWinds server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}

		if err := settings.validateSolarWinds(); err != nil {
			return err
		}

		logger := settings.buildLogger()

		client := swis.NewClient(&swis.Options{
			Hostname:           settings.SolarWinds.Hostname,
			Username:           settings.SolarWinds.Username,
			Password:           settings.SolarWinds.Password,
			InsecureSkipVerify: settings.SolarWinds.InsecureSkipVerify,
		}, logger)

		up, err := client.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("querying %s: %w", settings.SolarWinds.Hostname, err)
		}

		if !up {
			return fmt.Errorf("%s answered but reported an unexpected state", settings.SolarWinds.Hostname)
		}

		fmt.Printf("✅ %s is up\n", settings.SolarWinds.Hostname)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
