// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkells/solarmap/geocache"
	"github.com/mkells/solarmap/utils"
)

const cacheExportFile = "geocache.json"

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the geocoding cache",
}

func openCacheFromSettings() (*geocache.Cache, error) {
	settings, err := loadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	return geocache.Open(settings.Geocoding.CachePath)
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached resolutions",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cache, err := openCacheFromSettings()
		if err != nil {
			return err
		}
		defer cache.Close()

		n, err := cache.Count()
		if err != nil {
			return err
		}

		fmt.Printf("Cached locations: %s\n", utils.FormatInt(int64(n)))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached locations and their coordinates",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cache, err := openCacheFromSettings()
		if err != nil {
			return err
		}
		defer cache.Close()

		entries, err := cache.Entries()
		if err != nil {
			return err
		}

		a, b, c := strings.Repeat("─", 40), strings.Repeat("─", 12), strings.Repeat("─", 12)
		fmt.Printf("╭─%-40s─┬─%-12s─┬─%-12s╮\n", a, b, c)
		fmt.Printf("│ %-40s │ %12s │ %12s│\n", "Location", "Latitude", "Longitude")
		fmt.Printf("├─%-40s─┼─%-12s─┼─%-12s┤\n", a, b, c)

		for _, e := range entries {
			fmt.Printf("│ %-40.40s │ %12.7f │ %12.7f│\n", e.Location, e.Point.Lat, e.Point.Lng)
		}

		fmt.Printf("╰─%-40s─┴─%-12s─┴─%-12s╯\n", a, b, c)

		return nil
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached resolutions to a JSON file",
	Long:  `Exports all cached location resolutions to a local JSON file, sorted by location to minimize diffs when checking into version control.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cache, err := openCacheFromSettings()
		if err != nil {
			return err
		}
		defer cache.Close()

		entries, err := cache.Entries()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling cache entries: %w", err)
		}

		if err := os.WriteFile(cacheExportFile, data, 0o600); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}

		fmt.Printf("✅ Exported %s cached locations to %s\n",
			utils.FormatInt(int64(len(entries))), cacheExportFile)

		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	rootCmd.AddCommand(cacheCmd)
}
