// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mkells/solarmap/solarmap"
	"github.com/mkells/solarmap/utils"
)

var generateProgress bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Query node locations and generate the map artifact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		settings, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}

		logger := settings.buildLogger()

		pipeline, geocoder, err := buildPipeline(ctx, settings, logger, generateProgress)
		if err != nil {
			var cfgErr *solarmap.ConfigurationError
			if errors.As(err, &cfgErr) {
				log.Printf("configuration error: %v", cfgErr)
			}

			return err
		}
		defer geocoder.Close()

		metrics, err := pipeline.Generate(ctx)
		if err != nil {
			return err
		}

		stats := geocoder.CacheStats()

		fmt.Printf("✅ Plotted %s markers from %s locations (%s skipped, %s merged)\n",
			utils.FormatInt(int64(metrics.Plotted)),
			utils.FormatInt(int64(metrics.Rows)),
			utils.FormatInt(int64(metrics.Skipped)),
			utils.FormatInt(int64(metrics.Merged)))
		fmt.Printf("   Geocache: %s hits, %s lookups\n",
			utils.FormatInt(int64(stats.Hits)),
			utils.FormatInt(int64(stats.Misses)))

		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateProgress, "progress", true,
		"show a progress bar while geocoding")
	rootCmd.AddCommand(generateCmd)
}
