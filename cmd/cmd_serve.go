// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mkells/solarmap/mapgen"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline once and serve the map over HTTP (local only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		settings, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}

		logger := settings.buildLogger()

		pipeline, geocoder, err := buildPipeline(ctx, settings, logger, false)
		if err != nil {
			return err
		}
		defer geocoder.Close()

		markers, metrics, err := pipeline.CollectMarkers(ctx)
		if err != nil {
			return err
		}

		m := mapgen.New(pipeline.Center(), pipeline.Zoom())
		for _, marker := range markers {
			m.AddMarker(marker)
		}

		var page bytes.Buffer
		if err := m.Render(&page); err != nil {
			return err
		}

		r := gin.Default()

		r.GET("/", func(ctx *gin.Context) {
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
		})

		r.GET("/api/markers", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, markers)
		})

		r.GET("/api/metrics", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, metrics)
		})

		r.GET("/api/cache", func(ctx *gin.Context) {
			cache, err := geocoder.Cache()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

				return
			}

			entries, err := cache.Entries()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

				return
			}

			ctx.JSON(http.StatusOK, entries)
		})

		fmt.Println("🗺️  Map server starting...")
		fmt.Printf("📍 Open http://%s in your browser\n", serveAddr)
		fmt.Println("🔒 Local only - not exposed to internet")

		return r.Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
