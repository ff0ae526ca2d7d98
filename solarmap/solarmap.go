// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package solarmap drives the pipeline: fetch node locations from the
// monitoring server, resolve each through the cached geocoder, and plot the
// results as map markers.
package solarmap

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/uber/h3-go/v4"

	"github.com/mkells/solarmap/geocode"
	"github.com/mkells/solarmap/mapgen"
	"github.com/mkells/solarmap/spatial"
)

// Metrics collects counters from one pipeline run.
type Metrics struct {
	// Rows fetched from the monitoring source.
	Rows int

	// Plotted markers (after any merging).
	Plotted int

	// Skipped rows whose location could not be resolved.
	Skipped int

	// Merged markers collapsed into a same-cell neighbour.
	Merged int
}

// SolarMap is the assembled pipeline.
type SolarMap struct {
	cfg    Config
	center spatial.Point
}

// New validates the configuration and geocodes the center location. A
// *ConfigurationError lists everything missing; a center that cannot be
// geocoded fails construction as well, so no half-initialized pipeline is
// ever returned.
func New(ctx context.Context, cfg Config) (*SolarMap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	center, err := cfg.Geocoder.Resolve(ctx, cfg.CenterLocation)
	if err != nil {
		return nil, fmt.Errorf("geocoding center location %q: %w", cfg.CenterLocation, err)
	}

	return &SolarMap{cfg: cfg, center: center}, nil
}

// Center returns the resolved center coordinate.
func (s *SolarMap) Center() spatial.Point {
	return s.center
}

// Zoom returns the configured zoom level.
func (s *SolarMap) Zoom() int {
	return s.cfg.Zoom
}

// CollectMarkers fetches the node rows and resolves each one sequentially.
// Rows whose location cannot be geocoded (no results, transport failure) are
// logged and skipped; any other failure aborts the run.
func (s *SolarMap) CollectMarkers(ctx context.Context) ([]mapgen.Marker, *Metrics, error) {
	rows, err := s.cfg.Source.NodeLocations(ctx, s.cfg.LocationField)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching node locations: %w", err)
	}

	metrics := &Metrics{Rows: len(rows)}

	var bar *progressbar.ProgressBar
	if s.cfg.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(rows),
			progressbar.OptionSetDescription("Geocoding node locations"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	markers := make([]mapgen.Marker, 0, len(rows))

	for _, row := range rows {
		if bar != nil {
			_ = bar.Add(1)
		}

		point, err := s.cfg.Geocoder.Resolve(ctx, row.Location)
		if err != nil {
			if geocode.Skippable(err) {
				s.cfg.Logger.Error("skipping location", "location", row.Location, "error", err)
				metrics.Skipped++

				continue
			}

			return nil, nil, fmt.Errorf("resolving %q: %w", row.Location, err)
		}

		markers = append(markers, mapgen.Marker{
			Point:    point,
			Title:    row.Location,
			IconPath: s.statusIcon(row.Status),
		})
	}

	if s.cfg.MergeResolution > 0 {
		markers = s.mergeMarkers(markers, metrics)
	}

	metrics.Plotted = len(markers)

	return markers, metrics, nil
}

// Generate runs the full pipeline and writes the map artifact.
func (s *SolarMap) Generate(ctx context.Context) (*Metrics, error) {
	markers, metrics, err := s.CollectMarkers(ctx)
	if err != nil {
		return nil, err
	}

	m := mapgen.New(s.center, s.cfg.Zoom)
	for _, marker := range markers {
		m.AddMarker(marker)
	}

	if err := m.WriteFile(s.cfg.OutputFile); err != nil {
		return nil, err
	}

	s.cfg.Logger.Info("map generated",
		"output", s.cfg.OutputFile,
		"markers", metrics.Plotted,
		"skipped", metrics.Skipped,
	)

	return metrics, nil
}

// Orion status codes: 1 = Up and 9 = Unmanaged are shown as healthy;
// everything else (0 = Unknown, 2 = Down, 3 = Warning, ...) is an alert.
func (s *SolarMap) statusIcon(status int) string {
	if status == 1 || status == 9 {
		return s.cfg.OKIcon
	}

	return s.cfg.AlertIcon
}

// mergeMarkers collapses markers whose coordinates fall into the same H3
// cell at the configured resolution. Titles are joined; an alert icon wins
// over a healthy one.
func (s *SolarMap) mergeMarkers(markers []mapgen.Marker, metrics *Metrics) []mapgen.Marker {
	seen := make(map[h3.Cell]int, len(markers))
	out := make([]mapgen.Marker, 0, len(markers))

	for _, marker := range markers {
		cell, err := marker.Point.H3Cell(s.cfg.MergeResolution)
		if err != nil {
			s.cfg.Logger.Warn("h3 cell lookup failed, keeping marker unmerged",
				"title", marker.Title, "error", err)

			out = append(out, marker)

			continue
		}

		if i, ok := seen[cell]; ok {
			out[i].Title += " / " + marker.Title
			if marker.IconPath == s.cfg.AlertIcon {
				out[i].IconPath = s.cfg.AlertIcon
			}

			metrics.Merged++

			continue
		}

		seen[cell] = len(out)
		out = append(out, marker)
	}

	return out
}
