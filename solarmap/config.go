// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package solarmap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkells/solarmap/geocode"
	"github.com/mkells/solarmap/mapgen"
	"github.com/mkells/solarmap/swis"
)

// Default marker icons, relative to the rendered artifact.
const (
	DefaultOKIcon    = "markers/green.png"
	DefaultAlertIcon = "markers/red.png"
)

// NodeSource yields monitored-node location rows. Satisfied by *swis.Client.
type NodeSource interface {
	NodeLocations(ctx context.Context, locationField string) ([]swis.NodeLocation, error)
}

// ConfigurationError reports every missing or invalid required setting at
// once. It is fatal: nothing runs until the configuration is complete.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// Config assembles a SolarMap pipeline.
type Config struct {
	// Source provides node location rows. Required.
	Source NodeSource

	// Geocoder resolves location strings to coordinates. Required.
	Geocoder geocode.Geocoder

	// Logger receives per-row failures and progress events. Required; no
	// ambient logger is consulted.
	Logger *slog.Logger

	// CenterLocation is the address the map is centered on. Required; it is
	// geocoded when the pipeline is built, so a bad value fails fast.
	CenterLocation string

	// Zoom is the initial map zoom level. Required, must be positive.
	Zoom int

	// LocationField names the Orion custom property holding the node
	// location. Required.
	LocationField string

	// OutputFile is the rendered artifact path. Defaults to map.html.
	OutputFile string

	// OKIcon and AlertIcon override the marker images.
	OKIcon    string
	AlertIcon string

	// MergeResolution enables collapsing markers that share an H3 cell at
	// this resolution. Zero disables merging.
	MergeResolution int

	// Progress enables a progress bar on stderr when it is a terminal.
	Progress bool
}

// validate aggregates every missing field into one ConfigurationError and
// fills in defaults.
func (c *Config) validate() error {
	var missing []string

	if c.Source == nil {
		missing = append(missing, "source")
	}

	if c.Geocoder == nil {
		missing = append(missing, "geocoder")
	}

	if c.Logger == nil {
		missing = append(missing, "logger")
	}

	if c.CenterLocation == "" {
		missing = append(missing, "center location")
	}

	if c.Zoom <= 0 {
		missing = append(missing, "zoom level")
	}

	if c.LocationField == "" {
		missing = append(missing, "location field")
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	if c.OutputFile == "" {
		c.OutputFile = mapgen.DefaultOutputFile
	}

	if c.OKIcon == "" {
		c.OKIcon = DefaultOKIcon
	}

	if c.AlertIcon == "" {
		c.AlertIcon = DefaultAlertIcon
	}

	return nil
}
