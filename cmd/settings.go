// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkells/solarmap/geocode"
	"github.com/mkells/solarmap/solarmap"
	"github.com/mkells/solarmap/swis"
)

const (
	defaultSettingsFile = "settings.yaml"
	defaultCachePath    = "geocache.db"
	defaultTimeout      = 10 * time.Second
)

// Settings is the file-based configuration. Secrets may also come from the
// environment: SOLARWINDS_PASSWORD and GOOGLE_MAPS_API_KEY override the file.
type Settings struct {
	SolarWinds struct {
		Hostname           string `yaml:"hostname"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		LocationField      string `yaml:"location_field"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"solarwinds"`

	Map struct {
		CenterLocation  string `yaml:"center_location"`
		Zoom            int    `yaml:"zoom"`
		OutputFile      string `yaml:"output_file"`
		OKIcon          string `yaml:"ok_icon"`
		AlertIcon       string `yaml:"alert_icon"`
		MergeResolution int    `yaml:"merge_resolution"`
	} `yaml:"map"`

	Geocoding struct {
		APIKey    string `yaml:"api_key"`
		CachePath string `yaml:"cache_path"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"geocoding"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// loadSettings reads the yaml settings file and applies environment
// overrides and defaults. A missing file is only an error when it was named
// explicitly; with the default name an empty Settings is returned so cache
// inspection works without one.
func loadSettings(path string) (*Settings, error) {
	settings := &Settings{}

	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	switch {
	case errors.Is(err, os.ErrNotExist) && path == defaultSettingsFile:
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("reading settings file: %w", err)
	default:
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if v := os.Getenv("SOLARWINDS_PASSWORD"); v != "" {
		settings.SolarWinds.Password = v
	}

	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		settings.Geocoding.APIKey = v
	}

	if settings.SolarWinds.LocationField == "" {
		settings.SolarWinds.LocationField = "City"
	}

	if settings.Geocoding.CachePath == "" {
		settings.Geocoding.CachePath = defaultCachePath
	}

	return settings, nil
}

// geocodeTimeout parses the configured geocoding timeout.
func (s *Settings) geocodeTimeout() (time.Duration, error) {
	if s.Geocoding.Timeout == "" {
		return defaultTimeout, nil
	}

	timeout, err := time.ParseDuration(s.Geocoding.Timeout)
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("invalid geocoding timeout %q", s.Geocoding.Timeout)
	}

	return timeout, nil
}

// validateSolarWinds checks the fields every Orion-touching command needs.
func (s *Settings) validateSolarWinds() error {
	var missing []string

	if s.SolarWinds.Hostname == "" {
		missing = append(missing, "solarwinds hostname")
	}

	if s.SolarWinds.Username == "" {
		missing = append(missing, "solarwinds username")
	}

	if s.SolarWinds.Password == "" {
		missing = append(missing, "solarwinds password")
	}

	if len(missing) > 0 {
		return &solarmap.ConfigurationError{Missing: missing}
	}

	return nil
}

// buildLogger creates the injected logger from the configured level.
func (s *Settings) buildLogger() *slog.Logger {
	level := slog.LevelInfo

	switch strings.ToLower(s.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildPipeline wires the SWIS source, the cached Google geocoder and the
// orchestrator from settings. The returned geocoder owns the cache handle;
// callers close it when done.
func buildPipeline(ctx context.Context, settings *Settings, logger *slog.Logger, progress bool) (*solarmap.SolarMap, *geocode.CachedGeocoder, error) {
	if err := settings.validateSolarWinds(); err != nil {
		return nil, nil, err
	}

	timeout, err := settings.geocodeTimeout()
	if err != nil {
		return nil, nil, err
	}

	source := swis.NewClient(&swis.Options{
		Hostname:           settings.SolarWinds.Hostname,
		Username:           settings.SolarWinds.Username,
		Password:           settings.SolarWinds.Password,
		InsecureSkipVerify: settings.SolarWinds.InsecureSkipVerify,
	}, logger)

	apiKey := settings.Geocoding.APIKey
	if apiKey == "" {
		apiKey, err = geocode.ResolveAPIKey(ctx, logger)
		if err != nil {
			// Keyless requests are still accepted for low volumes; the
			// provider just throttles them sooner.
			logger.Warn("no Google Maps API key available, continuing without one", "error", err)

			apiKey = ""
		}
	}

	google := geocode.NewGoogleClient(apiKey, timeout, logger)
	cached := geocode.NewCachedGeocoder(google, settings.Geocoding.CachePath, logger)

	pipeline, err := solarmap.New(ctx, solarmap.Config{
		Source:          source,
		Geocoder:        cached,
		Logger:          logger,
		CenterLocation:  settings.Map.CenterLocation,
		Zoom:            settings.Map.Zoom,
		LocationField:   settings.SolarWinds.LocationField,
		OutputFile:      settings.Map.OutputFile,
		OKIcon:          settings.Map.OKIcon,
		AlertIcon:       settings.Map.AlertIcon,
		MergeResolution: settings.Map.MergeResolution,
		Progress:        progress,
	})
	if err != nil {
		_ = cached.Close()

		return nil, nil, err
	}

	return pipeline, cached, nil
}
