// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkells/solarmap/geocache"
	"github.com/mkells/solarmap/spatial"
)

// Stats counts cache behaviour across a run.
type Stats struct {
	Hits   int
	Misses int
	Stored int
}

// CachedGeocoder decorates a Geocoder with the durable location cache.
// The cache file is opened (and created if absent) on the first resolve and
// stays open for the process lifetime. Resolution is strictly sequential:
// fetch, and only on a miss query the inner geocoder and store the result.
type CachedGeocoder struct {
	inner     Geocoder
	cachePath string
	cache     *geocache.Cache
	logger    *slog.Logger
	stats     Stats
}

// NewCachedGeocoder creates the cache decorator. The cache at cachePath is
// not opened until the first Resolve call.
func NewCachedGeocoder(inner Geocoder, cachePath string, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		inner:     inner,
		cachePath: cachePath,
		logger:    logger,
	}
}

// Resolve returns the cached coordinate for location if present, otherwise
// resolves through the inner geocoder and durably stores the result before
// returning it. Failed resolutions are never cached, so they are retried on
// the next run.
func (c *CachedGeocoder) Resolve(ctx context.Context, location string) (spatial.Point, error) {
	if c.cache == nil {
		cache, err := geocache.Open(c.cachePath)
		if err != nil {
			return spatial.Point{}, fmt.Errorf("opening geocache at %s: %w", c.cachePath, err)
		}

		c.cache = cache
	}

	point, found, err := c.cache.Fetch(location)
	if err != nil {
		return spatial.Point{}, err
	}

	if found {
		c.stats.Hits++
		c.logger.Debug("geocache hit", "location", location, "point", point)

		return point, nil
	}

	c.stats.Misses++

	point, err = c.inner.Resolve(ctx, location)
	if err != nil {
		return spatial.Point{}, err
	}

	if err := c.cache.Store(location, point); err != nil {
		return spatial.Point{}, err
	}

	c.stats.Stored++
	c.logger.Debug("geocache store", "location", location, "point", point)

	return point, nil
}

// CacheStats returns hit/miss/store counters accumulated so far.
func (c *CachedGeocoder) CacheStats() Stats {
	return c.stats
}

// Cache exposes the underlying cache handle, opening it if needed. Used by
// the CLI for inspection commands.
func (c *CachedGeocoder) Cache() (*geocache.Cache, error) {
	if c.cache == nil {
		cache, err := geocache.Open(c.cachePath)
		if err != nil {
			return nil, fmt.Errorf("opening geocache at %s: %w", c.cachePath, err)
		}

		c.cache = cache
	}

	return c.cache, nil
}

// Close releases the cache handle if it was opened.
func (c *CachedGeocoder) Close() error {
	if c.cache == nil {
		return nil
	}

	return c.cache.Close()
}
