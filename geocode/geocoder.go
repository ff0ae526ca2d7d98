// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves free-text location strings to coordinates using
// the Google Maps Geocoding API, with durable caching of every successful
// resolution.
package geocode

import (
	"context"

	"github.com/mkells/solarmap/spatial"
)

// Geocoder resolves a location string to a coordinate.
//
// A failed resolution is one of two typed errors: *NotFoundError when the
// provider returns zero results for the query, and *TransportError when the
// request itself fails (network, HTTP status, malformed body).
type Geocoder interface {
	Resolve(ctx context.Context, location string) (spatial.Point, error)
}
