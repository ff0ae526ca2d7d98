// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mkells/solarmap/spatial"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleClient geocodes using the Google Maps Geocoding API. Requests are
// synchronous GETs with no retries or rate limiting.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGoogleClient creates a Google Maps geocoding client.
func NewGoogleClient(apiKey string, timeout time.Duration, logger *slog.Logger) *GoogleClient {
	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type googleResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
}

// coordinate extracts the first result's coordinate. The boolean reports
// whether any result was present.
func (r *googleResponse) coordinate() (spatial.Point, bool) {
	if len(r.Results) == 0 {
		return spatial.Point{}, false
	}

	loc := r.Results[0].Geometry.Location

	return spatial.Point{Lat: loc.Lat, Lng: loc.Lng}, true
}

// Resolve fetches the coordinate for a location string. Only the first
// result is used.
func (g *GoogleClient) Resolve(ctx context.Context, location string) (spatial.Point, error) {
	params := url.Values{}
	params.Set("address", location)

	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return spatial.Point{}, &TransportError{Op: "request", Err: err}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return spatial.Point{}, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return spatial.Point{}, &TransportError{
			Op:         "status",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("google maps returned status %d", resp.StatusCode),
		}
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return spatial.Point{}, &TransportError{Op: "decode", Err: err}
	}

	point, found := gr.coordinate()
	if !found {
		g.logger.Warn("geocoding returned no results", "location", location, "status", gr.Status)

		return spatial.Point{}, &NotFoundError{
			Location: location,
			Err:      fmt.Errorf("google maps status %q", gr.Status),
		}
	}

	return point, nil
}
