// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package swis is a client for the SolarWinds Information Service v3 JSON
// API, exposed by Orion servers on port 17778.
package swis

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Options configures the SWIS client.
type Options struct {
	// Hostname of the Orion server, without scheme or port.
	Hostname string

	Username string
	Password string

	// InsecureSkipVerify disables TLS certificate verification. Orion
	// appliances commonly ship a self-signed certificate on port 17778.
	InsecureSkipVerify bool

	// Timeout for each request. Defaults to 30s.
	Timeout time.Duration
}

// Client issues SWQL queries against the Information Service.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NodeLocation is one monitored-node row: the free-text location custom
// property and the highest status observed for nodes at that location.
type NodeLocation struct {
	Location string `json:"Location"`
	Status   int    `json:"Status"`
}

// NewClient creates a SWIS client for the given server.
func NewClient(opts *Options, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var transport http.RoundTripper
	if opts.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 - operator opts in for self-signed Orion certs
		}
	}

	return &Client{
		baseURL:  fmt.Sprintf("https://%s:17778/SolarWinds/InformationService/v3/Json/", opts.Hostname),
		username: opts.Username,
		password: opts.Password,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

type queryRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
}

func (c *Client) query(ctx context.Context, swql string, params map[string]any, out any) error {
	if params == nil {
		params = map[string]any{}
	}

	body, err := json.Marshal(queryRequest{Query: swql, Parameters: params})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"Query", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	c.logger.Debug("swis query", "swql", swql)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying information service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("information service returned status %d: %s", resp.StatusCode, detail)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding query results: %w", err)
	}

	return nil
}

// NodeLocations returns the distinct node locations and the highest node
// status per location. The location lives in a configurable custom property
// field on Orion.Nodes.
func (c *Client) NodeLocations(ctx context.Context, locationField string) ([]NodeLocation, error) {
	swql := fmt.Sprintf(
		"SELECT DISTINCT Nodes.CustomProperties.%s AS Location, MAX(Nodes.Status) AS Status "+
			"FROM Orion.Nodes GROUP BY Nodes.CustomProperties.%s",
		locationField, locationField,
	)

	var result struct {
		Results []NodeLocation `json:"results"`
	}

	if err := c.query(ctx, swql, nil, &result); err != nil {
		return nil, fmt.Errorf("fetching node locations: %w", err)
	}

	return result.Results, nil
}

// Status probes the server with a trivial query and reports whether it
// answered sensibly.
func (c *Client) Status(ctx context.Context) (bool, error) {
	var result struct {
		Results []struct {
			WebsiteID int `json:"WebsiteID"`
		} `json:"results"`
	}

	if err := c.query(ctx, "SELECT WebsiteID FROM Orion.Websites", nil, &result); err != nil {
		return false, err
	}

	return len(result.Results) > 0 && result.Results[0].WebsiteID == 1, nil
}
