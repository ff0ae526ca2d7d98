// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewGoogleClient("test-key", 5*time.Second, testLogger())
	client.baseURL = srv.URL

	return client
}

func TestGoogleClient_Resolve(t *testing.T) {
	var gotQuery string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"geometry": {"location": {"lat": 51.5, "lng": -0.1}}},
				{"geometry": {"location": {"lat": 99.9, "lng": 99.9}}}
			]
		}`))
	})

	point, err := client.Resolve(context.Background(), "London, UK")
	require.NoError(t, err)

	assert.Equal(t, "London, UK", gotQuery)
	// Only the first result is used.
	assert.Equal(t, 51.5, point.Lat)
	assert.Equal(t, -0.1, point.Lng)
}

func TestGoogleClient_ResolveSendsAPIKey(t *testing.T) {
	var gotKey string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"status": "OK", "results": [{"geometry": {"location": {"lat": 1, "lng": 2}}}]}`))
	})

	_, err := client.Resolve(context.Background(), "anywhere")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
}

func TestGoogleClient_ZeroResultsIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := client.Resolve(context.Background(), "NoSuchPlace")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsTransport(err))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "NoSuchPlace", notFound.Location)
	assert.ErrorContains(t, notFound.Err, "ZERO_RESULTS")
}

func TestGoogleClient_HTTPErrorIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Resolve(context.Background(), "anywhere")
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.StatusTooManyRequests, transport.StatusCode)
}

func TestGoogleClient_MalformedBodyIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Resolve(context.Background(), "anywhere")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestGoogleClient_ConnectionRefusedIsTransport(t *testing.T) {
	client := NewGoogleClient("", time.Second, testLogger())
	client.baseURL = "http://127.0.0.1:1"

	_, err := client.Resolve(context.Background(), "anywhere")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestSkippable(t *testing.T) {
	assert.True(t, Skippable(&NotFoundError{Location: "x"}))
	assert.True(t, Skippable(&TransportError{Op: "request"}))
	assert.False(t, Skippable(context.Canceled))
	assert.False(t, Skippable(nil))
}
