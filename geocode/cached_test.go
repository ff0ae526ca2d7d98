// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mkells/solarmap/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGeocoder records how often the network path is taken.
type countingGeocoder struct {
	calls  int
	points map[string]spatial.Point
}

func (g *countingGeocoder) Resolve(_ context.Context, location string) (spatial.Point, error) {
	g.calls++

	point, ok := g.points[location]
	if !ok {
		return spatial.Point{}, &NotFoundError{Location: location}
	}

	return point, nil
}

func TestCachedGeocoder_SecondResolveServedFromCache(t *testing.T) {
	inner := &countingGeocoder{points: map[string]spatial.Point{
		"London, UK": {Lat: 51.5, Lng: -0.1},
	}}
	cached := NewCachedGeocoder(inner, "", testLogger())
	defer cached.Close()

	p1, err := cached.Resolve(context.Background(), "London, UK")
	require.NoError(t, err)

	p2, err := cached.Resolve(context.Background(), "London, UK")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, inner.calls, "second resolve must not reach the inner geocoder")

	stats := cached.CacheStats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Stored)
}

func TestCachedGeocoder_DistinctKeysEachResolve(t *testing.T) {
	inner := &countingGeocoder{points: map[string]spatial.Point{
		"London, UK": {Lat: 51.5, Lng: -0.1},
		"london, uk": {Lat: 51.5, Lng: -0.1},
	}}
	cached := NewCachedGeocoder(inner, "", testLogger())
	defer cached.Close()

	// Keys are exact: casing differences are separate lookups.
	_, err := cached.Resolve(context.Background(), "London, UK")
	require.NoError(t, err)
	_, err = cached.Resolve(context.Background(), "london, uk")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_FailureNotCached(t *testing.T) {
	inner := &countingGeocoder{points: map[string]spatial.Point{}}
	cached := NewCachedGeocoder(inner, "", testLogger())
	defer cached.Close()

	_, err := cached.Resolve(context.Background(), "NoSuchPlace")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = cached.Resolve(context.Background(), "NoSuchPlace")
	require.Error(t, err)

	// Not-found responses are retried, not memoized.
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.CacheStats().Stored)
}

func TestCachedGeocoder_PersistsAcrossClients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocache.db")

	inner := &countingGeocoder{points: map[string]spatial.Point{
		"Site A": {Lat: 12.0, Lng: 34.0},
	}}

	first := NewCachedGeocoder(inner, path, testLogger())

	point, err := first.Resolve(context.Background(), "Site A")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// A fresh client over the same file resolves without any network call.
	second := NewCachedGeocoder(inner, path, testLogger())
	defer second.Close()

	got, err := second.Resolve(context.Background(), "Site A")
	require.NoError(t, err)

	assert.Equal(t, point, got)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, second.CacheStats().Hits)
}

func TestCachedGeocoder_LazyOpen(t *testing.T) {
	// The backing file must not exist until the first resolve.
	path := filepath.Join(t.TempDir(), "geocache.db")

	inner := &countingGeocoder{points: map[string]spatial.Point{"a": {Lat: 1}}}
	cached := NewCachedGeocoder(inner, path, testLogger())
	defer cached.Close()

	assert.Nil(t, cached.cache)

	_, err := cached.Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.NotNil(t, cached.cache)
}

func TestCachedGeocoder_InnerErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	cached := NewCachedGeocoder(failingGeocoder{err: sentinel}, "", testLogger())
	defer cached.Close()

	_, err := cached.Resolve(context.Background(), "anywhere")
	require.ErrorIs(t, err, sentinel)
}

type failingGeocoder struct{ err error }

func (g failingGeocoder) Resolve(context.Context, string) (spatial.Point, error) {
	return spatial.Point{}, g.err
}
