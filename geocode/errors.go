// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the geocoding provider returned zero results for a
// location string. It carries the original query so callers can report which
// row was skipped.
type NotFoundError struct {
	Location string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no geocoding results for %q: %v", e.Location, e.Err)
	}

	return fmt.Sprintf("no geocoding results for %q", e.Location)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// TransportError wraps network, HTTP-status and response-decoding failures
// from the geocoding endpoint, so callers can treat them as a per-row skip
// instead of a crash.
type TransportError struct {
	Op         string // "request", "status" or "decode"
	StatusCode int    // non-zero for Op == "status"
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("geocoding %s failed: HTTP %d", e.Op, e.StatusCode)
	}

	return fmt.Sprintf("geocoding %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a zero-results geocoding failure.
func IsNotFound(err error) bool {
	var notFound *NotFoundError

	return errors.As(err, &notFound)
}

// IsTransport reports whether err is a transport-level geocoding failure.
func IsTransport(err error) bool {
	var transport *TransportError

	return errors.As(err, &transport)
}

// Skippable reports whether err is a per-row failure the caller should log
// and skip rather than abort on.
func Skippable(err error) bool {
	return IsNotFound(err) || IsTransport(err)
}
