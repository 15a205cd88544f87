// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves a free-text address into the origin point of a
// facility search.
package geocode

import (
	"context"
	"errors"

	"github.com/hemoloc/hemoloc/spatial"
)

// Common errors returned by geocoders.
var (
	ErrNoResult      = errors.New("no geocoding result")
	ErrQuotaExceeded = errors.New("geocoding quota exceeded")
	ErrDenied        = errors.New("geocoding request denied")
)

// Result is a geocoded address.
type Result struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder resolves addresses.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}
