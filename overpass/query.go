// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package overpass talks to the OpenStreetMap Overpass API: it builds the
// facility query around a point and decodes the interpreter response.
package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hemoloc/hemoloc/spatial"
)

const (
	// DefaultEndpoint is the public Overpass interpreter.
	DefaultEndpoint = "https://overpass-api.de/api/interpreter"

	// SearchRadiusMeters bounds the `around` filter of the query. It is the
	// fetch radius; results are filtered again client side by straight-line
	// distance, see facility.MaxDistanceKm.
	SearchRadiusMeters = 15000

	// serverTimeoutSeconds is the interpreter-side execution limit.
	serverTimeoutSeconds = 25
)

// TagFilter is a key=value equality filter on feature tags.
type TagFilter struct {
	Key   string
	Value string
}

func (f TagFilter) String() string {
	return fmt.Sprintf("[%s=%s]", f.Key, f.Value)
}

// FacilityFilters are the tag combinations a donation facility may carry.
var FacilityFilters = []TagFilter{
	{Key: "amenity", Value: "blood_donation"},
	{Key: "healthcare", Value: "blood_donation"},
	{Key: "amenity", Value: "hospital"},
	{Key: "healthcare", Value: "clinic"},
}

var featureKinds = []string{"node", "way", "relation"}

// BuildQuery returns the Overpass QL query for every facility within
// SearchRadiusMeters of p. Areas are reported by their centroid and every
// match carries all of its tags.
func BuildQuery(p spatial.Point) string {
	around := fmt.Sprintf("(around:%d,%s,%s)",
		SearchRadiusMeters,
		strconv.FormatFloat(p.Lat, 'f', -1, 64),
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
	)

	var sb strings.Builder

	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n(\n", serverTimeoutSeconds)

	for _, filter := range FacilityFilters {
		for _, kind := range featureKinds {
			sb.WriteString("  ")
			sb.WriteString(kind)
			sb.WriteString(around)
			sb.WriteString(filter.String())
			sb.WriteString(";\n")
		}
	}

	sb.WriteString(");\nout center tags;\n")

	return sb.String()
}
