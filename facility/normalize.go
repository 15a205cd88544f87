// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"strconv"
	"strings"

	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
)

// Normalize converts an element into a Facility without distance. It reports
// false when the element has no usable coordinate.
func Normalize(e overpass.Element) (Facility, bool) {
	point, ok := ElementPoint(e)
	if !ok {
		return Facility{}, false
	}

	name := Name(e.Tags)

	return Facility{
		ID:      strconv.FormatInt(e.ID, 10),
		Name:    name,
		Type:    Classify(name, e.Tags),
		Address: Address(e.Tags),
		Point:   point,
	}, true
}

// ElementPoint prefers the element's own coordinate and falls back to the
// centroid reported for ways and relations.
func ElementPoint(e overpass.Element) (spatial.Point, bool) {
	if e.Lat != nil && e.Lon != nil {
		return spatial.Point{Lat: *e.Lat, Lng: *e.Lon}, true
	}

	if e.Center != nil && e.Center.Lat != nil && e.Center.Lon != nil {
		return spatial.Point{Lat: *e.Center.Lat, Lng: *e.Center.Lon}, true
	}

	return spatial.Point{}, false
}

// Name returns the trimmed name tag or DefaultName.
func Name(tags map[string]string) string {
	if name := strings.TrimSpace(tags["name"]); name != "" {
		return name
	}

	return DefaultName
}

// first returns the first non-blank value among keys.
func first(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}

	return ""
}

// joinPresent joins the non-empty parts with sep.
func joinPresent(sep string, parts ...string) string {
	var present []string

	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}

	return strings.Join(present, sep)
}

// Address composes a one-line address from OSM addr:* tags:
//
//	street, number - suburb, city, state
//
// Missing fragments are left out. DefaultAddress is returned when none is set.
func Address(tags map[string]string) string {
	street := joinPresent(", ",
		first(tags, "addr:street", "street"),
		first(tags, "addr:housenumber"),
	)
	locality := joinPresent(", ",
		first(tags, "addr:suburb", "addr:neighbourhood"),
		first(tags, "addr:city", "addr:town", "addr:village"),
		first(tags, "addr:state"),
	)

	if address := joinPresent(" - ", street, locality); address != "" {
		return address
	}

	return DefaultAddress
}
