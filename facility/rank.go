// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"cmp"
	"math"
	"slices"

	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
)

type dedupKey struct {
	name     string
	lat, lng float64
}

// roundKm rounds to one decimal place.
func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// Rank annotates candidates with their distance from origin, drops those
// beyond MaxDistanceKm, keeps the first of every (name, lat, lng) duplicate
// and sorts by type priority then distance. Ties keep input order.
//
// candidates is not modified.
func Rank(origin spatial.Point, candidates []Facility) []Facility {
	seen := make(map[dedupKey]struct{}, len(candidates))
	ranked := make([]Facility, 0, len(candidates))

	for _, c := range candidates {
		km := spatial.DistanceKm(origin, c.Point)
		if !(km <= MaxDistanceKm) {
			continue
		}

		key := dedupKey{name: c.Name, lat: c.Point.Lat, lng: c.Point.Lng}
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		c.DistanceKm = roundKm(km)
		ranked = append(ranked, c)
	}

	slices.SortStableFunc(ranked, func(a, b Facility) int {
		if p := cmp.Compare(a.Type.Priority(), b.Type.Priority()); p != 0 {
			return p
		}

		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	return ranked
}

// FromElements normalizes elements and ranks the usable ones around origin.
func FromElements(origin spatial.Point, elements []overpass.Element) []Facility {
	candidates := make([]Facility, 0, len(elements))

	for _, e := range elements {
		if f, ok := Normalize(e); ok {
			candidates = append(candidates, f)
		}
	}

	return Rank(origin, candidates)
}
