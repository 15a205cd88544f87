// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package facility turns raw Overpass elements into the ranked list of
// blood-donation facilities shown to donors.
package facility

import (
	"github.com/hemoloc/hemoloc/spatial"
)

// MaxDistanceKm is the straight-line cut-off applied after the fetch.
// It is deliberately a separate constant from overpass.SearchRadiusMeters.
const MaxDistanceKm = 15.0

// Fallbacks for elements without a name or address tags.
const (
	DefaultName    = "Ponto de Coleta"
	DefaultAddress = "Endereço não informado"
)

// Type is the facility classification.
type Type string

// Facility types, in display priority order.
const (
	Hemocenter      Type = "hemocenter"
	CollectionPoint Type = "collection_point"
	Hospital        Type = "hospital"
	Clinic          Type = "clinic"
)

// Label returns the display name of the type.
func (t Type) Label() string {
	switch t {
	case Hemocenter:
		return "Hemocentro"
	case Hospital:
		return "Hospital"
	case Clinic:
		return "Clínica"
	default:
		return "Ponto de coleta"
	}
}

// Priority orders types for display: lower comes first.
func (t Type) Priority() int {
	switch t {
	case Hemocenter:
		return 0
	case CollectionPoint:
		return 1
	default:
		return 2
	}
}

// Facility is a normalized search result.
type Facility struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Type       Type          `json:"type"`
	Address    string        `json:"address"`
	Point      spatial.Point `json:"point"`
	DistanceKm float64       `json:"distance_km"`
}
