// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestElementPoint(t *testing.T) {
	tests := []struct {
		name    string
		element overpass.Element
		want    spatial.Point
		ok      bool
	}{
		{
			name:    "node",
			element: overpass.Element{Lat: ptr(-23.5), Lon: ptr(-46.6)},
			want:    spatial.Point{Lat: -23.5, Lng: -46.6},
			ok:      true,
		},
		{
			name:    "way centroid",
			element: overpass.Element{Center: &overpass.Center{Lat: ptr(1), Lon: ptr(2)}},
			want:    spatial.Point{Lat: 1, Lng: 2},
			ok:      true,
		},
		{
			name: "direct point wins over centroid",
			element: overpass.Element{
				Lat: ptr(3), Lon: ptr(4),
				Center: &overpass.Center{Lat: ptr(1), Lon: ptr(2)},
			},
			want: spatial.Point{Lat: 3, Lng: 4},
			ok:   true,
		},
		{
			name:    "half a direct point falls back to centroid",
			element: overpass.Element{Lat: ptr(3), Center: &overpass.Center{Lat: ptr(1), Lon: ptr(2)}},
			want:    spatial.Point{Lat: 1, Lng: 2},
			ok:      true,
		},
		{
			name:    "empty centroid",
			element: overpass.Element{Center: &overpass.Center{}},
			ok:      false,
		},
		{
			name:    "no coordinate",
			element: overpass.Element{Tags: map[string]string{"name": "X"}},
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ElementPoint(tt.element)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddress(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"nil tags", nil, DefaultAddress},
		{"no address tags", map[string]string{"name": "X"}, DefaultAddress},
		{
			"full address",
			map[string]string{
				"addr:street":      "Avenida Doutor Enéas Carvalho de Aguiar",
				"addr:housenumber": "155",
				"addr:suburb":      "Cerqueira César",
				"addr:city":        "São Paulo",
				"addr:state":       "SP",
			},
			"Avenida Doutor Enéas Carvalho de Aguiar, 155 - Cerqueira César, São Paulo, SP",
		},
		{
			"generic street tag",
			map[string]string{"street": "Rua A", "addr:housenumber": "10"},
			"Rua A, 10",
		},
		{
			"structured street preferred",
			map[string]string{"addr:street": "Rua B", "street": "Rua A"},
			"Rua B",
		},
		{
			"only locality",
			map[string]string{"addr:neighbourhood": "Centro", "addr:town": "Itu"},
			"Centro, Itu",
		},
		{
			"suburb preferred over neighbourhood, town over village",
			map[string]string{
				"addr:suburb":        "Bela Vista",
				"addr:neighbourhood": "Bixiga",
				"addr:town":          "Cidade",
				"addr:village":       "Vila",
			},
			"Bela Vista, Cidade",
		},
		{
			"blank fragments ignored",
			map[string]string{"addr:street": "  ", "addr:housenumber": "12", "addr:state": "RJ"},
			"12 - RJ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.tags))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Hemocentro RP", Name(map[string]string{"name": "  Hemocentro RP \n"}))
	assert.Equal(t, DefaultName, Name(map[string]string{"name": "   "}))
	assert.Equal(t, DefaultName, Name(nil))
}

func TestNormalize(t *testing.T) {
	f, ok := Normalize(overpass.Element{
		ID:   42,
		Type: "node",
		Lat:  ptr(-22.9),
		Lon:  ptr(-43.2),
		Tags: map[string]string{
			"name":        "HEMORIO - Hemocentro do Rio",
			"amenity":     "hospital",
			"addr:street": "Rua Frei Caneca",
		},
	})

	assert.True(t, ok)

	expected := Facility{
		ID:      "42",
		Name:    "HEMORIO - Hemocentro do Rio",
		Type:    Hemocenter,
		Address: "Rua Frei Caneca",
		Point:   spatial.Point{Lat: -22.9, Lng: -43.2},
	}
	if diff := cmp.Diff(expected, f); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCentroidWithoutTags(t *testing.T) {
	f, ok := Normalize(overpass.Element{
		ID:     9,
		Type:   "way",
		Center: &overpass.Center{Lat: ptr(0.001), Lon: ptr(0.001)},
	})

	assert.True(t, ok)
	assert.Equal(t, CollectionPoint, f.Type)
	assert.Equal(t, DefaultAddress, f.Address)
	assert.Equal(t, DefaultName, f.Name)
}

func TestNormalizeWithoutCoordinate(t *testing.T) {
	_, ok := Normalize(overpass.Element{ID: 1, Tags: map[string]string{"amenity": "hospital"}})
	assert.False(t, ok)
}
