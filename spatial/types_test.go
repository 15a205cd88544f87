// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, ToRadians(180), 1e-12)
	assert.InDelta(t, -math.Pi/2, ToRadians(-90), 1e-12)
	assert.Zero(t, ToRadians(0))
}

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{Lat: -23.55, Lng: -46.63}, Point{Lat: -23.55, Lng: -46.63}, 0},
		{"hundredth of a degree north", Point{}, Point{Lat: 0.01}, 1.112},
		{"one degree along equator", Point{}, Point{Lng: 1}, 111.195},
		{"sao paulo to rio", Point{Lat: -23.5505, Lng: -46.6333}, Point{Lat: -22.9068, Lng: -43.1729}, 360.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceKm(tt.a, tt.b), 0.5)
		})
	}
}

func TestDistanceKmIdentityAndSymmetry(t *testing.T) {
	points := []Point{
		{Lat: 0, Lng: 0},
		{Lat: -15.7939, Lng: -47.8828},
		{Lat: 51.5, Lng: -0.12},
		{Lat: -89.9, Lng: 179.9},
		{Lat: 35.68, Lng: 139.69},
	}

	for _, a := range points {
		assert.Zero(t, DistanceKm(a, a), "distance(%v, %v)", a, a)

		for _, b := range points {
			assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9, "symmetry %v %v", a, b)
		}
	}
}

func TestDistanceKmAntipodes(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 10000 {
		p := Point{Lat: rng.Float64()*180 - 90, Lng: rng.Float64()*360 - 180}
		antipode := Point{Lat: -p.Lat, Lng: p.Lng + 180}

		if antipode.Lng > 180 {
			antipode.Lng -= 360
		}

		d := DistanceKm(p, antipode)
		require.False(t, math.IsNaN(d), "distance(%v, %v) is NaN", p, antipode)
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1)
	}
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 90, Lng: 180}.Valid())
	assert.True(t, Point{Lat: -90, Lng: -180}.Valid())
	assert.False(t, Point{Lat: 90.1}.Valid())
	assert.False(t, Point{Lng: -180.5}.Valid())
	assert.False(t, Point{Lat: math.NaN()}.Valid())
}
