// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package facility

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
)

// ErrInvalidCoordinate is returned for origins outside the valid
// latitude/longitude ranges.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ElementSource runs an Overpass query. *overpass.Client implements it.
type ElementSource interface {
	Elements(ctx context.Context, query string) ([]overpass.Element, error)
}

// Searcher finds donation facilities near a point. It holds no per-call
// state and is safe for concurrent use.
type Searcher struct {
	source ElementSource
}

// NewSearcher returns a Searcher backed by source.
func NewSearcher(source ElementSource) *Searcher {
	return &Searcher{source: source}
}

// Search issues a single query around origin and returns the ranked
// facilities, possibly none. When the service fails no partial list is
// returned and the error matches overpass.ErrServiceUnavailable.
func (s *Searcher) Search(ctx context.Context, origin spatial.Point) ([]Facility, error) {
	if !origin.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoordinate, origin)
	}

	elements, err := s.source.Elements(ctx, overpass.BuildQuery(origin))
	if err != nil {
		return nil, fmt.Errorf("searching facilities near %v: %w", origin, err)
	}

	facilities := FromElements(origin, elements)

	log.Printf("Found %d facilities near %v (%d elements)", len(facilities), origin, len(elements))

	return facilities, nil
}
