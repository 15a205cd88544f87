// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package overpass

import (
	"encoding/json"
	"log"
)

// Element is a single feature as returned by the interpreter with
// `out center tags`. Nodes carry Lat/Lon; ways and relations carry Center.
type Element struct {
	ID     int64             `json:"id"`
	Type   string            `json:"type,omitempty"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the centroid computed by the service for non-point features.
type Center struct {
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

type response struct {
	Elements []json.RawMessage `json:"elements"`
}

// DecodeElements parses an interpreter JSON payload. A payload that cannot be
// parsed, or that lacks the elements array, yields no elements. Elements that
// fail to decode on their own are skipped.
func DecodeElements(data []byte) []Element {
	var payload response
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("overpass: ignoring malformed response (%d bytes): %v", len(data), err)

		return nil
	}

	if payload.Elements == nil {
		log.Println("overpass: response has no elements array")

		return nil
	}

	elements := make([]Element, 0, len(payload.Elements))

	for i, raw := range payload.Elements {
		var e Element
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("overpass: skipping element #%d: %v", i, err)

			continue
		}

		elements = append(elements, e)
	}

	return elements
}
