// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hemoloc/hemoloc/spatial"
)

const googleMapsEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsOptions configures NewGoogleMaps.
type GoogleMapsOptions struct {
	APIKey string

	// Region biases results, "br" by default.
	Region string

	// Endpoint overrides the Geocoding API URL.
	Endpoint string

	HTTPClient *http.Client
}

// GoogleMaps uses the Google Maps Geocoding API.
type GoogleMaps struct {
	apiKey     string
	region     string
	endpoint   string
	httpClient *http.Client
}

// NewGoogleMaps creates a new Google Maps geocoder.
func NewGoogleMaps(opts GoogleMapsOptions) *GoogleMaps {
	g := &GoogleMaps{
		apiKey:     opts.APIKey,
		region:     opts.Region,
		endpoint:   opts.Endpoint,
		httpClient: opts.HTTPClient,
	}

	if g.region == "" {
		g.region = "br"
	}

	if g.endpoint == "" {
		g.endpoint = googleMapsEndpoint
	}

	if g.httpClient == nil {
		g.httpClient = http.DefaultClient
	}

	return g
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

func confidence(locationType string) string {
	switch locationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		return "high"
	case "GEOMETRIC_CENTER":
		return "medium"
	default:
		return "low"
	}
}

var _ Geocoder = (*GoogleMaps)(nil)

// Geocode implements Geocoder.
func (g *GoogleMaps) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)
	params.Set("region", g.region)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google maps returned status %d", resp.StatusCode)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, fmt.Errorf("%w for %q", ErrNoResult, address)
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, gmResp.Status)
	case "REQUEST_DENIED":
		return nil, fmt.Errorf("%w: %s", ErrDenied, gmResp.ErrorMessage)
	default:
		return nil, fmt.Errorf("google maps status: %s %s", gmResp.Status, gmResp.ErrorMessage)
	}

	if len(gmResp.Results) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResult, address)
	}

	result := gmResp.Results[0]

	return &Result{
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Confidence:  confidence(result.Geometry.LocationType),
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}, nil
}
