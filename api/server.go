// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the facility search as a JSON HTTP endpoint.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/overpass"
	"github.com/hemoloc/hemoloc/spatial"
)

// statusClientClosedRequest is the nginx convention for a request the client
// abandoned before the response was ready.
const statusClientClosedRequest = 499

// Searcher is the search entry point served by the API.
type Searcher interface {
	Search(ctx context.Context, origin spatial.Point) ([]facility.Facility, error)
}

type Server struct {
	searcher Searcher
}

func NewServer(searcher Searcher) *Server {
	return &Server{searcher: searcher}
}

// Router returns the engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())

	r.GET("/healthz", s.health)
	r.GET("/api/facilities", s.searchFacilities)

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FacilityResponse is a facility with its display label.
type FacilityResponse struct {
	facility.Facility
	TypeLabel string `json:"type_label"`
}

func parseCoordinate(ctx *gin.Context, name string) (float64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": name + " query parameter is required"})

		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})

		return 0, false
	}

	return v, true
}

func (s *Server) searchFacilities(ctx *gin.Context) {
	lat, ok := parseCoordinate(ctx, "lat")
	if !ok {
		return
	}

	lon, ok := parseCoordinate(ctx, "lon")
	if !ok {
		return
	}

	facilities, err := s.searcher.Search(ctx.Request.Context(), spatial.Point{Lat: lat, Lng: lon})

	switch {
	case err == nil:
	case errors.Is(err, facility.ErrInvalidCoordinate):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	case errors.Is(err, context.Canceled):
		log.Printf("[%s] search canceled: %v", ctx.GetString(requestIDKey), err)
		ctx.JSON(statusClientClosedRequest, gin.H{"error": "request canceled"})

		return
	case overpass.IsRateLimitError(err):
		ctx.Header("Retry-After", "60")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service is busy, try again later"})

		return
	case errors.Is(err, overpass.ErrServiceUnavailable):
		log.Printf("[%s] search failed: %v", ctx.GetString(requestIDKey), err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "search service unavailable"})

		return
	default:
		log.Printf("[%s] search failed: %v", ctx.GetString(requestIDKey), err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})

		return
	}

	resp := make([]FacilityResponse, 0, len(facilities))
	for _, f := range facilities {
		resp = append(resp, FacilityResponse{Facility: f, TypeLabel: f.Type.Label()})
	}

	ctx.JSON(http.StatusOK, resp)
}
