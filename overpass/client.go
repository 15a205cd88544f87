// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package overpass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/hemoloc/hemoloc/utils/httputils"
)

// maxErrorDetail bounds how much of a failed response ends up in the error.
const maxErrorDetail = 256

// Client posts queries to an Overpass interpreter.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a client for endpoint. Empty endpoint means
// DefaultEndpoint and a nil httpClient means http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Endpoint returns the interpreter URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Elements runs query and returns the decoded elements once the whole body
// has been received. A non-success status or a transport failure returns a
// *ServiceError; an unparsable body returns no elements and no error.
// Cancellation of ctx is returned as a plain context.Canceled error.
func (c *Client) Elements(ctx context.Context, query string) ([]Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("building overpass request: %w", err)
	}

	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
		if !utf8.Valid(detail) {
			detail = nil
		}

		return nil, ClassifyStatus(resp.StatusCode, string(detail))
	}

	r, err := httputils.DecodeBody(resp)
	if err != nil {
		return nil, classifyTransport(err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, transportError(fmt.Errorf("reading overpass response: %w", err))
	}

	return DecodeElements(data), nil
}
