// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils builds the outbound HTTP client used to talk to the
// geographic services, with optional wire tracing.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// ClientOptions configures NewClient.
type ClientOptions struct {
	// UserAgent is sent on every request.
	UserAgent string

	// Trace dumps request and response headers to Writer (stderr by default).
	Trace bool

	// TraceBody also dumps bodies. Implies Trace.
	TraceBody bool

	// Writer receives the trace. Nil means os.Stderr.
	Writer io.Writer

	// Transport is the innermost round tripper. Nil means a pooled
	// http.Transport.
	Transport http.RoundTripper
}

// NewClient returns an http.Client whose transport adds the configured
// headers and, when enabled, traces every exchange.
//
// No client-wide timeout is set; callers bound requests with their context.
func NewClient(opts ClientOptions) *http.Client {
	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     30 * time.Second,
		}
	}

	var w io.Writer
	if opts.Trace || opts.TraceBody {
		w = opts.Writer
		if w == nil {
			w = os.Stderr
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "hemoloc/unknown"
	}

	return &http.Client{
		Transport: &HeaderRoundTripper{
			Headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/json",
			},
			Transport: &LoggingRoundTripper{
				Transport: base,
				Writer:    w,
				DumpBody:  opts.TraceBody,
			},
		},
	}
}

// LoggingRoundTripper dumps each exchange to Writer. A nil Writer disables it.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// prefix each dumped line and cap the dump size.
func prefixLines(dump []byte, prefix string) string {
	const maxLines, maxChars = 512, 256

	lines := strings.Split(strings.TrimRight(string(dump), "\r\n"), "\n")
	truncated := len(lines) > maxLines

	if truncated {
		lines = lines[:maxLines]
	}

	var sb strings.Builder

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if len(line) > maxChars {
			line = line[:maxChars] + "…"
		}

		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if truncated {
		sb.WriteString(prefix)
		sb.WriteString("…\n")
	}

	return sb.String()
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if _, err := io.WriteString(t.Writer, prefixLines(dump, "> ")); err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		fmt.Fprintf(t.Writer, "< ERROR: [%v] %v\n", time.Since(start), err)

		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		resp.Body.Close()

		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", time.Since(start))

	if _, err := io.WriteString(t.Writer, prefixLines(dump, "< ")); err != nil {
		resp.Body.Close()

		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	return resp, nil
}

// HeaderRoundTripper sets fixed headers on every request.
type HeaderRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// DecodeBody returns the response body transcoded to UTF-8 according to the
// Content-Type charset. Bodies without a declared charset are returned as is.
func DecodeBody(resp *http.Response) (io.Reader, error) {
	media := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(media), "charset=") {
		return resp.Body, nil
	}

	r, err := charset.NewReader(resp.Body, media)
	if err != nil {
		return nil, fmt.Errorf("decoding %q body: %w", media, err)
	}

	return r, nil
}
