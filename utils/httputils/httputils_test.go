// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRoundTripper remembers the last request and answers with a canned body.
type recordingRoundTripper struct {
	lastRequest *http.Request
	body        string
	header      http.Header
}

func (d *recordingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	d.lastRequest = req

	header := d.header
	if header == nil {
		header = make(http.Header)
	}

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Request:    req,
	}, nil
}

func TestLoggingRoundTripper(t *testing.T) {
	var logBuffer bytes.Buffer

	lt := &LoggingRoundTripper{
		Transport: &recordingRoundTripper{body: "response body"},
		Writer:    &logBuffer,
		DumpBody:  true,
	}

	req, err := http.NewRequest(http.MethodPost, "http://example.com/api/interpreter", strings.NewReader("node;out;"))
	require.NoError(t, err)

	resp, err := lt.RoundTrip(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "response body", string(body), "body must still be readable after the dump")

	logContent := logBuffer.String()
	assert.Contains(t, logContent, "> POST /api/interpreter")
	assert.Contains(t, logContent, "> node;out;")
	assert.Contains(t, logContent, "< RESPONSE: [")
	assert.Contains(t, logContent, "response body")
}

func TestLoggingRoundTripperDisabled(t *testing.T) {
	rt := &recordingRoundTripper{body: "ok"}
	lt := &LoggingRoundTripper{Transport: rt}

	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	_, err = lt.RoundTrip(req)
	require.NoError(t, err)
	assert.Same(t, req, rt.lastRequest)
}

func TestHeaderRoundTripper(t *testing.T) {
	rt := &recordingRoundTripper{}
	hrt := &HeaderRoundTripper{
		Transport: rt,
		Headers:   map[string]string{"User-Agent": "hemoloc/test"},
	}

	req, err := http.NewRequest(http.MethodPost, "http://example.org", nil)
	require.NoError(t, err)

	_, err = hrt.RoundTrip(req)
	require.NoError(t, err)

	require.NotNil(t, rt.lastRequest)
	assert.Equal(t, "hemoloc/test", rt.lastRequest.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("User-Agent"), "original request must not be mutated")
}

func TestNewClientSetsUserAgent(t *testing.T) {
	rt := &recordingRoundTripper{}
	client := NewClient(ClientOptions{UserAgent: "hemoloc/1.0", Transport: rt})

	resp, err := client.Get("http://example.org/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "hemoloc/1.0", rt.lastRequest.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", rt.lastRequest.Header.Get("Accept"))
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
	}{
		{"no charset", "application/json", []byte(`{"a":"São"}`), `{"a":"São"}`},
		{"utf-8", "application/json; charset=utf-8", []byte(`{"a":"São"}`), `{"a":"São"}`},
		{"latin1", "application/json; charset=ISO-8859-1", []byte("{\"a\":\"S\xe3o\"}"), `{"a":"São"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				Header: http.Header{"Content-Type": []string{tt.contentType}},
				Body:   io.NopCloser(bytes.NewReader(tt.body)),
			}

			r, err := DecodeBody(resp)
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
