// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package overpass

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrServiceUnavailable matches every failure to obtain a response from the
// interpreter, whatever its ErrorType.
var ErrServiceUnavailable = errors.New("overpass service unavailable")

// ErrorType classifies a ServiceError.
type ErrorType int

const (
	// ErrorTypeUnknown is any non-success status without a better match.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit means too many concurrent queries from this client.
	ErrorTypeRateLimit
	// ErrorTypeTimeout means the interpreter or the transport timed out.
	ErrorTypeTimeout
	// ErrorTypeInvalidQuery means the interpreter rejected the query.
	ErrorTypeInvalidQuery
	// ErrorTypeNetwork is a transport failure or a gateway error.
	ErrorTypeNetwork
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeInvalidQuery:
		return "invalid_query"
	case ErrorTypeNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// ServiceError reports a failed interpreter call.
type ServiceError struct {
	Type       ErrorType
	StatusCode int // zero for transport failures
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrServiceUnavailable) hold for any ServiceError.
func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// ClassifyStatus maps a non-success interpreter status to a ServiceError.
// detail is an excerpt of the response body, appended to the message.
func ClassifyStatus(statusCode int, detail string) *ServiceError {
	var (
		t   ErrorType
		msg string
	)

	switch statusCode {
	case http.StatusTooManyRequests:
		t, msg = ErrorTypeRateLimit, "rate limit reached"
	case http.StatusGatewayTimeout:
		t, msg = ErrorTypeTimeout, "interpreter timed out"
	case http.StatusBadRequest:
		t, msg = ErrorTypeInvalidQuery, "query rejected"
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		t, msg = ErrorTypeNetwork, fmt.Sprintf("service unavailable (status %d)", statusCode)
	default:
		t, msg = ErrorTypeUnknown, fmt.Sprintf("HTTP error %d", statusCode)
	}

	if detail = strings.TrimSpace(detail); detail != "" {
		msg += ": " + detail
	}

	return &ServiceError{Type: t, StatusCode: statusCode, Message: msg}
}

// classifyTransport wraps an error returned by http.Client.Do.
func classifyTransport(err error) *ServiceError {
	t := ErrorTypeNetwork

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		t = ErrorTypeTimeout
	}

	return &ServiceError{Type: t, Message: "overpass request failed", Err: err}
}

// transportError is classifyTransport except for caller cancellation, which
// is not a service failure and is returned without a ServiceError.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("overpass request: %w", err)
	}

	return classifyTransport(err)
}

// IsRateLimitError reports whether err is a rate limit rejection.
func IsRateLimitError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Type == ErrorTypeRateLimit
	}

	return false
}

// IsTimeoutError reports whether err is a server or transport timeout.
func IsTimeoutError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Type == ErrorTypeTimeout
	}

	return errors.Is(err, context.DeadlineExceeded)
}
