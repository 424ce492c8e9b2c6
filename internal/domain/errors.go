package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// FailureClass classifies why an upstream call failed.
type FailureClass int

const (
	// FailureUnknown is any error that was not classified by an upstream.
	FailureUnknown FailureClass = iota
	// FailureTimeout means the call exceeded its deadline.
	FailureTimeout
	// FailureNetwork means the upstream host could not be reached.
	FailureNetwork
	// FailureUpstreamHTTP means the upstream answered with a non-success status.
	FailureUpstreamHTTP
	// FailureMalformedResponse means the upstream answered with an unusable body.
	FailureMalformedResponse
	// FailureConfiguration means required upstream configuration is missing.
	FailureConfiguration
)

// String returns the label used for logs and the api_errors_total metric.
func (c FailureClass) String() string {
	switch c {
	case FailureTimeout:
		return "timeout"
	case FailureNetwork:
		return "network_error"
	case FailureUpstreamHTTP:
		return "upstream_http_error"
	case FailureMalformedResponse:
		return "malformed_response"
	case FailureConfiguration:
		return "configuration_error"
	case FailureUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Transient reports whether a failure of this class may succeed on retry.
func (c FailureClass) Transient() bool {
	return c == FailureTimeout || c == FailureNetwork
}

// UpstreamError is a classified upstream failure.
type UpstreamError struct {
	Class      FailureClass
	StatusCode int    // set for FailureUpstreamHTTP
	Body       string // raw upstream body, for diagnostics only
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Class.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewTimeoutError classifies err as a timeout.
func NewTimeoutError(err error) *UpstreamError {
	return &UpstreamError{Class: FailureTimeout, Message: "request timed out", Err: err}
}

// NewNetworkError classifies err as a transport failure.
func NewNetworkError(err error) *UpstreamError {
	return &UpstreamError{Class: FailureNetwork, Message: "upstream unreachable", Err: err}
}

// NewHTTPStatusError records a non-success upstream status and its body.
func NewHTTPStatusError(status int, body string) *UpstreamError {
	return &UpstreamError{
		Class:      FailureUpstreamHTTP,
		StatusCode: status,
		Body:       body,
		Message:    "upstream returned non-success status",
	}
}

// NewMalformedResponseError classifies err as an upstream contract violation.
func NewMalformedResponseError(err error) *UpstreamError {
	return &UpstreamError{Class: FailureMalformedResponse, Message: "invalid upstream response", Err: err}
}

// Configuration failure messages shared by all upstreams.
const (
	MsgAPIKeyMissing = "API key not configured"
	MsgAPIURLMissing = "API URL not configured"
)

// NewConfigurationError reports missing upstream configuration.
func NewConfigurationError(message string) *UpstreamError {
	return &UpstreamError{Class: FailureConfiguration, Message: message}
}

// ClassOf returns the failure class carried by err, or FailureUnknown.
func ClassOf(err error) FailureClass {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Class
	}
	return FailureUnknown
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	return ClassOf(err).Transient()
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
	Value    any    `json:"value"`
}

// ValidationError is returned when request input is rejected.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
