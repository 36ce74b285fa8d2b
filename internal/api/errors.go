package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// StatusError is a non-success response from the service. Detail carries the
// server-supplied message when one was present.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// detailBody matches the service's error envelope. Detail is either a plain
// string or a list of validation objects carrying a msg field.
type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// extractDetail pulls a display string out of an error response body.
// Returns "" when the body carries no usable detail.
func extractDetail(body []byte) string {
	var envelope detailBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(envelope.Detail, &asString); err == nil {
		return asString
	}

	var asList []validationItem
	if err := json.Unmarshal(envelope.Detail, &asList); err == nil && len(asList) > 0 {
		msgs := make([]string, 0, len(asList))
		for _, item := range asList {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// Message turns any client error into a display string. Status errors yield
// the server detail; transport errors are categorized into something
// actionable.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	return CategorizeTransportError(err)
}

// CategorizeTransportError maps raw network errors to user-facing messages.
// It unwraps the error chain and inspects both error types and error text.
func CategorizeTransportError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - the service took too long to respond"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}

	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	if urlErr, ok := rootErr.(*url.Error); ok {
		if urlErr.Timeout() {
			return "Request timeout - the service took too long to respond"
		}
		return CategorizeTransportError(urlErr.Err)
	}

	if opErr, ok := rootErr.(*net.OpError); ok {
		if opErr.Timeout() {
			return "Connection timeout - the service took too long to respond"
		}
		if errno, ok := opErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ECONNREFUSED:
				return "Connection refused - check that the coding service is running and the base URL is correct"
			case syscall.ECONNRESET:
				return "Connection reset by the service"
			case syscall.ENETUNREACH, syscall.EHOSTUNREACH:
				return "Service unreachable - check network connection and base URL"
			}
		}
	}

	return categorizeErrorString(err.Error())
}

func categorizeErrorString(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "context canceled"),
		strings.Contains(errLower, "context cancelled"):
		return "Request cancelled"
	case strings.Contains(errLower, "deadline exceeded"),
		strings.Contains(errLower, "timeout"),
		strings.Contains(errLower, "timed out"):
		return "Request timeout - the service took too long to respond"
	case strings.Contains(errLower, "no such host"),
		strings.Contains(errLower, "dial tcp: lookup"):
		return "DNS resolution failed - verify the service hostname"
	case strings.Contains(errLower, "connection refused"):
		return "Connection refused - check that the coding service is running and the base URL is correct"
	case strings.Contains(errLower, "connection reset"):
		return "Connection reset by the service"
	case strings.Contains(errLower, "network is unreachable"),
		strings.Contains(errLower, "no route to host"):
		return "Service unreachable - check network connection and base URL"
	case strings.Contains(errLower, "certificate"),
		strings.Contains(errLower, "x509"),
		strings.Contains(errLower, "tls"):
		return "TLS error - check the service certificate: " + errStr
	case strings.Contains(errLower, "unsupported protocol"),
		strings.Contains(errLower, "invalid url"):
		return "Invalid service URL - verify base_url in settings"
	case strings.Contains(errLower, "eof"):
		return "Connection closed unexpectedly by the service"
	}

	return errStr
}
