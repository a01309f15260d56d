// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeHTTP is a non-2xx response from the service.
	ErrTypeHTTP
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeRateLimited
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeHTTP:
		return "http"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// APIError is returned by every Client method.
//
// For ErrTypeHTTP the message is the server's detail string, the HTTP status
// text when the body was not JSON, or "API error: <code>" when a JSON body
// had no detail.
type APIError struct {
	Type       ErrorType
	StatusCode int
	Detail     string
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Type == ErrTypeHTTP {
		if e.Detail != "" {
			return e.Detail
		}
		return fmt.Sprintf("API error: %d", e.StatusCode)
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by type and, when the sentinel has one, status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.StatusCode == 0 || t.StatusCode == e.StatusCode)
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound    = &APIError{Type: ErrTypeHTTP, StatusCode: http.StatusNotFound, Message: "not found"}
	ErrHTTP        = &APIError{Type: ErrTypeHTTP, Message: "service returned an error"}
	ErrUnavailable = &APIError{Type: ErrTypeConnection, Message: "service unreachable"}
	ErrTimeout     = &APIError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrRateLimited = &APIError{Type: ErrTypeRateLimited, Message: "too many requests"}
)

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Type == ErrTypeHTTP {
		return apiErr.StatusCode
	}
	return 0
}

// newHTTPError builds the error for a non-2xx response body.
func newHTTPError(statusCode int, body []byte) *APIError {
	e := &APIError{Type: ErrTypeHTTP, StatusCode: statusCode}

	if !json.Valid(body) {
		e.Detail = http.StatusText(statusCode)
		return e
	}
	// Any JSON counts as a service answer; only an object can carry a detail.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		e.Detail = detailString(obj["detail"])
	}
	return e
}

// detailString flattens a "detail" value. Strings are used as is; FastAPI
// validation lists become their "msg" fields joined by "; "; anything else
// is kept as compact JSON.
func detailString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				msgs = nil
				break
			}
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
